package sketch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{"steps": [
		{"action": "click", "x": 20, "y": 30},
		{"action": "wait", "frames": 2},
		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 10, "toY": 10, "frames": 4},
		{"action": "screenshot", "label": "end"}
	]}`)
	s, err := LoadScript(data)
	require.NoError(t, err)
	require.Len(t, s.steps, 4)
	assert.Equal(t, "click", s.steps[0].Action)
	assert.Equal(t, 20.0, s.steps[0].X)
	assert.Equal(t, 4, s.steps[2].Frames)
	assert.Equal(t, "end", s.steps[3].Label)
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadScriptFileMissing(t *testing.T) {
	_, err := LoadScriptFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestScriptStepClick(t *testing.T) {
	s, err := LoadScript([]byte(`{"steps": [{"action": "click", "x": 20, "y": 20}]}`))
	require.NoError(t, err)

	p := s.Step()
	assert.True(t, p.Pressed)
	assert.Equal(t, 20.0, p.X)
	assert.False(t, s.Done())

	p = s.Step()
	assert.False(t, p.Pressed)
	assert.True(t, s.Done())
}

func TestScriptStepWait(t *testing.T) {
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "move", "x": 5, "y": 5}
	]}`))
	require.NoError(t, err)

	for i := range 3 {
		p := s.Step()
		assert.Equal(t, 0.0, p.X, "frame %d", i)
	}
	p := s.Step()
	assert.Equal(t, 5.0, p.X)
	assert.True(t, s.Done())
}

func TestScriptStepDrag(t *testing.T) {
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 30, "toY": 0, "frames": 4}
	]}`))
	require.NoError(t, err)

	var xs []float64
	var pressed []bool
	for !s.Done() {
		p := s.Step()
		xs = append(xs, p.X)
		pressed = append(pressed, p.Pressed)
	}
	assert.InDeltaSlice(t, []float64{0, 10, 20, 30}, xs, 1e-9)
	assert.Equal(t, []bool{true, true, true, false}, pressed)
}

func TestInjectDragMinFrames(t *testing.T) {
	var s Script
	s.InjectDrag(0, 0, 10, 10, 0)
	assert.Len(t, s.queue, 2)
}

func TestScriptScreenshotsFollowInput(t *testing.T) {
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "click", "x": 10, "y": 10},
		{"action": "screenshot", "label": "after"}
	]}`))
	require.NoError(t, err)

	s.Step()
	s.Step()
	assert.Empty(t, s.TakeScreenshots(), "screenshot waits for queued input")
	s.Step()
	assert.Equal(t, []string{"after"}, s.TakeScreenshots())
	assert.Empty(t, s.TakeScreenshots())
	assert.True(t, s.Done())
}

func TestRunScript(t *testing.T) {
	root := NewRootCanvas(RootConfig{})
	button := newProbe("button", 0, 0, 20, 20, false)
	var clicks int
	button.OnClick(func(PointerEvent) { clicks++ })
	root.Add(button)

	s, err := LoadScript([]byte(`{"steps": [
		{"action": "click", "x": 10, "y": 10},
		{"action": "wait", "frames": 2},
		{"action": "screenshot", "label": "clicked"}
	]}`))
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := RunScript(root, newTestSurface(), s, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, clicks)
	require.Len(t, paths, 1)
	assert.Equal(t, dir, filepath.Dir(paths[0]))
	_, err = os.Stat(paths[0])
	assert.NoError(t, err)
}
