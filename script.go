package sketch

import (
	"encoding/json"
	"fmt"
	"os"
)

// scriptStep is a single action in a pointer script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure of a pointer script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences synthetic pointer input and screenshots across frames.
// Call Step once per frame and feed the returned Pointer to
// RootCanvas.RenderPointer.
//
// Supported actions: move, press, release, click, drag, wait, screenshot.
//
//	{"steps": [
//	  {"action": "click", "x": 20, "y": 20},
//	  {"action": "wait", "frames": 10},
//	  {"action": "screenshot", "label": "after-click"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	queue []Pointer
	ptr   Pointer
	shots []string
}

// LoadScript parses a JSON pointer script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "move", "press", "release", "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// LoadScriptFile reads and parses a JSON pointer script from path.
func LoadScriptFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return LoadScript(data)
}

// Done reports whether every step has run and all queued input was consumed.
func (s *Script) Done() bool { return s.done }

// Pointer returns the pointer state produced by the last Step.
func (s *Script) Pointer() Pointer { return s.ptr }

// InjectPress queues a left-button press at (x, y).
func (s *Script) InjectPress(x, y float64) {
	s.queue = append(s.queue, Pointer{X: x, Y: y, Pressed: true, Button: MouseButtonLeft})
}

// InjectMove queues a move to (x, y) keeping the current button state.
func (s *Script) InjectMove(x, y float64) {
	pressed := s.ptr.Pressed
	if n := len(s.queue); n > 0 {
		pressed = s.queue[n-1].Pressed
	}
	s.queue = append(s.queue, Pointer{X: x, Y: y, Pressed: pressed, Button: MouseButtonLeft})
}

// InjectRelease queues a release at (x, y).
func (s *Script) InjectRelease(x, y float64) {
	s.queue = append(s.queue, Pointer{X: x, Y: y, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release. Consumes two frames.
func (s *Script) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY). Minimum frames is 2.
func (s *Script) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// Step advances the script by one frame and returns the pointer state for it.
func (s *Script) Step() Pointer {
	s.advance()
	if len(s.queue) > 0 {
		s.ptr = s.queue[0]
		copy(s.queue, s.queue[1:])
		s.queue = s.queue[:len(s.queue)-1]
	}
	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(s.queue) == 0 {
		s.done = true
	}
	return s.ptr
}

func (s *Script) advance() {
	if s.done || len(s.queue) > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "move":
		s.InjectMove(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		s.shots = append(s.shots, st.Label)
	}
}

// TakeScreenshots returns the screenshot labels requested since the last
// call. They refer to the frame rendered after the Step that produced them.
func (s *Script) TakeScreenshots() []string {
	labels := s.shots
	s.shots = nil
	return labels
}

// maxScriptFrames bounds RunScript in case a script never finishes.
const maxScriptFrames = 1 << 16

// RunScript renders root headlessly into r, one frame per script step, until
// the script is done. Screenshots are written to dir. Returns the written
// paths.
func RunScript(root *RootCanvas, r *ImageRenderer, s *Script, dir string) ([]string, error) {
	q := screenshotQueue{dir: dir}
	var written []string
	for frame := 0; !s.Done(); frame++ {
		if frame >= maxScriptFrames {
			return written, fmt.Errorf("run script: not done after %d frames", maxScriptFrames)
		}
		root.RenderPointer(r, s.Step())
		if root.TakeReset() {
			root.Reset(r)
		}
		for _, label := range s.TakeScreenshots() {
			q.add(label)
		}
		if q.pending() {
			paths, err := q.flush(r.Image())
			written = append(written, paths...)
			if err != nil {
				return written, err
			}
			Logger().Info("screenshot", "frame", frame, "paths", paths)
		}
	}
	return written, nil
}
