package sketch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// RunConfig configures Run and the sketch command. It can be loaded from a
// TOML file:
//
//	title = "Sketch"
//	width = 640
//	height = 480
//	show_fps = true
//	clear_color = [0.1, 0.1, 0.12, 1.0]
//	pick_region = 5
type RunConfig struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	ShowFPS bool   `toml:"show_fps"`
	// ClearColor is the RGBA background in [0, 1]. Empty keeps the
	// RootCanvas background.
	ClearColor []float64 `toml:"clear_color"`
	// FadeAlpha, when in (0, 1), paints ClearColor translucently each frame
	// instead of clearing.
	FadeAlpha    float64 `toml:"fade_alpha"`
	PickRegion   float64 `toml:"pick_region"`
	PickCapacity int     `toml:"pick_capacity"`
	TPS          int     `toml:"tps"`
	Debug        bool    `toml:"debug"`
	// ScreenshotDir is where scripted and key-triggered screenshots go.
	ScreenshotDir string `toml:"screenshot_dir"`
	// Script is an optional JSON pointer script path replayed by Run.
	Script string `toml:"script"`
}

// DefaultRunConfig returns the configuration used for fields a file leaves out.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "sketch",
		Width:         640,
		Height:        480,
		PickRegion:    DefaultPickRegion,
		PickCapacity:  DefaultPickCapacity,
		TPS:           defaultTPS,
		ScreenshotDir: "screenshots",
	}
}

// RootConfig returns the RootCanvas settings of c.
func (c RunConfig) RootConfig() RootConfig {
	return RootConfig{PickCapacity: c.PickCapacity, PickRegion: c.PickRegion, TPS: c.TPS}
}

// Background returns the background described by ClearColor and FadeAlpha,
// or nil when ClearColor is empty.
func (c RunConfig) Background() Background {
	if len(c.ClearColor) == 0 {
		return nil
	}
	col := Color{A: 1}
	dst := []*float64{&col.R, &col.G, &col.B, &col.A}
	for i, v := range c.ClearColor {
		if i < len(dst) {
			*dst[i] = v
		}
	}
	if c.FadeAlpha > 0 && c.FadeAlpha < 1 {
		return FadeBackground{Color: col, Alpha: c.FadeAlpha}
	}
	return SolidBackground{Color: col}
}

// Validate reports the first invalid field.
func (c RunConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	case c.PickRegion < 0:
		return fmt.Errorf("invalid pick_region %v", c.PickRegion)
	case c.PickCapacity < 0:
		return fmt.Errorf("invalid pick_capacity %d", c.PickCapacity)
	case c.TPS < 0:
		return fmt.Errorf("invalid tps %d", c.TPS)
	case len(c.ClearColor) != 0 && len(c.ClearColor) != 3 && len(c.ClearColor) != 4:
		return fmt.Errorf("clear_color needs 3 or 4 components, got %d", len(c.ClearColor))
	}
	return nil
}

// ParseRunConfig decodes TOML over DefaultRunConfig. Unknown keys are errors.
func ParseRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return RunConfig{}, fmt.Errorf("parse config: line %d column %d: %w", row, col, err)
		}
		return RunConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadRunConfig reads a TOML config file.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseRunConfig(data)
	if err != nil {
		return RunConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SaveRunConfig writes cfg to path as TOML.
func SaveRunConfig(path string, cfg RunConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// reloadDebounce coalesces the burst of events editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// WatchRunConfig watches path and sends the reloaded config on the returned
// channel each time the file changes. Files that fail to parse are logged and
// skipped. The channel is closed when ctx is done or the watcher fails.
//
// The parent directory is watched rather than the file so editors that save
// by rename keep working.
func WatchRunConfig(ctx context.Context, path string) (<-chan RunConfig, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	out := make(chan RunConfig, 1)
	go func() {
		defer close(out)
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
				} else {
					timer.Reset(reloadDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				cfg, err := LoadRunConfig(abs)
				if err != nil {
					Logger().Warn("config reload failed", "path", abs, "err", err)
					continue
				}
				Logger().Info("config reloaded", "path", abs)
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				Logger().Warn("config watcher error", "path", abs, "err", err)
			}
		}
	}()
	return out, nil
}
