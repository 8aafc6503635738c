package sketch

import (
	"log/slog"
	"time"
)

// FrameStats holds timing and pick metrics for the last RootCanvas frame.
type FrameStats struct {
	AnimateTime  time.Duration
	PaintTime    time.Duration
	PickTime     time.Duration
	DispatchTime time.Duration

	// Tagged is the number of elements numbered by the pick pass.
	Tagged int
	// Hits is the number of pick records kept.
	Hits int
	// PickOverflow counts records dropped because the pick buffer was full.
	PickOverflow int
	// Selected is the decoded pick index, -1 for no hit.
	Selected int
}

// Total returns the sum of the phase durations.
func (s FrameStats) Total() time.Duration {
	return s.AnimateTime + s.PaintTime + s.PickTime + s.DispatchTime
}

// debugLog writes frame stats at debug level.
func (r *RootCanvas) debugLog(stats FrameStats) {
	if !r.debug.Load() {
		return
	}
	Logger().Debug("frame",
		slog.Duration("animate", stats.AnimateTime),
		slog.Duration("paint", stats.PaintTime),
		slog.Duration("pick", stats.PickTime),
		slog.Duration("dispatch", stats.DispatchTime),
		slog.Duration("total", stats.Total()),
		slog.Int("tagged", stats.Tagged),
		slog.Int("hits", stats.Hits),
		slog.Int("selected", stats.Selected),
	)
}

// debugCheckOverflow warns when the pick buffer dropped records. Logged in
// every mode since it silently changes which element is selected.
func debugCheckOverflow(stats FrameStats, capacity int) {
	if stats.PickOverflow > 0 {
		Logger().Warn("pick buffer overflow",
			slog.Int("dropped", stats.PickOverflow),
			slog.Int("capacity", capacity))
	}
}

// debugMaxDepth is the canvas nesting depth above which debug mode warns.
const debugMaxDepth = 32

// debugMaxElementCount is the per-canvas element count above which debug mode warns.
const debugMaxElementCount = 1000

// debugCheckTree walks c and warns about deep nesting and oversized canvases.
func debugCheckTree(c *Canvas, depth int) {
	if depth > debugMaxDepth {
		Logger().Warn("canvas nesting too deep",
			slog.String("canvas", c.Name), slog.Int("depth", depth), slog.Int("threshold", debugMaxDepth))
		return
	}
	list := c.snapshot()
	if len(list) > debugMaxElementCount {
		Logger().Warn("canvas has many elements",
			slog.String("canvas", c.Name), slog.Int("count", len(list)), slog.Int("threshold", debugMaxElementCount))
	}
	for _, e := range list {
		if sub, ok := e.(*Canvas); ok {
			debugCheckTree(sub, depth+1)
		}
	}
}
