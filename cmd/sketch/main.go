// Command sketch renders a demo scene of clickable shapes.
//
// In a window:
//
//	sketch -config sketch.toml -watch
//
// Headless, replaying a pointer script and writing its screenshots:
//
//	sketch -headless -script clicks.json -out shots
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/phanxgames/sketch"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sketch:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "TOML run config")
		watch      = flag.Bool("watch", false, "reload -config on change")
		headless   = flag.Bool("headless", false, "render without a window")
		scriptPath = flag.String("script", "", "JSON pointer script")
		outDir     = flag.String("out", "", "screenshot directory (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	sketch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := sketch.DefaultRunConfig()
	if *configPath != "" {
		var err error
		if cfg, err = sketch.LoadRunConfig(*configPath); err != nil {
			return err
		}
	}
	if *scriptPath != "" {
		cfg.Script = *scriptPath
	}
	if *outDir != "" {
		cfg.ScreenshotDir = *outDir
	}
	cfg.Debug = cfg.Debug || *verbose

	root := sketch.NewRootCanvas(cfg.RootConfig())
	if bg := cfg.Background(); bg != nil {
		root.SetBackground(bg)
	} else {
		root.SetBackground(sketch.SolidBackground{Color: sketch.Gray(0.1)})
	}
	root.SetDebugMode(cfg.Debug)
	buildScene(root, float64(cfg.Width), float64(cfg.Height))

	if *headless {
		return renderHeadless(root, cfg)
	}
	if *watch && *configPath != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return sketch.RunWatched(ctx, root, *configPath)
	}
	return sketch.Run(root, cfg)
}

func renderHeadless(root *sketch.RootCanvas, cfg sketch.RunConfig) error {
	r := sketch.NewImageRenderer(cfg.Width, cfg.Height)
	if cfg.Script != "" {
		s, err := sketch.LoadScriptFile(cfg.Script)
		if err != nil {
			return err
		}
		paths, err := sketch.RunScript(root, r, s, cfg.ScreenshotDir)
		for _, p := range paths {
			fmt.Println(p)
		}
		return err
	}

	root.Render(r, -1, -1)
	if err := os.MkdirAll(cfg.ScreenshotDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", cfg.ScreenshotDir, err)
	}
	path := filepath.Join(cfg.ScreenshotDir, "frame.png")
	if err := r.SavePNG(path); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// buildScene fills root with a grid of shapes that react to the pointer and
// an overlay canvas with a draggable handle.
func buildScene(root *sketch.RootCanvas, w, h float64) {
	const cols, rows = 6, 4
	cw, ch := w/cols, h/rows
	for row := range rows {
		for col := range cols {
			x, y := float64(col)*cw+cw/2, float64(row)*ch+ch/2
			var s *sketch.Shape
			if (row+col)%2 == 0 {
				s = sketch.NewEllipse(fmt.Sprintf("cell-%d-%d", col, row), x, y, cw*0.6, ch*0.6)
			} else {
				s = sketch.NewRect(fmt.Sprintf("cell-%d-%d", col, row), x-cw*0.3, y-ch*0.3, cw*0.6, ch*0.6)
			}
			base := sketch.Color{R: 0.2 + 0.6*float64(col)/cols, G: 0.3, B: 0.2 + 0.6*float64(row)/rows, A: 1}
			s.Fill = base
			s.Stroke = sketch.ColorWhite
			s.NoStroke = true
			s.OnEnter(func(sketch.PointerEvent) { s.NoStroke = false })
			s.OnLeave(func(sketch.PointerEvent) { s.NoStroke = true })
			s.OnClick(func(ev sketch.PointerEvent) {
				s.Fill = base.Scale(1.5)
				sketch.Logger().Info("click", "element", ev.Name, "x", ev.X, "y", ev.Y)
			})
			root.Add(s)
		}
	}

	overlay := sketch.NewCanvas("overlay")
	handle := sketch.NewRect("handle", w/2-20, h/2-20, 40, 40)
	handle.Fill = sketch.Color{R: 1, G: 1, B: 1, A: 0.7}
	handle.OnDrag(func(ev sketch.PointerEvent) {
		handle.X += ev.DeltaX
		handle.Y += ev.DeltaY
	})
	overlay.Add(handle)
	root.AddCanvas(overlay)
}
