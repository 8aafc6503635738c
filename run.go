package sketch

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game is the redraw driver: an ebiten.Game that renders a RootCanvas once
// per frame with the current cursor position. Run creates one for you; use
// Game directly to embed a sketch in your own ebiten loop.
//
// F12 queues a screenshot of the next frame.
type Game struct {
	root    *RootCanvas
	cfg     RunConfig
	surface *EbitenRenderer
	script  *Script
	shots   screenshotQueue
	ptr     Pointer
	reload  <-chan RunConfig
}

// NewGame creates a driver for root. cfg.Script, when set, replaces mouse
// input with the scripted pointer.
func NewGame(root *RootCanvas, cfg RunConfig) (*Game, error) {
	if root == nil {
		panic("sketch: NewGame with nil root")
	}
	g := &Game{root: root}
	if cfg.Script != "" {
		s, err := LoadScriptFile(cfg.Script)
		if err != nil {
			return nil, err
		}
		g.script = s
	}
	g.ApplyConfig(cfg)
	return g, nil
}

// ApplyConfig updates window and scene settings from cfg. Pick buffer
// settings only take effect for new RootCanvas instances.
func (g *Game) ApplyConfig(cfg RunConfig) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		def := DefaultRunConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	g.cfg = cfg
	g.shots.dir = cfg.ScreenshotDir
	if bg := cfg.Background(); bg != nil {
		g.root.SetBackground(bg)
	}
	g.root.SetDebugMode(cfg.Debug)
	ebiten.SetScreenClearedEveryFrame(!retainsFrame(g.root.Background()))
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
}

// Screenshot queues a labeled screenshot of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.shots.add(label)
}

// Update reads input and applies pending config reloads.
func (g *Game) Update() error {
	select {
	case cfg, ok := <-g.reload:
		if ok {
			g.ApplyConfig(cfg)
		} else {
			g.reload = nil
		}
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot("f12")
	}

	if g.script != nil && !g.script.Done() {
		g.ptr = g.script.Step()
		for _, label := range g.script.TakeScreenshots() {
			g.Screenshot(label)
		}
		return nil
	}
	g.ptr = readPointer()
	return nil
}

// Draw renders one frame of the root canvas.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.surface == nil {
		g.surface = NewEbitenRenderer(screen)
	} else {
		g.surface.SetTarget(screen)
	}
	g.root.RenderPointer(g.surface, g.ptr)
	if g.root.TakeReset() {
		g.root.Reset(g.surface)
	}

	if g.shots.pending() {
		if paths, err := g.shots.flush(captureEbiten(screen)); err != nil {
			Logger().Warn("screenshot failed", "err", err)
		} else {
			Logger().Info("screenshot", "paths", paths)
		}
	}

	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout returns the configured logical screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// readPointer reads the mouse. The first held button, in left, right,
// middle order, is reported.
func readPointer() Pointer {
	mx, my := ebiten.CursorPosition()
	p := Pointer{X: float64(mx), Y: float64(my), Modifiers: readModifiers()}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		p.Pressed, p.Button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		p.Pressed, p.Button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		p.Pressed, p.Button = true, MouseButtonMiddle
	}
	return p
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// Run opens a window and renders root until it is closed.
func Run(root *RootCanvas, cfg RunConfig) error {
	g, err := NewGame(root, cfg)
	if err != nil {
		return err
	}
	return runGame(g)
}

// RunWatched loads the TOML config at path and opens a window. Later edits of
// the file are applied live until ctx is done.
func RunWatched(ctx context.Context, root *RootCanvas, path string) error {
	cfg, err := LoadRunConfig(path)
	if err != nil {
		return err
	}
	g, err := NewGame(root, cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.reload, err = WatchRunConfig(ctx, path)
	if err != nil {
		return err
	}
	return runGame(g)
}

func runGame(g *Game) error {
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	Logger().Info("window start", "title", g.cfg.Title, "width", g.cfg.Width, "height", g.cfg.Height)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
