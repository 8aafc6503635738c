// Package sketch is a retained-mode scene-graph canvas for [Ebitengine] with
// geometry-based pointer picking.
//
// Sketch keeps ordered lists of drawable elements in canvases, draws them
// through a small immediate-style [Renderer] (matrix stack, projection,
// camera, lights, fill and stroke), and on every frame runs a second pick
// pass over the same draw calls to find the element under the pointer.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	root := sketch.NewRootCanvas(sketch.RootConfig{})
//	// ... add elements ...
//	sketch.Run(root, sketch.RunConfig{
//		Title: "My Sketch", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself, wrap the screen in an
// [EbitenRenderer] and call [RootCanvas.Render] from Draw:
//
//	type Game struct {
//		root *sketch.RootCanvas
//		r    *sketch.EbitenRenderer
//	}
//
//	func (g *Game) Update() error { return nil }
//	func (g *Game) Draw(s *ebiten.Image) {
//		g.r.SetTarget(s)
//		x, y := ebiten.CursorPosition()
//		g.root.Render(g.r, float64(x), float64(y))
//	}
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Canvases and elements
//
// Every drawable implements [Element]; embed [BaseElement] and provide
// Render, or use the built-in [Shape] constructors [NewRect], [NewEllipse],
// [NewPolygon] and [NewLine]. Insertion order is paint order.
//
//	button := sketch.NewRect("button", 20, 20, 120, 40)
//	button.OnClick(func(ev sketch.PointerEvent) { log.Println("clicked") })
//	root.Add(button)
//
// A [Canvas] is itself an element, so canvases nest. Canvases attached to
// the root with [RootCanvas.AddCanvas] draw after the root's own elements
// and continue its pick numbering.
//
// # Picking
//
// Only elements with pointer callbacks are pick targets. The pick pass
// replays the scene into a [Picker] that records which numbered elements
// touched a small square around the pointer; the last one painted wins.
// Every target then runs its pointer state machine, firing enter, over,
// leave, press, release, click and drag callbacks.
//
// Element lists are copy-on-write: elements may add, remove or hide
// elements from inside callbacks or other goroutines, and a frame in
// progress keeps the list it started with. An element asks for its own
// removal with [BaseElement.RequestRemove]; it is dropped at the start of
// the next frame.
//
// # Headless use
//
// [ImageRenderer] draws into an [image.RGBA] without a GPU. Together with
// [Script] and [RunScript] it replays pointer input and writes screenshots,
// which is how the sketch command's -headless mode works.
//
// [Ebitengine]: https://ebitengine.org
package sketch
