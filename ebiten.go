package sketch

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- White pixel singleton (no sync.Once: ebiten draws on one goroutine) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used as
// the source of every untextured triangle.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// EbitenRenderer is the display Surface drawing into an *ebiten.Image.
// Polygons are fan-triangulated and filled with the non-zero rule so concave
// outlines render correctly; strokes are quads along each segment.
type EbitenRenderer struct {
	pipeline
	target *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint32
}

// NewEbitenRenderer creates a renderer drawing into target.
func NewEbitenRenderer(target *ebiten.Image) *EbitenRenderer {
	e := &EbitenRenderer{}
	e.SetTarget(target)
	return e
}

// SetTarget switches the destination image, typically the screen passed to
// each Draw call.
func (e *EbitenRenderer) SetTarget(target *ebiten.Image) {
	e.target = target
	b := target.Bounds()
	e.pipeline.init(float64(b.Dx()), float64(b.Dy()), e)
}

// Target returns the destination image.
func (e *EbitenRenderer) Target() *ebiten.Image { return e.target }

// BeginFrame implements Surface.
func (e *EbitenRenderer) BeginFrame() {
	b := e.target.Bounds()
	e.width, e.height = float64(b.Dx()), float64(b.Dy())
	e.pipeline.reset()
}

// Clear implements Surface.
func (e *EbitenRenderer) Clear(c Color) {
	e.target.Fill(c.toRGBA())
}

// vertex builds an untextured vertex with premultiplied color.
func vertex(x, y float64, c Color) ebiten.Vertex {
	a := float32(clamp01(c.A))
	return ebiten.Vertex{
		DstX: float32(x), DstY: float32(y),
		SrcX: 0.5, SrcY: 0.5,
		ColorR: float32(clamp01(c.R)) * a,
		ColorG: float32(clamp01(c.G)) * a,
		ColorB: float32(clamp01(c.B)) * a,
		ColorA: a,
	}
}

func (e *EbitenRenderer) fillPolygon(pts []screenPoint, c Color) {
	n := len(pts)
	if n < 3 {
		return
	}
	e.verts = e.verts[:0]
	e.inds = e.inds[:0]
	for _, p := range pts {
		e.verts = append(e.verts, vertex(p.X, p.Y, c))
	}
	// Fan triangulation: vertex 0 is the hub.
	for i := 0; i < n-2; i++ {
		e.inds = append(e.inds, 0, uint32(i+1), uint32(i+2))
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.FillRule = ebiten.FillRuleNonZero
	op.AntiAlias = true
	e.target.DrawTriangles32(e.verts, e.inds, ensureWhitePixel(), &op)
}

func (e *EbitenRenderer) strokePolyline(pts []screenPoint, closed bool, c Color, width float64) {
	n := len(pts)
	if n < 2 || width <= 0 {
		return
	}
	segs := n - 1
	if closed {
		segs = n
	}
	halfW := width / 2
	e.verts = e.verts[:0]
	e.inds = e.inds[:0]
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		nx, ny := perpendicular(a.X, a.Y, b.X, b.Y)
		v := uint32(len(e.verts))
		e.verts = append(e.verts,
			vertex(a.X+nx*halfW, a.Y+ny*halfW, c),
			vertex(a.X-nx*halfW, a.Y-ny*halfW, c),
			vertex(b.X+nx*halfW, b.Y+ny*halfW, c),
			vertex(b.X-nx*halfW, b.Y-ny*halfW, c),
		)
		// Two triangles per segment.
		e.inds = append(e.inds, v, v+1, v+2, v+1, v+3, v+2)
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	e.target.DrawTriangles32(e.verts, e.inds, ensureWhitePixel(), &op)
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(ax, ay, bx, by float64) (float64, float64) {
	dx := bx - ax
	dy := by - ay
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}
