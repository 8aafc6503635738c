package sketch

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// ImageRenderer is a headless Surface drawing into an *image.RGBA on the CPU.
// It is used for screenshots, scripted runs and tests where no GPU is
// available.
type ImageRenderer struct {
	pipeline
	img *image.RGBA
	ras *vector.Rasterizer
	src *image.Uniform
}

// NewImageRenderer creates a w×h headless renderer with a transparent frame.
func NewImageRenderer(w, h int) *ImageRenderer {
	r := &ImageRenderer{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		ras: vector.NewRasterizer(w, h),
		src: image.NewUniform(ColorTransparent.toRGBA()),
	}
	r.pipeline.init(float64(w), float64(h), r)
	return r
}

// Image returns the frame buffer.
func (r *ImageRenderer) Image() *image.RGBA { return r.img }

// BeginFrame implements Surface.
func (r *ImageRenderer) BeginFrame() { r.pipeline.reset() }

// Clear implements Surface.
func (r *ImageRenderer) Clear(c Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c.toRGBA()), image.Point{}, draw.Src)
}

// SavePNG writes the frame buffer to path.
func (r *ImageRenderer) SavePNG(path string) error {
	return WritePNG(path, r.img)
}

func (r *ImageRenderer) fillPolygon(pts []screenPoint, c Color) {
	if len(pts) < 3 {
		return
	}
	b := r.img.Bounds()
	r.ras.Reset(b.Dx(), b.Dy())
	r.ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.ras.LineTo(float32(p.X), float32(p.Y))
	}
	r.ras.ClosePath()
	r.draw(c)
}

func (r *ImageRenderer) strokePolyline(pts []screenPoint, closed bool, c Color, width float64) {
	n := len(pts)
	if n < 2 || width <= 0 {
		return
	}
	segs := n - 1
	if closed {
		segs = n
	}
	halfW := width / 2
	b := r.img.Bounds()
	r.ras.Reset(b.Dx(), b.Dy())
	// Each segment is its own quad, wound the same way so overlaps at the
	// joints stay covered once under the non-zero rule.
	for i := 0; i < segs; i++ {
		a, e := pts[i], pts[(i+1)%n]
		nx, ny := perpendicular(a.X, a.Y, e.X, e.Y)
		r.ras.MoveTo(float32(a.X+nx*halfW), float32(a.Y+ny*halfW))
		r.ras.LineTo(float32(e.X+nx*halfW), float32(e.Y+ny*halfW))
		r.ras.LineTo(float32(e.X-nx*halfW), float32(e.Y-ny*halfW))
		r.ras.LineTo(float32(a.X-nx*halfW), float32(a.Y-ny*halfW))
		r.ras.ClosePath()
	}
	r.draw(c)
}

func (r *ImageRenderer) draw(c Color) {
	r.src.C = c.toRGBA()
	r.ras.Draw(r.img, r.img.Bounds(), r.src, image.Point{})
}
