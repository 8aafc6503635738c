package sketch

import "math"

// Renderer is the drawing surface an Element draws into. The same interface
// serves the display pass and the pick pass, so elements never need to know
// which one is running beyond the pick flag passed to Render.
type Renderer interface {
	// Width and Height return the viewport size in pixels.
	Width() float64
	Height() float64

	// Model transform stack.
	PushMatrix()
	PopMatrix()
	ApplyMatrix(m Matrix4)
	LoadMatrix(m Matrix4)
	Matrix() Matrix4
	Translate(x, y, z float64)
	RotateZ(angle float64)
	Scale(x, y, z float64)

	// Projection, camera and lights.
	SetProjection(m Matrix4)
	SetView(m Matrix4)
	AddLight(l Light)
	ClearLights()

	// Style.
	SetFill(c Color)
	NoFill()
	SetStroke(c Color)
	NoStroke()
	SetStrokeWeight(w float64)

	// Primitives, in model coordinates.
	Rect(x, y, w, h float64)
	Ellipse(cx, cy, w, h float64)
	Polygon(points []Vec3)
	Line(a, b Vec3)
}

// Surface is a Renderer that owns a frame buffer. RootCanvas drives one
// Surface per frame.
type Surface interface {
	Renderer
	// BeginFrame resets the transform stack, projection, view, lights and
	// style to their defaults.
	BeginFrame()
	// Clear fills the whole frame buffer with c, ignoring transforms.
	Clear(c Color)
}

// screenPoint is a vertex after projection: pixel coordinates plus depth in [0, 1].
type screenPoint struct {
	X, Y, Z float64
}

// rasterizer is the backend-specific half of a pipeline.
type rasterizer interface {
	fillPolygon(pts []screenPoint, c Color)
	strokePolyline(pts []screenPoint, closed bool, c Color, width float64)
}

type drawStyle struct {
	fill        Color
	stroke      Color
	strokeWidth float64
	noFill      bool
	noStroke    bool
}

var defaultStyle = drawStyle{
	fill:        ColorWhite,
	stroke:      ColorBlack,
	strokeWidth: 1,
}

// Default depth range of the fallback screen-space projection.
const (
	defaultNear = -1000
	defaultFar  = 1000
)

// DefaultProjection returns the pixel-space orthographic projection used when
// a canvas sets none: origin at the top-left, Y down.
func DefaultProjection(w, h float64) Matrix4 {
	return Ortho4(0, w, h, 0, defaultNear, defaultFar)
}

// pipeline implements Renderer on top of a rasterizer: the matrix stack,
// projection, lighting and tessellation are shared by every backend.
type pipeline struct {
	width, height float64
	raster        rasterizer

	projection Matrix4
	view       Matrix4
	model      Matrix4
	stack      []Matrix4
	lights     []Light
	style      drawStyle

	local  []Vec3
	screen []screenPoint
}

func (p *pipeline) init(w, h float64, r rasterizer) {
	p.width = w
	p.height = h
	p.raster = r
	p.reset()
}

func (p *pipeline) reset() {
	p.projection = DefaultProjection(p.width, p.height)
	p.view = Identity4()
	p.model = Identity4()
	p.stack = p.stack[:0]
	p.lights = p.lights[:0]
	p.style = defaultStyle
}

func (p *pipeline) Width() float64  { return p.width }
func (p *pipeline) Height() float64 { return p.height }

func (p *pipeline) PushMatrix() {
	p.stack = append(p.stack, p.model)
}

// PopMatrix restores the matrix saved by the matching PushMatrix.
// Panics on an unbalanced pop.
func (p *pipeline) PopMatrix() {
	if len(p.stack) == 0 {
		panic("sketch: PopMatrix without matching PushMatrix")
	}
	p.model = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *pipeline) ApplyMatrix(m Matrix4)     { p.model = p.model.Mul(m) }
func (p *pipeline) LoadMatrix(m Matrix4)      { p.model = m }
func (p *pipeline) Matrix() Matrix4           { return p.model }
func (p *pipeline) Translate(x, y, z float64) { p.model = p.model.Mul(Translate4(x, y, z)) }
func (p *pipeline) RotateZ(angle float64)     { p.model = p.model.Mul(RotateZ4(angle)) }
func (p *pipeline) Scale(x, y, z float64)     { p.model = p.model.Mul(Scale4(x, y, z)) }
func (p *pipeline) SetProjection(m Matrix4)   { p.projection = m }
func (p *pipeline) SetView(m Matrix4)         { p.view = m }
func (p *pipeline) AddLight(l Light)          { p.lights = append(p.lights, l) }
func (p *pipeline) ClearLights()              { p.lights = p.lights[:0] }

func (p *pipeline) SetFill(c Color) {
	p.style.fill = c
	p.style.noFill = false
}

func (p *pipeline) NoFill() { p.style.noFill = true }

func (p *pipeline) SetStroke(c Color) {
	p.style.stroke = c
	p.style.noStroke = false
}

func (p *pipeline) NoStroke()                 { p.style.noStroke = true }
func (p *pipeline) SetStrokeWeight(w float64) { p.style.strokeWidth = w }

func (p *pipeline) Rect(x, y, w, h float64) {
	p.local = append(p.local[:0],
		Vec3{x, y, 0},
		Vec3{x + w, y, 0},
		Vec3{x + w, y + h, 0},
		Vec3{x, y + h, 0},
	)
	p.shape(p.local, true)
}

func (p *pipeline) Ellipse(cx, cy, w, h float64) {
	rx, ry := w/2, h/2
	n := ellipseSegments(rx, ry)
	p.local = p.local[:0]
	for i := 0; i < n; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		p.local = append(p.local, Vec3{cx + rx*cos, cy + ry*sin, 0})
	}
	p.shape(p.local, true)
}

func (p *pipeline) Polygon(points []Vec3) {
	p.shape(points, true)
}

func (p *pipeline) Line(a, b Vec3) {
	if p.style.noStroke {
		return
	}
	p.local = append(p.local[:0], a, b)
	if !p.project(p.local) {
		return
	}
	p.raster.strokePolyline(p.screen, false, p.style.stroke, p.strokeWidth())
}

// shape projects a closed outline and hands it to the rasterizer for fill
// and stroke.
func (p *pipeline) shape(points []Vec3, closed bool) {
	if len(points) < 3 || (p.style.noFill && p.style.noStroke) {
		return
	}
	if !p.project(points) {
		return
	}
	if !p.style.noFill {
		p.raster.fillPolygon(p.screen, p.shade(points, p.style.fill))
	}
	if !p.style.noStroke {
		p.raster.strokePolyline(p.screen, closed, p.style.stroke, p.strokeWidth())
	}
}

// project fills p.screen with the viewport positions of points. Returns false
// when any vertex lies behind the eye.
func (p *pipeline) project(points []Vec3) bool {
	mvp := p.projection.Mul(p.view).Mul(p.model)
	p.screen = p.screen[:0]
	for _, v := range points {
		x, y, z, w := mvp.Transform(v)
		if w <= 0 {
			return false
		}
		x, y, z = x/w, y/w, z/w
		p.screen = append(p.screen, screenPoint{
			X: (x + 1) / 2 * p.width,
			Y: (1 - y) / 2 * p.height,
			Z: (z + 1) / 2,
		})
	}
	return true
}

// strokeWidth scales the stroke weight by the model transform's 2D scale.
func (p *pipeline) strokeWidth() float64 {
	det := p.model[0]*p.model[5] - p.model[4]*p.model[1]
	return p.style.strokeWidth * math.Sqrt(math.Abs(det))
}

// shade applies flat two-sided Lambert lighting. With no lights the color is
// returned unchanged.
func (p *pipeline) shade(points []Vec3, c Color) Color {
	if len(p.lights) == 0 {
		return c
	}
	mv := p.view.Mul(p.model)
	a := mv.TransformPoint(points[0])
	b := mv.TransformPoint(points[1])
	d := mv.TransformPoint(points[2])
	normal := b.Sub(a).Cross(d.Sub(a)).Norm()
	centroid := a.Add(b).Add(d).Scale(1.0 / 3)

	var r, g, bl float64
	for _, l := range p.lights {
		k := l.contribution(normal, centroid, p.view)
		r += l.Color.R * k
		g += l.Color.G * k
		bl += l.Color.B * k
	}
	return Color{clamp01(c.R * r), clamp01(c.G * g), clamp01(c.B * bl), c.A}
}

// ellipseSegments picks a tessellation level proportional to the perimeter.
func ellipseSegments(rx, ry float64) int {
	n := int(math.Ceil(math.Pi * (math.Abs(rx) + math.Abs(ry)) / 4))
	return max(12, min(n, 128))
}
