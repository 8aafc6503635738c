package sketch

// ShapeKind selects which primitive a Shape draws.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeEllipse
	ShapePolygon
	ShapeLine
)

// Shape is a ready-made Element drawing one primitive with a fill and a
// stroke. Position, rotation and scale are applied around the shape's local
// origin before the primitive is drawn.
type Shape struct {
	BaseElement

	Kind ShapeKind

	X, Y, Z        float64
	ScaleX, ScaleY float64
	Rotation       float64 // radians, around Z

	// W and H size rects and ellipses. Rects extend from the origin; ellipses
	// are centered on it.
	W, H float64
	// Points holds polygon vertices, or the two endpoints of a line.
	Points []Vec3

	Fill         Color
	Stroke       Color
	StrokeWeight float64
	NoFill       bool
	NoStroke     bool

	// OnRender, when set, runs after the shape is drawn with the renderer
	// still in the shape's local space.
	OnRender func(r Renderer, pick bool)
}

func newShape(name string, kind ShapeKind) *Shape {
	s := &Shape{
		Kind:         kind,
		ScaleX:       1,
		ScaleY:       1,
		Fill:         ColorWhite,
		Stroke:       ColorBlack,
		StrokeWeight: 1,
	}
	s.Init(name)
	return s
}

// NewRect creates a w×h rectangle with its top-left corner at (x, y).
func NewRect(name string, x, y, w, h float64) *Shape {
	s := newShape(name, ShapeRect)
	s.X, s.Y, s.W, s.H = x, y, w, h
	return s
}

// NewEllipse creates a w×h ellipse centered on (cx, cy).
func NewEllipse(name string, cx, cy, w, h float64) *Shape {
	s := newShape(name, ShapeEllipse)
	s.X, s.Y, s.W, s.H = cx, cy, w, h
	return s
}

// NewPolygon creates a closed polygon. Points are relative to the shape position.
func NewPolygon(name string, points []Vec3) *Shape {
	s := newShape(name, ShapePolygon)
	s.Points = append([]Vec3(nil), points...)
	return s
}

// NewLine creates a line segment from a to b. Lines have no fill.
func NewLine(name string, a, b Vec3) *Shape {
	s := newShape(name, ShapeLine)
	s.Points = []Vec3{a, b}
	s.NoFill = true
	return s
}

// Bounds returns the untransformed local bounding box.
func (s *Shape) Bounds() Rect {
	switch s.Kind {
	case ShapeRect:
		return Rect{X: 0, Y: 0, Width: s.W, Height: s.H}
	case ShapeEllipse:
		return Rect{X: -s.W / 2, Y: -s.H / 2, Width: s.W, Height: s.H}
	}
	if len(s.Points) == 0 {
		return Rect{}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Render draws the shape. The pick pass uses the same geometry.
func (s *Shape) Render(r Renderer, pick bool) {
	r.PushMatrix()
	defer r.PopMatrix()

	r.Translate(s.X, s.Y, s.Z)
	if s.Rotation != 0 {
		r.RotateZ(s.Rotation)
	}
	if s.ScaleX != 1 || s.ScaleY != 1 {
		r.Scale(s.ScaleX, s.ScaleY, 1)
	}

	if s.NoFill {
		r.NoFill()
	} else {
		r.SetFill(s.Fill)
	}
	if s.NoStroke || s.StrokeWeight <= 0 {
		r.NoStroke()
	} else {
		r.SetStroke(s.Stroke)
		r.SetStrokeWeight(s.StrokeWeight)
	}

	switch s.Kind {
	case ShapeRect:
		r.Rect(0, 0, s.W, s.H)
	case ShapeEllipse:
		r.Ellipse(0, 0, s.W, s.H)
	case ShapePolygon:
		r.Polygon(s.Points)
	case ShapeLine:
		if len(s.Points) >= 2 {
			r.Line(s.Points[0], s.Points[1])
		}
	}

	if s.OnRender != nil {
		s.OnRender(r, pick)
	}
}
