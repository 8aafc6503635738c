package sketch

import "math"

// Default pick-pass parameters.
const (
	DefaultPickCapacity = 1 << 20
	DefaultPickRegion   = 5
)

// PickRecord is one hit produced by the pick pass: the pick name that was
// active while geometry intersected the pick region, and the depth range of
// that geometry in [0, 1].
type PickRecord struct {
	Name       int32
	ZMin, ZMax float64
}

// Picker is the pick-mode Renderer. It runs the same transform pipeline as
// the display backends but, instead of producing pixels, records which pick
// names had geometry inside a small region centered on the pointer.
//
// Consecutive hits under one name collapse into a single record, flushed when
// the name changes or the pass ends. Hits while no name is set are not
// recorded. Records beyond the capacity are dropped and counted.
type Picker struct {
	pipeline

	capacity int
	region   float64
	bounds   Rect

	name     int32
	hit      bool
	zmin     float64
	zmax     float64
	records  []PickRecord
	names    []int32
	overflow int
	targets  []Element
}

// NewPicker creates a picker. capacity bounds the number of records per pass
// and region is the side length of the square pick region in pixels. Values
// <= 0 select the defaults.
func NewPicker(capacity int, region float64) *Picker {
	if capacity <= 0 {
		capacity = DefaultPickCapacity
	}
	if region <= 0 {
		region = DefaultPickRegion
	}
	p := &Picker{capacity: capacity, region: region, name: -1}
	p.pipeline.init(0, 0, p)
	return p
}

// Capacity returns the maximum number of records kept per pass.
func (p *Picker) Capacity() int { return p.capacity }

// Region returns the pick region side length.
func (p *Picker) Region() float64 { return p.region }

// Begin starts a pick pass over a w×h viewport with the pick region centered
// on (x, y). Previous records are discarded.
func (p *Picker) Begin(w, h, x, y float64) {
	p.width, p.height = w, h
	p.pipeline.reset()
	half := p.region / 2
	p.bounds = Rect{X: x - half, Y: y - half, Width: p.region, Height: p.region}
	p.name = -1
	p.hit = false
	p.records = p.records[:0]
	p.names = p.names[:0]
	p.overflow = 0
	clear(p.targets)
	p.targets = p.targets[:0]
}

// SetName makes n the pick name for subsequent geometry.
func (p *Picker) SetName(n int32) {
	p.flush()
	p.name = n
}

// ClearName stops naming geometry. Geometry drawn afterwards still goes
// through the pipeline but produces no records.
func (p *Picker) ClearName() {
	p.flush()
	p.name = -1
}

// End finishes the pass and returns the hit count and the records in the
// order they were produced. The returned slice is reused by the next pass.
func (p *Picker) End() (int, []PickRecord) {
	p.flush()
	p.name = -1
	return len(p.records), p.records
}

// Names returns the pick name of every record of the last pass, in order.
func (p *Picker) Names() []int32 {
	p.names = p.names[:0]
	for _, r := range p.records {
		p.names = append(p.names, r.Name)
	}
	return p.names
}

// Overflow returns how many records the last pass dropped for lack of capacity.
func (p *Picker) Overflow() int { return p.overflow }

// Selected decodes the last pass: the name of the last record, or -1 when
// nothing was hit. Paint order wins, not depth.
func (p *Picker) Selected() int {
	if len(p.records) == 0 {
		return -1
	}
	return int(p.records[len(p.records)-1].Name)
}

// Target returns the element tagged with pick name n in the last pass, or nil.
func (p *Picker) Target(n int) Element {
	if n < 0 || n >= len(p.targets) {
		return nil
	}
	return p.targets[n]
}

// addTarget records the element drawn under pick name n.
func (p *Picker) addTarget(n int, e Element) {
	for len(p.targets) <= n {
		p.targets = append(p.targets, nil)
	}
	p.targets[n] = e
}

func (p *Picker) flush() {
	if !p.hit {
		return
	}
	p.hit = false
	if len(p.records) >= p.capacity {
		p.overflow++
		return
	}
	p.records = append(p.records, PickRecord{Name: p.name, ZMin: p.zmin, ZMax: p.zmax})
}

func (p *Picker) record(pts []screenPoint) {
	if p.name < 0 {
		return
	}
	zmin, zmax := math.Inf(1), math.Inf(-1)
	for _, s := range pts {
		zmin, zmax = min(zmin, s.Z), max(zmax, s.Z)
	}
	if !p.hit {
		p.hit = true
		p.zmin, p.zmax = zmin, zmax
		return
	}
	p.zmin, p.zmax = min(p.zmin, zmin), max(p.zmax, zmax)
}

func (p *Picker) fillPolygon(pts []screenPoint, _ Color) {
	if polygonIntersectsRect(pts, p.bounds) {
		p.record(pts)
	}
}

func (p *Picker) strokePolyline(pts []screenPoint, closed bool, _ Color, width float64) {
	half := width / 2
	r := Rect{
		X: p.bounds.X - half, Y: p.bounds.Y - half,
		Width: p.bounds.Width + width, Height: p.bounds.Height + width,
	}
	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if segmentIntersectsRect(a.X, a.Y, b.X, b.Y, r) {
			p.record(pts)
			return
		}
	}
}

// polygonIntersectsRect reports whether a simple polygon overlaps r: a vertex
// inside r, an edge crossing r, or r lying entirely inside the polygon.
func polygonIntersectsRect(pts []screenPoint, r Rect) bool {
	n := len(pts)
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if r.Contains(a.X, a.Y) || segmentIntersectsRect(a.X, a.Y, b.X, b.Y, r) {
			return true
		}
	}
	return pointInPolygon(pts, r.X+r.Width/2, r.Y+r.Height/2)
}

// pointInPolygon is the even-odd crossing test.
func pointInPolygon(pts []screenPoint, x, y float64) bool {
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// segmentIntersectsRect clips the segment against r (Liang-Barsky).
func segmentIntersectsRect(x0, y0, x1, y1 float64, r Rect) bool {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = min(t1, t)
		}
		return true
	}
	return clip(-dx, x0-r.X) &&
		clip(dx, r.X+r.Width-x0) &&
		clip(-dy, y0-r.Y) &&
		clip(dy, r.Y+r.Height-y0) &&
		t0 <= t1
}
