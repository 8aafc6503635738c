package sketch

// probe is a test element drawing a filled rectangle and recording what the
// canvas did to it.
type probe struct {
	BaseElement
	x, y, w, h float64

	renders  int
	picks    int
	notified []bool
	onRender func(pick bool)
}

func newProbe(name string, x, y, w, h float64, callbacks bool) *probe {
	p := &probe{x: x, y: y, w: w, h: h}
	p.Init(name)
	if callbacks {
		p.OnClick(func(PointerEvent) {})
	}
	return p
}

func (p *probe) Render(r Renderer, pick bool) {
	if pick {
		p.picks++
	} else {
		p.renders++
	}
	if p.onRender != nil {
		p.onRender(pick)
	}
	r.NoStroke()
	r.SetFill(ColorWhite)
	r.Rect(p.x, p.y, p.w, p.h)
}

func (p *probe) TriggerPointerEvent(ptr Pointer, matched bool) {
	p.notified = append(p.notified, matched)
	p.BaseElement.TriggerPointerEvent(ptr, matched)
}

// lastMatched reports the matched flag of the most recent notification.
func (p *probe) lastMatched() (matched, ok bool) {
	if len(p.notified) == 0 {
		return false, false
	}
	return p.notified[len(p.notified)-1], true
}

func newTestSurface() *ImageRenderer {
	return NewImageRenderer(100, 100)
}
