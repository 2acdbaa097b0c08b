package nav

import "math"

// ClickThresholdPx is the total absolute pointer movement above which a
// down/up pair stops being a click and becomes a camera drag.
const ClickThresholdPx = 8.0

// Gesture accumulates pointer movement between down and up to
// disambiguate clicks from drags. A pick fires only when the pointer
// travelled less than the threshold by release; otherwise the gesture
// was purely a camera drag and no pick fires.
type Gesture struct {
	active bool
	accum  float64
}

// Down starts a gesture
func (g *Gesture) Down() {
	g.active = true
	g.accum = 0
}

// Move feeds one movement delta. Non-finite deltas are ignored.
func (g *Gesture) Move(dx, dy float64) {
	if !g.active {
		return
	}
	if math.IsNaN(dx) || math.IsInf(dx, 0) || math.IsNaN(dy) || math.IsInf(dy, 0) {
		return
	}
	g.accum += math.Abs(dx) + math.Abs(dy)
}

// Dragging reports whether the gesture has already exceeded the click
// threshold
func (g *Gesture) Dragging() bool {
	return g.active && g.accum >= ClickThresholdPx
}

// Active reports whether the pointer is currently down
func (g *Gesture) Active() bool {
	return g.active
}

// Up ends the gesture and reports whether it was a click
func (g *Gesture) Up() bool {
	if !g.active {
		return false
	}
	click := g.accum < ClickThresholdPx
	g.active = false
	g.accum = 0
	return click
}
