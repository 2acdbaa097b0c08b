package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGestureClick tests small movement still counts as a click
func TestGestureClick(t *testing.T) {
	var g Gesture

	g.Down()
	g.Move(1.5, 1.5) // 3px of travel
	assert.False(t, g.Dragging())
	assert.True(t, g.Up(), "3px of travel is a click")
}

// TestGestureDrag tests movement beyond the threshold suppresses the pick
func TestGestureDrag(t *testing.T) {
	var g Gesture

	g.Down()
	g.Move(10, 10) // 20px of travel
	assert.True(t, g.Dragging())
	assert.False(t, g.Up(), "20px of travel is a drag, not a click")
}

// TestGestureAccumulates tests travel adds up across moves in any
// direction
func TestGestureAccumulates(t *testing.T) {
	var g Gesture

	g.Down()
	for i := 0; i < 5; i++ {
		g.Move(1, -1) // 2px each
	}
	assert.True(t, g.Dragging(), "10px accumulated exceeds the 8px threshold")
	assert.False(t, g.Up())
}

// TestGestureExactThreshold tests the boundary: exactly 8px is a drag
func TestGestureExactThreshold(t *testing.T) {
	var g Gesture

	g.Down()
	g.Move(ClickThresholdPx, 0)
	assert.True(t, g.Dragging())
	assert.False(t, g.Up())
}

// TestGestureInactive tests moves and ups without a down are no-ops
func TestGestureInactive(t *testing.T) {
	var g Gesture

	g.Move(100, 100)
	assert.False(t, g.Active())
	assert.False(t, g.Up())
}

// TestGestureResets tests each down starts a fresh accumulation
func TestGestureResets(t *testing.T) {
	var g Gesture

	g.Down()
	g.Move(50, 0)
	g.Up()

	g.Down()
	g.Move(1, 0)
	assert.True(t, g.Up(), "new gesture must not inherit old travel")
}

// TestGestureIgnoresNonFinite tests NaN/Inf deltas don't poison the
// accumulator
func TestGestureIgnoresNonFinite(t *testing.T) {
	var g Gesture

	g.Down()
	g.Move(math.NaN(), 0)
	g.Move(0, math.Inf(1))
	assert.True(t, g.Up(), "non-finite deltas must be dropped")
}
