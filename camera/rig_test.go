package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRigDefaults tests the initial overview pose
func TestNewRigDefaults(t *testing.T) {
	r := NewRig()

	assert.Equal(t, 0.3, r.Yaw)
	assert.Equal(t, 1.2, r.Pitch)
	assert.Equal(t, 150.0, r.Dist)
	assert.Equal(t, 150.0, r.DesiredDist)
	assert.Equal(t, 60.0, r.Fov)
	assert.True(t, r.AutoRotate)
}

// TestUpdateConvergesMonotonically tests distance approaches the desired
// value without overshoot, even with oversized frame times
func TestUpdateConvergesMonotonically(t *testing.T) {
	r := NewRig()
	r.AutoRotate = false
	r.FlyTo(mgl64.Vec3{}, 20)

	prevGap := math.Abs(r.Dist - r.DesiredDist)
	for _, dt := range []float64{0.016, 0.016, 0.5, 2.0, 0.016} {
		r.Update(dt)
		gap := math.Abs(r.Dist - r.DesiredDist)
		require.LessOrEqual(t, gap, prevGap, "convergence must be monotone (dt=%v)", dt)
		prevGap = gap
	}

	// A huge dt clamps the blend factor at 1 and lands exactly
	r.Update(10)
	assert.InDelta(t, 20.0, r.Dist, 1e-9)
}

// TestUpdateIgnoresBadDt tests zero, negative and non-finite frame times
// leave the rig untouched
func TestUpdateIgnoresBadDt(t *testing.T) {
	r := NewRig()
	before := *r

	r.Update(0)
	r.Update(-1)
	r.Update(math.NaN())
	r.Update(math.Inf(1))

	assert.Equal(t, before, *r)
}

// TestAutoRotateAdvancesYaw tests idle orbiting
func TestAutoRotateAdvancesYaw(t *testing.T) {
	r := NewRig()
	yaw := r.Yaw

	r.Update(1.0)
	assert.InDelta(t, yaw+0.02, r.Yaw, 1e-12)

	r.AutoRotate = false
	yaw = r.Yaw
	r.Update(1.0)
	assert.Equal(t, yaw, r.Yaw)
}

// TestOnDragClampsPitch tests pitch stays inside its open interval
func TestOnDragClampsPitch(t *testing.T) {
	r := NewRig()

	r.OnDrag(0, 1e9)
	assert.Equal(t, 1.5, r.Pitch)

	r.OnDrag(0, -1e9)
	assert.Equal(t, 0.05, r.Pitch)
}

// TestOnDragYawDirection tests drag sensitivity and sign
func TestOnDragYawDirection(t *testing.T) {
	r := NewRig()
	yaw := r.Yaw

	r.OnDrag(10, 0)
	assert.InDelta(t, yaw-10*0.005, r.Yaw, 1e-12)
}

// TestOnDragRejectsNonFinite tests NaN and Inf deltas are dropped
func TestOnDragRejectsNonFinite(t *testing.T) {
	r := NewRig()
	before := *r

	r.OnDrag(math.NaN(), 1)
	r.OnDrag(1, math.Inf(-1))

	assert.Equal(t, before, *r)
}

// TestOnScrollZoomFactors tests multiplicative zoom with clamping
func TestOnScrollZoomFactors(t *testing.T) {
	r := NewRig()

	r.OnScroll(1) // zoom in: ×0.9
	assert.InDelta(t, 135.0, r.DesiredDist, 1e-12)

	r.OnScroll(-1) // zoom out: ×1.1
	assert.InDelta(t, 148.5, r.DesiredDist, 1e-12)

	for i := 0; i < 200; i++ {
		r.OnScroll(1)
	}
	assert.Equal(t, 1.0, r.DesiredDist)

	for i := 0; i < 200; i++ {
		r.OnScroll(-1)
	}
	assert.Equal(t, 500.0, r.DesiredDist)

	before := r.DesiredDist
	r.OnScroll(math.NaN())
	assert.Equal(t, before, r.DesiredDist)
}

// TestFlyToConvergence tests the rig settles on the requested point and
// distance over repeated updates
func TestFlyToConvergence(t *testing.T) {
	r := NewRig()
	r.AutoRotate = false
	point := mgl64.Vec3{30, 5, -12}

	r.FlyTo(point, 9)
	for i := 0; i < 400; i++ {
		r.Update(0.033)
	}

	assert.InDelta(t, 9.0, r.Dist, 1e-6)
	assert.InDelta(t, point.X(), r.Target.X(), 1e-6)
	assert.InDelta(t, point.Y(), r.Target.Y(), 1e-6)
	assert.InDelta(t, point.Z(), r.Target.Z(), 1e-6)
	assert.InDelta(t, 9.0, r.Position.Sub(point).Len(), 1e-5)
}

// TestFlyToClampsDistance tests requested orbit distances stay in range
func TestFlyToClampsDistance(t *testing.T) {
	r := NewRig()

	r.FlyTo(mgl64.Vec3{}, 0.001)
	assert.Equal(t, 1.0, r.DesiredDist)

	r.FlyTo(mgl64.Vec3{}, 1e6)
	assert.Equal(t, 500.0, r.DesiredDist)
}

// TestSetAspect tests resize handling, including degenerate sizes
func TestSetAspect(t *testing.T) {
	r := NewRig()

	r.SetAspect(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, r.Aspect, 1e-12)

	r.SetAspect(0, 1080)
	assert.InDelta(t, 1920.0/1080.0, r.Aspect, 1e-12)
}

// TestMatricesAreFinite tests view/projection outputs contain no NaNs
func TestMatricesAreFinite(t *testing.T) {
	r := NewRig()
	r.Update(0.033)

	for _, m := range []mgl64.Mat4{r.ViewMatrix(), r.ProjMatrix()} {
		for i := 0; i < 16; i++ {
			require.False(t, math.IsNaN(m[i]))
			require.False(t, math.IsInf(m[i], 0))
		}
	}
}

// TestStateSnapshot tests the wire snapshot mirrors the rig
func TestStateSnapshot(t *testing.T) {
	r := NewRig()
	r.Update(0.033)

	state := r.State()
	assert.Equal(t, r.Yaw, state.Yaw)
	assert.Equal(t, r.Pitch, state.Pitch)
	assert.Equal(t, r.Dist, state.Dist)
	assert.Equal(t, r.Position.X(), state.Position.X)
	assert.Equal(t, r.Target.Z(), state.Target.Z)
	assert.True(t, state.AutoRotate)
}
