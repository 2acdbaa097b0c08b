package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"nocturne/types"
)

// Rig tuning. Convergence is exponential at convergeRate per second,
// with the per-step factor clamped so a large dt cannot overshoot.
const (
	convergeRate   = 4.0
	autoRotateRate = 0.02
	dragSens       = 0.005
	scrollSens     = 0.1

	minPitch = 0.05
	maxPitch = 1.5
	minDist  = 1.0
	maxDist  = 500.0

	defaultFov = 60.0
	nearPlane  = 0.01
	farPlane   = 2000.0
)

// Rig is the smoothly interpolated camera: continuous fields only, no
// discrete camera states. Desired values are set instantly by fly-to,
// drag and scroll intents; actual values converge across Update calls.
type Rig struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	lookAt mgl64.Vec3 // desired target

	Yaw         float64
	Pitch       float64
	Dist        float64
	DesiredDist float64

	Fov    float64
	Aspect float64

	AutoRotate bool
}

// NewRig creates a camera rig at the default galaxy overview pose
func NewRig() *Rig {
	return &Rig{
		Position:    mgl64.Vec3{20, 100, 60},
		Target:      mgl64.Vec3{},
		Up:          mgl64.Vec3{0, 1, 0},
		Yaw:         0.3,
		Pitch:       1.2,
		Dist:        150,
		DesiredDist: 150,
		Fov:         defaultFov,
		Aspect:      16.0 / 9.0,
		AutoRotate:  true,
	}
}

// Update advances the rig by one frame. Orbit distance, position and
// target each converge exponentially toward their desired values; the
// per-step factor is clamped against large dt so convergence is
// monotonic and never overshoots.
func (r *Rig) Update(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}

	if r.AutoRotate {
		r.Yaw += autoRotateRate * dt
	}

	k := math.Min(convergeRate*dt, 1.0)
	r.Dist += (r.DesiredDist - r.Dist) * k

	// Orbit position around the desired look-at point
	desired := r.lookAt.Add(mgl64.Vec3{
		r.Dist * math.Cos(r.Pitch) * math.Sin(r.Yaw),
		r.Dist * math.Sin(r.Pitch),
		r.Dist * math.Cos(r.Pitch) * math.Cos(r.Yaw),
	})

	r.Position = r.Position.Add(desired.Sub(r.Position).Mul(k))
	r.Target = r.Target.Add(r.lookAt.Sub(r.Target).Mul(k))
}

// OnDrag adjusts yaw and pitch from a pointer drag. Pitch stays inside
// an open interval so the rig can never gimbal-flip. Non-finite deltas
// are dropped.
func (r *Rig) OnDrag(dx, dy float64) {
	if !finite(dx) || !finite(dy) {
		return
	}
	r.Yaw -= dx * dragSens
	r.Pitch = clamp(r.Pitch+dy*dragSens, minPitch, maxPitch)
}

// OnScroll zooms by scaling the desired orbit distance. The result is
// always clamped into the valid range; non-finite deltas are dropped.
func (r *Rig) OnScroll(delta float64) {
	if !finite(delta) {
		return
	}
	r.DesiredDist = clamp(r.DesiredDist*(1.0-delta*scrollSens), minDist, maxDist)
}

// FlyTo directs the rig toward a point at a given orbit distance. Only
// desired values change; the actual pose converges over later Updates.
func (r *Rig) FlyTo(point mgl64.Vec3, dist float64) {
	r.lookAt = point
	r.DesiredDist = clamp(dist, minDist, maxDist)
}

// ViewMatrix returns the current view transform
func (r *Rig) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(r.Position, r.Target, r.Up)
}

// ProjMatrix returns the current perspective projection
func (r *Rig) ProjMatrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(r.Fov), r.Aspect, nearPlane, farPlane)
}

// SetAspect updates the projection aspect ratio from a renderer resize
func (r *Rig) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		r.Aspect = float64(width) / float64(height)
	}
}

// State snapshots the rig for the renderer feed
func (r *Rig) State() types.CameraState {
	return types.CameraState{
		Position:    types.Vec3{X: r.Position.X(), Y: r.Position.Y(), Z: r.Position.Z()},
		Target:      types.Vec3{X: r.Target.X(), Y: r.Target.Y(), Z: r.Target.Z()},
		Yaw:         r.Yaw,
		Pitch:       r.Pitch,
		Dist:        r.Dist,
		DesiredDist: r.DesiredDist,
		Fov:         r.Fov,
		AutoRotate:  r.AutoRotate,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
