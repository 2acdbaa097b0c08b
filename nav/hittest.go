package nav

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Per-entity hit radius tuning: radius scales with visual size and
// inversely with projected depth, floor-clamped so small or far targets
// stay pickable.
const (
	hitScale      = 5.0
	starFloorPx   = 20.0
	planetFloorPx = 12.0
)

// CandidateKind identifies which hierarchy level a pick candidate
// belongs to
type CandidateKind int

const (
	KindStar CandidateKind = iota
	KindAlbum
	KindTrack
)

// Candidate is one pickable entity, already resolved to its current
// world position.
type Candidate struct {
	Kind   CandidateKind
	Artist int
	Album  int
	Track  int
	World  mgl64.Vec3
	Scale  float64 // visual size driving the hit radius
}

// HitTester projects candidates into screen space and resolves a pick
// against a 2D target coordinate. Entities behind the camera (clip-space
// w <= 0) are never pickable.
type HitTester struct {
	viewProj mgl64.Mat4
	width    float64
	height   float64
}

// NewHitTester builds a tester for the current camera and viewport
func NewHitTester(view, proj mgl64.Mat4, width, height int) *HitTester {
	return &HitTester{
		viewProj: proj.Mul4(view),
		width:    float64(width),
		height:   float64(height),
	}
}

// Pick returns the candidate whose projection lies closest to (x, y) in
// screen space, among candidates inside their own hit radius. Screen
// distance alone decides ties: a world-far entity beats a world-near one
// if its projection is closer to the pointer.
func (h *HitTester) Pick(x, y float64, candidates []Candidate) (Candidate, bool) {
	best := Candidate{}
	bestDist := math.Inf(1)
	found := false

	for _, c := range candidates {
		sx, sy, w, ok := h.project(c.World)
		if !ok {
			continue
		}

		dist := math.Hypot(sx-x, sy-y)
		radius := math.Max(floorFor(c.Kind), c.Scale*hitScale/math.Max(w*0.1, 0.1))

		if dist < radius && dist < bestDist {
			best = c
			bestDist = dist
			found = true
		}
	}

	return best, found
}

// project maps a world position to screen pixels, returning the
// clip-space w for depth scaling. ok is false behind the camera.
func (h *HitTester) project(world mgl64.Vec3) (sx, sy, w float64, ok bool) {
	clip := h.viewProj.Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Mul(1.0 / clip.W())
	sx = (ndc.X()*0.5 + 0.5) * h.width
	sy = (1.0 - (ndc.Y()*0.5 + 0.5)) * h.height
	return sx, sy, clip.W(), true
}

func floorFor(kind CandidateKind) float64 {
	if kind == KindStar {
		return starFloorPx
	}
	return planetFloorPx
}
