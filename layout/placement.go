package layout

import (
	"hash/fnv"
	"math"

	"nocturne/types"
)

// Placement constants. Distances are world units; SectorSpread is the
// angular width of one genre wedge in radians.
const (
	MinStarDist  = 10.0
	StarDistSpan = 100.0
	VerticalSpan = 40.0
	SectorSpread = 0.9
)

// Salts keep the three per-name hashes independent so radial distance,
// vertical offset and angular jitter stay uncorrelated.
const (
	saltRadial   = "radial"
	saltVertical = "vertical"
	saltAngular  = "angular"
	saltTilt     = "tilt"
)

// hash64 returns a deterministic salted hash of s. Only determinism and
// reasonable uniformity matter here; the algorithm is an implementation
// detail.
func hash64(salt, s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(salt))
	h.Write([]byte(s))
	return h.Sum64()
}

// ComputePosition derives a star's fixed world position from the artist
// name and its genre's cluster angle. Distinct names may collide into
// nearby positions; collisions are tolerated, not resolved.
func ComputePosition(name string, sectorAngle float64) types.Vec3 {
	dist := float64(hash64(saltRadial, name)%9000)/(9000.0/StarDistSpan) + MinStarDist

	// Vertical offset hashes independently from radius so height does
	// not correlate with distance from the galactic center.
	y := float64(hash64(saltVertical, name)%4000)/(4000.0/VerticalSpan) - VerticalSpan/2.0

	frac := float64(hash64(saltAngular, name)%1024) / 1024.0
	angle := sectorAngle + (frac-0.5)*SectorSpread

	return types.Vec3{
		X: math.Cos(angle) * dist,
		Y: y,
		Z: math.Sin(angle) * dist,
	}
}

// tiltAngle derives a small orbital tilt in [-0.3,0.3) rad from a track
// title and its index, so moon orbits are not coplanar.
func tiltAngle(salt, title string, index int) float64 {
	h := hash64(salt, title)
	h ^= uint64(index+1) * 0x9e3779b97f4a7c15
	return float64(h%600)/1000.0 - 0.3
}
