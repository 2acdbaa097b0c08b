package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"nocturne/types"
)

// CurrentAngle returns a body's orbital angle at an absolute elapsed
// time. Angles are recomputed from t=0 every frame rather than
// accumulated incrementally, so there is no integration drift.
func CurrentAngle(initialAngle, angularVelocity, elapsed float64) float64 {
	return initialAngle + angularVelocity*elapsed
}

// WorldPosition places an orbiting body: a planar circular offset of the
// given radius and angle around center, tilted about X then Z. With both
// tilts zero this degenerates to a flat orbit in the XZ plane.
func WorldPosition(center mgl64.Vec3, radius, angle, tiltX, tiltZ float64) mgl64.Vec3 {
	offset := mgl64.Vec3{
		math.Cos(angle) * radius,
		0,
		math.Sin(angle) * radius,
	}
	if tiltX != 0 || tiltZ != 0 {
		offset = mgl64.Rotate3DZ(tiltZ).Mul3(mgl64.Rotate3DX(tiltX)).Mul3x1(offset)
	}
	return center.Add(offset)
}

// AlbumPosition returns an album planet's current world position
func AlbumPosition(star *types.StarNode, orbit *types.AlbumOrbit, elapsed float64) mgl64.Vec3 {
	angle := CurrentAngle(orbit.Angle, orbit.Speed, elapsed)
	return WorldPosition(ToVec(star.Position), orbit.Radius, angle, 0, 0)
}

// TrackPosition returns a track moon's current world position, orbiting
// the album's current position.
func TrackPosition(star *types.StarNode, album *types.AlbumOrbit, track *types.TrackOrbit, elapsed float64) mgl64.Vec3 {
	center := AlbumPosition(star, album, elapsed)
	angle := CurrentAngle(track.Angle, track.Speed, elapsed)
	return WorldPosition(center, track.Radius, angle, track.TiltX, track.TiltZ)
}

// ToVec converts a wire-format position to a math vector
func ToVec(v types.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromVec converts a math vector to the wire format
func FromVec(v mgl64.Vec3) types.Vec3 {
	return types.Vec3{X: v.X(), Y: v.Y(), Z: v.Z()}
}
