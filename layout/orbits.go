package layout

import (
	"math"
	"sort"

	"nocturne/types"
)

// Album orbit constants. Spacing is added both before and after each
// album so consecutive orbit radii can never touch, whatever the track
// counts.
const (
	albumOrbitStart   = 1.25  // first orbit at 1.25× star radius
	albumSpacingScale = 0.065 // spacing per track
	albumSpacingFloor = 0.2
	albumAngleStep    = 0.618 * 2.0 * math.Pi
	albumSpeedScale   = 0.15
	planetSizeFloor   = 0.15
	planetSizeScale   = 0.06
	planetSizeBase    = 0.1
)

// Track orbit constants. Moons step outward by one diameter before and
// after each moon, so moon orbits never overlap either.
const (
	moonOrbitStart    = 3.0 // multiple of planet size
	moonSizeFloor     = 0.04
	moonSizeBase      = 0.02
	moonSizeScale     = 0.03
	moonSizeRefLength = 300.0 // seconds at which scale contributes fully
	moonAngleStep     = 2.396
	minOrbitalPeriod  = 30.0 // seconds; floor so short tracks don't blur
)

// Camera framing for a fully built artist system
const (
	cameraDistScale = 2.6
	cameraDistFloor = 8.0
)

// BuildOrbits lays out the nested orbital parameters for one artist:
// album planets around the star, track moons around each planet.
// Albums are processed year-ascending (ties keep source order), tracks
// in track-number order. Both resulting radius sequences are strictly
// increasing. The second return value is the artist's ideal camera
// distance, derived from the final accumulated radius.
func BuildOrbits(artistIndex int, radiusInit float64, albums []types.AlbumRecord) ([]types.AlbumOrbit, float64) {
	ordered := make([]types.AlbumRecord, len(albums))
	copy(ordered, albums)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Year < ordered[j].Year
	})

	orbits := make([]types.AlbumOrbit, 0, len(ordered))
	offset := radiusInit * albumOrbitStart

	for i, album := range ordered {
		n := len(album.Tracks)

		amt := math.Max(float64(n)*albumSpacingScale, albumSpacingFloor)
		offset += amt

		orbit := types.AlbumOrbit{
			ArtistIndex: artistIndex,
			AlbumIndex:  i,
			Name:        album.Name,
			Year:        album.Year,
			NumTracks:   n,
			Radius:      offset,
			Angle:       float64(i) * albumAngleStep,
			Speed:       albumSpeedScale / math.Sqrt(math.Max(offset, 0.5)),
			PlanetSize:  math.Max(planetSizeFloor, planetSizeBase+math.Sqrt(float64(n))*planetSizeScale),
		}
		orbit.Tracks = buildTrackOrbits(artistIndex, i, orbit.PlanetSize, album.Tracks)

		offset += amt
		orbits = append(orbits, orbit)
	}

	return orbits, math.Max(offset*cameraDistScale, cameraDistFloor)
}

// buildTrackOrbits lays out the moons of one album in track-number order
func buildTrackOrbits(artistIndex, albumIndex int, planetSize float64, tracks []types.TrackRecord) []types.TrackOrbit {
	ordered := make([]types.TrackRecord, len(tracks))
	copy(ordered, tracks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TrackNumber < ordered[j].TrackNumber
	})

	orbits := make([]types.TrackOrbit, 0, len(ordered))
	radius := planetSize * moonOrbitStart

	for i, track := range ordered {
		size := math.Max(moonSizeFloor, moonSizeBase+moonSizeScale*(track.DurationSeconds/moonSizeRefLength))
		radius += size * 2.0

		orbits = append(orbits, types.TrackOrbit{
			ArtistIndex:     artistIndex,
			AlbumIndex:      albumIndex,
			TrackIndex:      i,
			Title:           track.Title,
			Path:            track.Path,
			Radius:          radius,
			Angle:           float64(i) * moonAngleStep,
			Speed:           2.0 * math.Pi / math.Max(track.DurationSeconds, minOrbitalPeriod),
			Size:            size,
			TiltX:           tiltAngle(saltTilt+"x", track.Title, i),
			TiltZ:           tiltAngle(saltTilt+"z", track.Title, i),
			DurationSeconds: track.DurationSeconds,
		})

		radius += size * 2.0
	}

	return orbits
}
