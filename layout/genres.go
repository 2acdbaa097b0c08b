package layout

import "math"

// GoldenAngle is the angular increment between genre sectors:
// 2π·(1/φ), chosen for even fan-out with minimal clustering.
const GoldenAngle = 2.0 * math.Pi * 0.6180339887498949

// UnknownGenre is the fallback label for tracks with no genre metadata
const UnknownGenre = "Unknown"

// GenreRegistry assigns each distinct genre label a fixed angular sector.
// Assignment is lazy and monotonic: the first lookup of an unseen genre
// takes the next slot in the golden-angle sequence, and every later
// lookup returns the same angle.
//
// A registry is owned by a single scene build. SceneAssembler constructs
// a fresh one per rebuild rather than resetting shared state.
type GenreRegistry struct {
	angles map[string]float64
	next   int
}

// NewGenreRegistry creates an empty genre registry
func NewGenreRegistry() *GenreRegistry {
	return &GenreRegistry{angles: make(map[string]float64)}
}

// AngleFor returns the cluster angle for a genre, assigning the next
// golden-angle slot on first sight. Empty labels map to UnknownGenre.
func (r *GenreRegistry) AngleFor(genre string) float64 {
	if genre == "" {
		genre = UnknownGenre
	}
	if angle, ok := r.angles[genre]; ok {
		return angle
	}
	angle := math.Mod(float64(r.next)*GoldenAngle, 2.0*math.Pi)
	r.angles[genre] = angle
	r.next++
	return angle
}

// Len returns the number of genres assigned so far
func (r *GenreRegistry) Len() int {
	return len(r.angles)
}
