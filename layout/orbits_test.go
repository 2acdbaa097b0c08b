package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nocturne/types"
)

func albumWithTracks(name string, year, n int) types.AlbumRecord {
	album := types.AlbumRecord{Name: name, Year: year}
	for i := 0; i < n; i++ {
		album.Tracks = append(album.Tracks, types.TrackRecord{
			Title:           name + " track",
			TrackNumber:     i + 1,
			DurationSeconds: 200,
		})
	}
	return album
}

// TestBuildOrbitsRadiiStrictlyIncreasing tests album orbit separation
func TestBuildOrbitsRadiiStrictlyIncreasing(t *testing.T) {
	albums := []types.AlbumRecord{
		albumWithTracks("One", 1991, 1),
		albumWithTracks("Five", 1993, 5),
		albumWithTracks("Twelve", 1995, 12),
		albumWithTracks("Zero", 1997, 0),
	}

	orbits, _ := BuildOrbits(0, 1.5, albums)
	require.Len(t, orbits, 4)

	for i := 1; i < len(orbits); i++ {
		assert.Greater(t, orbits[i].Radius, orbits[i-1].Radius,
			"orbit %d must sit outside orbit %d", i, i-1)
	}
}

// TestBuildOrbitsSpacingScenario pins the spacing arithmetic for album
// track counts 1, 5, 12: spacing max(n·0.065, 0.2) applies before and
// after each album
func TestBuildOrbitsSpacingScenario(t *testing.T) {
	radiusInit := 1.5
	albums := []types.AlbumRecord{
		albumWithTracks("A", 1990, 1),
		albumWithTracks("B", 1991, 5),
		albumWithTracks("C", 1992, 12),
	}

	orbits, cameraDist := BuildOrbits(0, radiusInit, albums)
	require.Len(t, orbits, 3)

	offset := radiusInit * 1.25
	amtA := math.Max(1*0.065, 0.2) // floor wins
	offset += amtA
	assert.InDelta(t, offset, orbits[0].Radius, 1e-12)
	offset += amtA

	amtB := math.Max(5*0.065, 0.2)
	offset += amtB
	assert.InDelta(t, offset, orbits[1].Radius, 1e-12)
	offset += amtB

	amtC := math.Max(12*0.065, 0.2)
	offset += amtC
	assert.InDelta(t, offset, orbits[2].Radius, 1e-12)
	offset += amtC

	assert.InDelta(t, math.Max(offset*2.6, 8.0), cameraDist, 1e-12)
}

// TestBuildOrbitsYearOrdering tests albums are laid out oldest first
// regardless of input order, with stable ties
func TestBuildOrbitsYearOrdering(t *testing.T) {
	albums := []types.AlbumRecord{
		albumWithTracks("Newest", 2020, 3),
		albumWithTracks("Oldest", 1970, 3),
		albumWithTracks("MiddleFirst", 1990, 3),
		albumWithTracks("MiddleSecond", 1990, 3),
	}

	orbits, _ := BuildOrbits(0, 1.0, albums)
	require.Len(t, orbits, 4)

	assert.Equal(t, "Oldest", orbits[0].Name)
	assert.Equal(t, "MiddleFirst", orbits[1].Name)
	assert.Equal(t, "MiddleSecond", orbits[2].Name)
	assert.Equal(t, "Newest", orbits[3].Name)
}

// TestBuildOrbitsPlanetSize tests planet size grows sublinearly with
// track count and respects the floor
func TestBuildOrbitsPlanetSize(t *testing.T) {
	albums := []types.AlbumRecord{
		albumWithTracks("Empty", 1990, 0),
		albumWithTracks("Small", 1991, 1),
		albumWithTracks("Large", 1992, 16),
	}

	orbits, _ := BuildOrbits(0, 1.0, albums)
	require.Len(t, orbits, 3)

	assert.InDelta(t, 0.15, orbits[0].PlanetSize, 1e-12) // floor
	assert.InDelta(t, math.Max(0.15, 0.1+math.Sqrt(1)*0.06), orbits[1].PlanetSize, 1e-12)
	assert.InDelta(t, 0.1+math.Sqrt(16)*0.06, orbits[2].PlanetSize, 1e-12)

	assert.Less(t, orbits[1].PlanetSize, orbits[2].PlanetSize)
}

// TestBuildOrbitsSpeedFallsWithRadius tests outer planets orbit slower
func TestBuildOrbitsSpeedFallsWithRadius(t *testing.T) {
	albums := []types.AlbumRecord{
		albumWithTracks("A", 1990, 8),
		albumWithTracks("B", 1991, 8),
		albumWithTracks("C", 1992, 8),
	}

	orbits, _ := BuildOrbits(0, 1.0, albums)
	for i := 1; i < len(orbits); i++ {
		assert.Less(t, orbits[i].Speed, orbits[i-1].Speed)
		assert.InDelta(t, 0.15/math.Sqrt(orbits[i].Radius), orbits[i].Speed, 1e-12)
	}
}

// TestBuildOrbitsCameraDistFloor tests the framing floor for tiny systems
func TestBuildOrbitsCameraDistFloor(t *testing.T) {
	_, cameraDist := BuildOrbits(0, 0.1, nil)
	assert.Equal(t, 8.0, cameraDist)
}

// TestTrackOrbitsMoons tests moon layout: track-number order, strictly
// increasing radii with diameter gaps, duration-driven sizes and speeds
func TestTrackOrbitsMoons(t *testing.T) {
	album := types.AlbumRecord{
		Name: "Album",
		Year: 2000,
		Tracks: []types.TrackRecord{
			{Title: "Third", TrackNumber: 3, DurationSeconds: 120},
			{Title: "First", TrackNumber: 1, DurationSeconds: 300},
			{Title: "Second", TrackNumber: 2, DurationSeconds: 10},
		},
	}

	orbits, _ := BuildOrbits(0, 1.0, []types.AlbumRecord{album})
	require.Len(t, orbits, 1)
	moons := orbits[0].Tracks
	require.Len(t, moons, 3)

	assert.Equal(t, "First", moons[0].Title)
	assert.Equal(t, "Second", moons[1].Title)
	assert.Equal(t, "Third", moons[2].Title)

	// First moon: start at 3× planet size plus one diameter
	expectedSize := math.Max(0.04, 0.02+0.03*(300.0/300.0))
	assert.InDelta(t, expectedSize, moons[0].Size, 1e-12)
	assert.InDelta(t, orbits[0].PlanetSize*3.0+expectedSize*2.0, moons[0].Radius, 1e-12)

	for i := 1; i < len(moons); i++ {
		// gap of at least one diameter of each neighbor
		minGap := moons[i-1].Size*2.0 + moons[i].Size*2.0
		assert.InDelta(t, minGap, moons[i].Radius-moons[i-1].Radius, 1e-12)
	}

	// One revolution per track duration, floored at 30s
	assert.InDelta(t, 2.0*math.Pi/300.0, moons[0].Speed, 1e-12)
	assert.InDelta(t, 2.0*math.Pi/30.0, moons[1].Speed, 1e-12) // 10s floors to 30s

	// Short tracks floor at the minimum moon size
	assert.InDelta(t, 0.04, moons[1].Size, 1e-12)

	for _, moon := range moons {
		assert.GreaterOrEqual(t, moon.TiltX, -0.3)
		assert.Less(t, moon.TiltX, 0.3)
		assert.GreaterOrEqual(t, moon.TiltZ, -0.3)
		assert.Less(t, moon.TiltZ, 0.3)
	}
}

// TestTrackOrbitsGoldenish tests moon angles step by the fixed increment
func TestTrackOrbitsGoldenish(t *testing.T) {
	album := albumWithTracks("Album", 2000, 4)
	orbits, _ := BuildOrbits(0, 1.0, []types.AlbumRecord{album})
	require.Len(t, orbits, 1)

	for i, moon := range orbits[0].Tracks {
		assert.InDelta(t, float64(i)*2.396, moon.Angle, 1e-12)
	}
}
