package scene

import (
	"log"
	"math"

	"nocturne/layout"
	"nocturne/types"
)

// Galaxy-level framing constants
const (
	galaxyDistScale = 1.5
	galaxyDistFloor = 50.0
)

// Scene is one fully assembled spatial model of a library snapshot.
// A Scene is immutable after Build: star positions and orbital
// parameters never change, only the angular phase derived from elapsed
// time does.
type Scene struct {
	Stars            []types.StarNode
	BoundingRadius   float64
	GalaxyCameraDist float64
	TotalAlbums      int
	TotalTracks      int
}

// Assembler builds a Scene from a library snapshot. Each Build replaces
// the prior entity set wholesale; there is no incremental patching.
type Assembler struct{}

// NewAssembler creates a scene assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Build assembles the entire star tree for a library snapshot in one
// atomic batch. An empty library yields a scene with zero stars. The
// genre registry is constructed fresh here, so sector assignment never
// leaks across rebuilds.
func (a *Assembler) Build(lib types.Library) *Scene {
	genres := layout.NewGenreRegistry()

	s := &Scene{
		Stars:       make([]types.StarNode, 0, len(lib.Artists)),
		TotalAlbums: lib.TotalAlbums,
		TotalTracks: lib.TotalTracks,
	}

	for i, artist := range lib.Artists {
		style := layout.ComputeColor(artist.Name)
		pos := layout.ComputePosition(artist.Name, genres.AngleFor(artist.Genre))
		albums, idealDist := layout.BuildOrbits(i, style.RadiusInit, artist.Albums)

		totalTracks := artist.TotalTracks
		if totalTracks == 0 {
			for _, al := range artist.Albums {
				totalTracks += len(al.Tracks)
			}
		}

		node := types.StarNode{
			Index:           i,
			Name:            artist.Name,
			Genre:           artist.Genre,
			Hue:             style.Hue,
			Sat:             style.Sat,
			Color:           style.Color,
			GlowColor:       style.GlowColor,
			RadiusInit:      style.RadiusInit,
			GlowRadius:      style.RadiusInit * (0.8 + math.Min(float64(totalTracks)/30.0, 1.0)*1.2),
			Position:        pos,
			IdealCameraDist: idealDist,
			TotalTracks:     totalTracks,
			Albums:          albums,
		}
		s.Stars = append(s.Stars, node)

		if r := ToVec(pos).Len(); r > s.BoundingRadius {
			s.BoundingRadius = r
		}
	}

	s.GalaxyCameraDist = math.Max(s.BoundingRadius*galaxyDistScale, galaxyDistFloor)

	log.Printf("Assembled scene: %d stars, %d albums, %d tracks", len(s.Stars), s.TotalAlbums, s.TotalTracks)
	return s
}

// Star returns the star at index i, or nil if out of range
func (s *Scene) Star(i int) *types.StarNode {
	if i < 0 || i >= len(s.Stars) {
		return nil
	}
	return &s.Stars[i]
}

// Album returns the album orbit at (artist, album), or nil if out of range
func (s *Scene) Album(artist, album int) *types.AlbumOrbit {
	star := s.Star(artist)
	if star == nil || album < 0 || album >= len(star.Albums) {
		return nil
	}
	return &star.Albums[album]
}

// Track returns the track orbit at (artist, album, track), or nil if out
// of range
func (s *Scene) Track(artist, album, track int) *types.TrackOrbit {
	al := s.Album(artist, album)
	if al == nil || track < 0 || track >= len(al.Tracks) {
		return nil
	}
	return &al.Tracks[track]
}
