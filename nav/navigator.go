package nav

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"nocturne/camera"
	"nocturne/scene"
	"nocturne/types"
)

// View distances when flying to a planet or moon
const (
	albumViewScale = 2.6
	albumViewFloor = 2.0
	trackViewScale = 12.0
	trackViewFloor = 1.5
)

// Player is the audio collaborator the navigator hands play requests to.
// The navigator only reads back a progress fraction and an at-end flag.
type Player interface {
	Play(path, title, artist, album string, durationSeconds float64) error
	Progress() float64
	AtEnd() bool
	Stop()
}

// Level is the derived four-level navigation mode
type Level int

const (
	LevelGalaxy Level = iota
	LevelArtist
	LevelAlbum
	LevelTrack
)

// String returns the level name
func (l Level) String() string {
	switch l {
	case LevelGalaxy:
		return "galaxy"
	case LevelArtist:
		return "artist"
	case LevelAlbum:
		return "album"
	default:
		return "track"
	}
}

// Navigator is the four-level selection state machine. The mode is
// always derived from the selection indices (-1 = none); it is never
// stored as an independent flag. Album selection is only ever valid
// under a valid artist selection.
type Navigator struct {
	scn    *scene.Scene
	rig    *camera.Rig
	player Player

	artist      int
	album       int
	activeTrack int
}

// NewNavigator creates a navigator over an empty scene
func NewNavigator(rig *camera.Rig, player Player) *Navigator {
	return &Navigator{
		scn:         scene.NewAssembler().Build(types.Library{}),
		rig:         rig,
		player:      player,
		artist:      -1,
		album:       -1,
		activeTrack: -1,
	}
}

// SetScene swaps in a freshly assembled scene. Selection always resets
// to none on a rebuild, auto-rotate re-engages, and the camera flies
// back to the library's bounding origin.
func (n *Navigator) SetScene(s *scene.Scene) {
	n.scn = s
	n.artist = -1
	n.album = -1
	n.activeTrack = -1
	n.rig.AutoRotate = true
	n.rig.FlyTo(mgl64.Vec3{}, s.GalaxyCameraDist)
}

// Scene returns the scene currently navigated
func (n *Navigator) Scene() *scene.Scene {
	return n.scn
}

// Level derives the current navigation mode from the selection indices
func (n *Navigator) Level() Level {
	switch {
	case n.artist < 0:
		return LevelGalaxy
	case n.album < 0:
		return LevelArtist
	case n.activeTrack < 0:
		return LevelAlbum
	default:
		return LevelTrack
	}
}

// Selection snapshots the current selection indices
func (n *Navigator) Selection() types.Selection {
	return types.Selection{
		ArtistIndex: n.artist,
		AlbumIndex:  n.album,
		TrackIndex:  n.activeTrack,
	}
}

// PickStar toggles artist selection. Selecting flies to the star and
// stops auto-rotation; re-picking the selected star clears the whole
// selection, re-engages auto-rotation and flies back out to the galaxy.
// Out-of-range indices are a no-op. The scene itself is never written:
// the selection lives only on the navigator and ships in the frame feed.
func (n *Navigator) PickStar(i int) {
	star := n.scn.Star(i)
	if star == nil {
		return
	}

	if i == n.artist {
		n.artist = -1
		n.album = -1
		n.activeTrack = -1
		n.rig.AutoRotate = true
		n.rig.FlyTo(mgl64.Vec3{}, n.scn.GalaxyCameraDist)
		return
	}

	n.artist = i
	n.album = -1
	n.activeTrack = -1
	n.rig.AutoRotate = false
	n.rig.FlyTo(scene.ToVec(star.Position), star.IdealCameraDist)
}

// PickAlbum toggles album selection under the selected artist, flying to
// the album's current world position at a distance framing its outermost
// track orbit. No-op without an artist selection or out of range.
func (n *Navigator) PickAlbum(j int, elapsed float64) {
	star := n.scn.Star(n.artist)
	al := n.scn.Album(n.artist, j)
	if star == nil || al == nil {
		return
	}

	if j == n.album {
		n.album = -1
		n.activeTrack = -1
		n.rig.FlyTo(scene.ToVec(star.Position), star.IdealCameraDist)
		return
	}

	n.album = j
	n.activeTrack = -1
	n.rig.FlyTo(scene.AlbumPosition(star, al, elapsed), albumViewDist(al))
}

// PickTrack requests playback of a track of the selected album and flies
// close to its moon. The album selection is left untouched.
func (n *Navigator) PickTrack(k int, elapsed float64) {
	star := n.scn.Star(n.artist)
	al := n.scn.Album(n.artist, n.album)
	tr := n.scn.Track(n.artist, n.album, k)
	if star == nil || al == nil || tr == nil {
		return
	}

	if err := n.player.Play(tr.Path, tr.Title, star.Name, al.Name, tr.DurationSeconds); err != nil {
		log.Printf("Playback request failed for %q: %v", tr.Title, err)
		return
	}

	n.activeTrack = k
	pos := scene.TrackPosition(star, al, tr, elapsed)
	n.rig.FlyTo(pos, math.Max(tr.Size*trackViewScale, trackViewFloor))
}

// Back collapses exactly one selection level per call:
// Album -> Artist -> Galaxy. It never skips levels.
func (n *Navigator) Back() {
	switch {
	case n.album >= 0:
		n.album = -1
		n.activeTrack = -1
		if star := n.scn.Star(n.artist); star != nil {
			n.rig.FlyTo(scene.ToVec(star.Position), star.IdealCameraDist)
		}
	case n.artist >= 0:
		n.artist = -1
		n.rig.AutoRotate = true
		n.rig.FlyTo(mgl64.Vec3{}, n.scn.GalaxyCameraDist)
	}
}

// HandlePick resolves a completed click at (x, y) against the hierarchy.
// Dispatch is finest-first: track moons of the selected album, then
// album planets of the selected artist, then stars — with stars reduced
// to the selected one while an artist is selected, so the toggle stays
// reachable without galaxy-level picking underneath it.
func (n *Navigator) HandlePick(ht *HitTester, x, y, elapsed float64) bool {
	if n.album >= 0 {
		if c, ok := ht.Pick(x, y, n.trackCandidates(elapsed)); ok {
			n.PickTrack(c.Track, elapsed)
			return true
		}
	}
	if n.artist >= 0 {
		if c, ok := ht.Pick(x, y, n.albumCandidates(elapsed)); ok {
			n.PickAlbum(c.Album, elapsed)
			return true
		}
		if c, ok := ht.Pick(x, y, n.starCandidates(n.artist)); ok {
			n.PickStar(c.Artist)
			return true
		}
		return false
	}
	if c, ok := ht.Pick(x, y, n.starCandidates(-1)); ok {
		n.PickStar(c.Artist)
		return true
	}
	return false
}

// AutoAdvance moves playback to the next track of the active album when
// the player reports the current one finished.
func (n *Navigator) AutoAdvance(elapsed float64) {
	if n.activeTrack < 0 || !n.player.AtEnd() {
		return
	}
	next := n.activeTrack + 1
	if n.scn.Track(n.artist, n.album, next) == nil {
		n.activeTrack = -1
		return
	}
	n.PickTrack(next, elapsed)
}

// starCandidates returns all stars, or just the star at only when >= 0
func (n *Navigator) starCandidates(only int) []Candidate {
	if only >= 0 {
		star := n.scn.Star(only)
		if star == nil {
			return nil
		}
		return []Candidate{starCandidate(star)}
	}
	out := make([]Candidate, 0, len(n.scn.Stars))
	for i := range n.scn.Stars {
		out = append(out, starCandidate(&n.scn.Stars[i]))
	}
	return out
}

func starCandidate(star *types.StarNode) Candidate {
	return Candidate{
		Kind:   KindStar,
		Artist: star.Index,
		Album:  -1,
		Track:  -1,
		World:  scene.ToVec(star.Position),
		Scale:  star.GlowRadius,
	}
}

func (n *Navigator) albumCandidates(elapsed float64) []Candidate {
	star := n.scn.Star(n.artist)
	if star == nil {
		return nil
	}
	out := make([]Candidate, 0, len(star.Albums))
	for j := range star.Albums {
		al := &star.Albums[j]
		out = append(out, Candidate{
			Kind:   KindAlbum,
			Artist: n.artist,
			Album:  j,
			Track:  -1,
			World:  scene.AlbumPosition(star, al, elapsed),
			Scale:  al.PlanetSize,
		})
	}
	return out
}

func (n *Navigator) trackCandidates(elapsed float64) []Candidate {
	star := n.scn.Star(n.artist)
	al := n.scn.Album(n.artist, n.album)
	if star == nil || al == nil {
		return nil
	}
	out := make([]Candidate, 0, len(al.Tracks))
	for k := range al.Tracks {
		tr := &al.Tracks[k]
		out = append(out, Candidate{
			Kind:   KindTrack,
			Artist: n.artist,
			Album:  n.album,
			Track:  k,
			World:  scene.TrackPosition(star, al, tr, elapsed),
			Scale:  tr.Size,
		})
	}
	return out
}

// albumViewDist frames an album so its outermost moon orbit fits
func albumViewDist(al *types.AlbumOrbit) float64 {
	outer := al.PlanetSize * 3.0
	if len(al.Tracks) > 0 {
		last := al.Tracks[len(al.Tracks)-1]
		outer = last.Radius + last.Size*2.0
	}
	return math.Max(outer*albumViewScale, albumViewFloor)
}
