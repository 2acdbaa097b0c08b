package types

// RGB is a renderer-ready color triple with components in [0,1]
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Vec3 is a world-space position. Kept as a plain JSON-friendly triple
// so scene geometry can cross the wire without renderer-side math deps.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// TrackOrbit holds the orbital parameters of one track moon around its
// album planet. Radii within one album are strictly increasing.
type TrackOrbit struct {
	ArtistIndex     int     `json:"artistIndex"`
	AlbumIndex      int     `json:"albumIndex"`
	TrackIndex      int     `json:"trackIndex"`
	Title           string  `json:"title"`
	Path            string  `json:"path"`
	Radius          float64 `json:"radius"`
	Angle           float64 `json:"angle"`
	Speed           float64 `json:"speed"`
	Size            float64 `json:"size"`
	TiltX           float64 `json:"tiltX"`
	TiltZ           float64 `json:"tiltZ"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// AlbumOrbit holds the orbital parameters of one album planet around its
// artist star, plus the ordered moons of its tracks. Back-references are
// indices into the owning Scene collections.
type AlbumOrbit struct {
	ArtistIndex int          `json:"artistIndex"`
	AlbumIndex  int          `json:"albumIndex"`
	Name        string       `json:"name"`
	Year        int          `json:"year"`
	NumTracks   int          `json:"numTracks"`
	Radius      float64      `json:"radius"`
	Angle       float64      `json:"angle"`
	Speed       float64      `json:"speed"`
	PlanetSize  float64      `json:"planetSize"`
	Tracks      []TrackOrbit `json:"tracks"`
}

// StarNode is the spatial/visual representation of one artist. Nodes
// are immutable once built; only the angular phase of their children
// advances with time, derived from elapsed seconds. Which star is
// selected is navigation state and travels in the frame feed, never
// here, so a published scene can be marshaled from any goroutine.
type StarNode struct {
	Index           int          `json:"index"`
	Name            string       `json:"name"`
	Genre           string       `json:"genre"`
	Hue             float64      `json:"hue"`
	Sat             float64      `json:"sat"`
	Color           RGB          `json:"color"`
	GlowColor       RGB          `json:"glowColor"`
	RadiusInit      float64      `json:"radiusInit"`
	GlowRadius      float64      `json:"glowRadius"`
	Position        Vec3         `json:"position"`
	IdealCameraDist float64      `json:"idealCameraDist"`
	TotalTracks     int          `json:"totalTracks"`
	Albums          []AlbumOrbit `json:"albums"`
}

// CameraState is the per-frame camera snapshot handed to the renderer
type CameraState struct {
	Position    Vec3    `json:"position"`
	Target      Vec3    `json:"target"`
	Yaw         float64 `json:"yaw"`
	Pitch       float64 `json:"pitch"`
	Dist        float64 `json:"dist"`
	DesiredDist float64 `json:"desiredDist"`
	Fov         float64 `json:"fov"`
	AutoRotate  bool    `json:"autoRotate"`
}

// Selection mirrors the navigation state: -1 means none. The four-level
// mode is always derived from these indices, never stored independently.
type Selection struct {
	ArtistIndex int `json:"artistIndex"`
	AlbumIndex  int `json:"albumIndex"`
	TrackIndex  int `json:"trackIndex"`
}

// PlaybackState is the read-back from the audio collaborator
type PlaybackState struct {
	Playing  bool    `json:"playing"`
	Title    string  `json:"title,omitempty"`
	Artist   string  `json:"artist,omitempty"`
	Album    string  `json:"album,omitempty"`
	Progress float64 `json:"progress"` // 0..1
	AtEnd    bool    `json:"atEnd"`
}
