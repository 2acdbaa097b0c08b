package types

import "time"

// Channel names clients can subscribe to on the WebSocket surface
const (
	ChannelFrames = "frames"
	ChannelScan   = "scan"
)

// SceneMessage carries the full rebuilt star tree. Sent once per library
// rebuild; the renderer discards any previously held scene wholesale.
type SceneMessage struct {
	Type           string     `json:"type"` // "scene"
	Stars          []StarNode `json:"stars"`
	BoundingRadius float64    `json:"boundingRadius"`
	TotalAlbums    int        `json:"totalAlbums"`
	TotalTracks    int        `json:"totalTracks"`
	Timestamp      time.Time  `json:"timestamp"`
}

// FrameMessage is the per-frame state feed: camera, selection, playback
// and the audio-reactivity scalar. Geometry is not repeated here; the
// renderer advances orbital phase itself from Elapsed.
type FrameMessage struct {
	Type       string        `json:"type"` // "frame"
	Elapsed    float64       `json:"elapsed"`
	Camera     CameraState   `json:"camera"`
	Selection  Selection     `json:"selection"`
	Playback   PlaybackState `json:"playback"`
	Reactivity float64       `json:"reactivity"`
}

// ScanProgressMessage is a scan progress update pushed to subscribers
type ScanProgressMessage struct {
	Type      string     `json:"type"` // "progress", "complete", "error"
	JobID     string     `json:"jobId"`
	Status    ScanStatus `json:"status"`
	Scanned   int        `json:"scanned"`
	Total     int        `json:"total"`
	Message   string     `json:"message,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// InputMessage is a decoded pointer/controller event sent by a renderer
// client. Kind is one of "down", "move", "up", "scroll" or "reactivity"
// (Delta carries the audio reactivity scalar).
type InputMessage struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Delta  float64 `json:"delta"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}
