package types

// TrackRecord represents one audio track in a library snapshot
type TrackRecord struct {
	Title           string  `json:"title"`
	Path            string  `json:"path"`
	TrackNumber     int     `json:"trackNumber"`
	DurationSeconds float64 `json:"durationSeconds"`
	Genre           string  `json:"genre,omitempty"`
}

// AlbumRecord represents one album and its ordered tracks
type AlbumRecord struct {
	Name   string        `json:"name"`
	Year   int           `json:"year"`
	Tracks []TrackRecord `json:"tracks"`
}

// ArtistRecord represents one artist and its ordered albums
type ArtistRecord struct {
	Name        string        `json:"name"`
	Genre       string        `json:"genre"`
	TotalTracks int           `json:"totalTracks"`
	Albums      []AlbumRecord `json:"albums"`
}

// Library is a read-only hierarchical snapshot of a scanned music
// collection. Scanners publish whole snapshots; nothing mutates a
// Library after it is built.
type Library struct {
	Artists     []ArtistRecord `json:"artists"`
	TotalAlbums int            `json:"totalAlbums"`
	TotalTracks int            `json:"totalTracks"`
}

// Empty reports whether the snapshot contains no artists
func (l *Library) Empty() bool {
	return len(l.Artists) == 0
}
