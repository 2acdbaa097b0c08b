package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nocturne/engine"
)

// SceneHandler exposes the assembled galaxy over plain HTTP, mostly for
// renderers that want a snapshot before subscribing to the frame feed
type SceneHandler struct {
	engine *engine.Engine
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(eng *engine.Engine) *SceneHandler {
	return &SceneHandler{engine: eng}
}

// GetScene returns the current star tree
func (h *SceneHandler) GetScene(c *gin.Context) {
	s := h.engine.CurrentScene()
	if s == nil {
		c.JSON(http.StatusOK, gin.H{
			"stars":          []interface{}{},
			"boundingRadius": 0,
			"totalAlbums":    0,
			"totalTracks":    0,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stars":          s.Stars,
		"boundingRadius": s.BoundingRadius,
		"totalAlbums":    s.TotalAlbums,
		"totalTracks":    s.TotalTracks,
	})
}

// searchResult locates one match inside the star tree
type searchResult struct {
	Kind        string `json:"kind"` // "artist", "album", "track"
	Name        string `json:"name"`
	ArtistIndex int    `json:"artistIndex"`
	AlbumIndex  int    `json:"albumIndex,omitempty"`
	TrackIndex  int    `json:"trackIndex,omitempty"`
	Artist      string `json:"artist"`
}

// Search performs a case-insensitive substring search over artists,
// albums and tracks, returning tree indices a renderer can fly to
func (h *SceneHandler) Search(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'q' is required",
		})
		return
	}

	searchType := c.DefaultQuery("type", "all")
	switch searchType {
	case "all", "artist", "album", "track":
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "type parameter must be 'artist', 'album', 'track' or 'all'",
		})
		return
	}

	results := []searchResult{}
	s := h.engine.CurrentScene()
	if s == nil {
		c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
		return
	}

	for i := range s.Stars {
		star := &s.Stars[i]
		if (searchType == "all" || searchType == "artist") &&
			strings.Contains(strings.ToLower(star.Name), query) {
			results = append(results, searchResult{
				Kind:        "artist",
				Name:        star.Name,
				ArtistIndex: i,
				Artist:      star.Name,
			})
		}

		for j := range star.Albums {
			album := &star.Albums[j]
			if (searchType == "all" || searchType == "album") &&
				strings.Contains(strings.ToLower(album.Name), query) {
				results = append(results, searchResult{
					Kind:        "album",
					Name:        album.Name,
					ArtistIndex: i,
					AlbumIndex:  j,
					Artist:      star.Name,
				})
			}

			if searchType != "all" && searchType != "track" {
				continue
			}
			for k := range album.Tracks {
				track := &album.Tracks[k]
				if strings.Contains(strings.ToLower(track.Title), query) {
					results = append(results, searchResult{
						Kind:        "track",
						Name:        track.Title,
						ArtistIndex: i,
						AlbumIndex:  j,
						TrackIndex:  k,
						Artist:      star.Name,
					})
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"type":    searchType,
		"results": results,
	})
}
