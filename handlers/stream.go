package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nocturne/engine"
)

// StreamHandler serves track audio to connected renderers. Tracks are
// addressed by their tree indices, never by raw paths.
type StreamHandler struct {
	engine *engine.Engine
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(eng *engine.Engine) *StreamHandler {
	return &StreamHandler{engine: eng}
}

// StreamTrack streams one track's audio with support for range requests.
// Tracks sourced from a Subsonic server redirect to the server's own
// stream endpoint instead.
func (h *StreamHandler) StreamTrack(c *gin.Context) {
	track, ok := h.resolveTrack(c)
	if !ok {
		return
	}

	// Remote libraries carry stream URLs as track paths
	if strings.HasPrefix(track, "http://") || strings.HasPrefix(track, "https://") {
		c.Redirect(http.StatusFound, track)
		return
	}

	fileInfo, err := os.Stat(track)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "track file not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "file access error",
			"details": err.Error(),
		})
		return
	}
	if fileInfo.IsDir() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "path is a directory, not a file",
		})
		return
	}

	file, err := os.Open(track)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to open file",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	c.Header("Content-Type", contentTypeFor(track))
	c.Header("Content-Length", strconv.FormatInt(fileInfo.Size(), 10))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "public, max-age=3600")

	// Handle range requests for seeking
	rangeHeader := c.GetHeader("Range")
	if rangeHeader != "" {
		h.handleRangeRequest(c, file, fileInfo.Size(), rangeHeader, track)
		return
	}

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		log.Printf("Error streaming file %s: %v", track, err)
	}
}

// resolveTrack maps artist/album/track path params to a playable path
func (h *StreamHandler) resolveTrack(c *gin.Context) (string, bool) {
	s := h.engine.CurrentScene()
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no library loaded"})
		return "", false
	}

	artist, err1 := strconv.Atoi(c.Param("artist"))
	album, err2 := strconv.Atoi(c.Param("album"))
	track, err3 := strconv.Atoi(c.Param("track"))
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "track indices must be integers"})
		return "", false
	}

	orbit := s.Track(artist, album, track)
	if orbit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
		return "", false
	}
	return orbit.Path, true
}

// handleRangeRequest handles HTTP range requests for efficient seeking
func (h *StreamHandler) handleRangeRequest(c *gin.Context, file *os.File, fileSize int64, rangeHeader, filePath string) {
	// Parse range header (e.g., "bytes=0-1023" or "bytes=1024-")
	if !strings.HasPrefix(rangeHeader, "bytes=") {
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	rangeSpec := strings.TrimPrefix(rangeHeader, "bytes=")
	ranges := strings.Split(rangeSpec, "-")
	if len(ranges) != 2 {
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	var start, end int64
	var err error

	if ranges[0] != "" {
		start, err = strconv.ParseInt(ranges[0], 10, 64)
		if err != nil || start < 0 {
			c.Status(http.StatusRequestedRangeNotSatisfiable)
			return
		}
	}

	if ranges[1] != "" {
		end, err = strconv.ParseInt(ranges[1], 10, 64)
		if err != nil || end < start {
			c.Status(http.StatusRequestedRangeNotSatisfiable)
			return
		}
	} else {
		end = fileSize - 1
	}

	if start >= fileSize {
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}
	if end >= fileSize {
		end = fileSize - 1
	}

	contentLength := end - start + 1

	if _, err := file.Seek(start, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to seek file",
		})
		return
	}

	c.Header("Content-Type", contentTypeFor(filePath))
	c.Header("Content-Length", strconv.FormatInt(contentLength, 10))
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, fileSize))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "public, max-age=3600")
	c.Status(http.StatusPartialContent)

	if _, err := io.CopyN(c.Writer, file, contentLength); err != nil {
		log.Printf("Error streaming range %d-%d: %v", start, end, err)
	}
}

// contentTypeFor returns the MIME type for an audio file
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return "audio/flac"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".m4a", ".aac":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
