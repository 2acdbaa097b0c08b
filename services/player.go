package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"nocturne/types"
)

// playerSampleRate is the fixed speaker rate; sources get resampled to it
const playerSampleRate = beep.SampleRate(44100)

// speakerOnce guards speaker initialization, which must happen exactly once
var speakerOnce sync.Once

// Player interface defines playback control and state reporting
type Player interface {
	Play(path, title, artist, album string, durationSeconds float64) error
	Progress() float64
	AtEnd() bool
	Stop()
	State() types.PlaybackState
}

// beepPlayer plays local FLAC and MP3 files through the system speaker
type beepPlayer struct {
	mu      sync.Mutex
	stream  beep.StreamSeekCloser
	format  beep.Format
	ctrl    *beep.Ctrl
	playing bool
	title   string
	artist  string
	album   string
	atEnd   atomic.Bool
}

// NewBeepPlayer creates a player backed by the beep speaker
func NewBeepPlayer() Player {
	return &beepPlayer{}
}

// Play stops any current track and starts the given file
func (bp *beepPlayer) Play(path, title, artist, album string, durationSeconds float64) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open track: %w", err)
	}

	var stream beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		stream, format, err = flac.Decode(file)
	case ".mp3":
		stream, format, err = mp3.Decode(file)
	default:
		file.Close()
		return fmt.Errorf("unsupported playback format: %s", filepath.Ext(path))
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("could not decode track: %w", err)
	}

	speakerOnce.Do(func() {
		if err := speaker.Init(playerSampleRate, playerSampleRate.N(100*time.Millisecond)); err != nil {
			log.Printf("Speaker init failed: %v", err)
		}
	})

	bp.mu.Lock()
	defer bp.mu.Unlock()

	speaker.Clear()
	if bp.stream != nil {
		bp.stream.Close()
	}

	var streamer beep.Streamer = stream
	if format.SampleRate != playerSampleRate {
		streamer = beep.Resample(4, format.SampleRate, playerSampleRate, stream)
	}

	bp.stream = stream
	bp.format = format
	bp.title = title
	bp.artist = artist
	bp.album = album
	bp.playing = true
	bp.atEnd.Store(false)

	bp.ctrl = &beep.Ctrl{Streamer: beep.Seq(streamer, beep.Callback(func() {
		bp.atEnd.Store(true)
	}))}
	speaker.Play(bp.ctrl)

	log.Printf("Playing %s - %s", artist, title)
	return nil
}

// Progress returns playback position as a 0..1 fraction
func (bp *beepPlayer) Progress() float64 {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.stream == nil {
		return 0
	}
	if bp.atEnd.Load() {
		return 1
	}

	speaker.Lock()
	pos := bp.stream.Position()
	length := bp.stream.Len()
	speaker.Unlock()

	if length <= 0 {
		return 0
	}
	return float64(pos) / float64(length)
}

// AtEnd reports whether the current track finished on its own
func (bp *beepPlayer) AtEnd() bool {
	return bp.atEnd.Load()
}

// Stop halts playback and releases the current stream
func (bp *beepPlayer) Stop() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if !bp.playing {
		return
	}

	speaker.Clear()
	if bp.stream != nil {
		bp.stream.Close()
		bp.stream = nil
	}
	bp.ctrl = nil
	bp.playing = false
	bp.atEnd.Store(false)
}

// State snapshots playback for the frame feed
func (bp *beepPlayer) State() types.PlaybackState {
	progress := bp.Progress()

	bp.mu.Lock()
	defer bp.mu.Unlock()
	return types.PlaybackState{
		Playing:  bp.playing && !bp.atEnd.Load(),
		Title:    bp.title,
		Artist:   bp.artist,
		Album:    bp.album,
		Progress: progress,
		AtEnd:    bp.atEnd.Load(),
	}
}

// silentPlayer tracks playback position against the wall clock without
// producing audio. Used in server mode, where the connected renderer
// streams and plays the audio itself; track advancement still needs a
// position source on this side.
type silentPlayer struct {
	mu       sync.Mutex
	playing  bool
	title    string
	artist   string
	album    string
	duration float64
	started  time.Time
}

// NewSilentPlayer creates a clock-driven player with no audio output
func NewSilentPlayer() Player {
	return &silentPlayer{}
}

func (sp *silentPlayer) Play(path, title, artist, album string, durationSeconds float64) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.playing = true
	sp.title = title
	sp.artist = artist
	sp.album = album
	sp.duration = durationSeconds
	sp.started = time.Now()
	return nil
}

func (sp *silentPlayer) Progress() float64 {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.progressLocked()
}

func (sp *silentPlayer) progressLocked() float64 {
	if !sp.playing || sp.duration <= 0 {
		return 0
	}
	progress := time.Since(sp.started).Seconds() / sp.duration
	if progress > 1 {
		return 1
	}
	return progress
}

func (sp *silentPlayer) AtEnd() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.playing && sp.progressLocked() >= 1
}

func (sp *silentPlayer) Stop() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.playing = false
}

func (sp *silentPlayer) State() types.PlaybackState {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	progress := sp.progressLocked()
	return types.PlaybackState{
		Playing:  sp.playing && progress < 1,
		Title:    sp.title,
		Artist:   sp.artist,
		Album:    sp.album,
		Progress: progress,
		AtEnd:    sp.playing && progress >= 1,
	}
}
