package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSilentPlayerProgress tests clock-driven progress against the
// declared duration
func TestSilentPlayerProgress(t *testing.T) {
	p := NewSilentPlayer()

	require.NoError(t, p.Play("/m/track.flac", "Track", "Artist", "Album", 0.2))

	state := p.State()
	assert.True(t, state.Playing)
	assert.Equal(t, "Track", state.Title)
	assert.Equal(t, "Artist", state.Artist)
	assert.Equal(t, "Album", state.Album)
	assert.False(t, p.AtEnd())

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 1.0, p.Progress())
	assert.True(t, p.AtEnd())

	state = p.State()
	assert.False(t, state.Playing)
	assert.True(t, state.AtEnd)
}

// TestSilentPlayerStop tests stop clears the playing state
func TestSilentPlayerStop(t *testing.T) {
	p := NewSilentPlayer()
	require.NoError(t, p.Play("/m/track.flac", "Track", "Artist", "Album", 100))

	p.Stop()

	assert.False(t, p.AtEnd())
	assert.Zero(t, p.Progress())
	assert.False(t, p.State().Playing)
}

// TestSilentPlayerIdle tests the zero state before any play request
func TestSilentPlayerIdle(t *testing.T) {
	p := NewSilentPlayer()

	assert.Zero(t, p.Progress())
	assert.False(t, p.AtEnd())
	assert.False(t, p.State().Playing)
}

// TestSilentPlayerReplaceTrack tests a new play resets progress
func TestSilentPlayerReplaceTrack(t *testing.T) {
	p := NewSilentPlayer()

	require.NoError(t, p.Play("/m/a.flac", "A", "", "", 0.05))
	time.Sleep(100 * time.Millisecond)
	require.True(t, p.AtEnd())

	require.NoError(t, p.Play("/m/b.flac", "B", "", "", 60))
	assert.False(t, p.AtEnd())
	assert.Equal(t, "B", p.State().Title)
	assert.Less(t, p.Progress(), 0.1)
}
