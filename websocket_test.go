package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nocturne/types"
)

// wireMessage is the minimal shape shared by everything the frame
// channel carries
type wireMessage struct {
	Type string `json:"type"`
}

// readUntilType reads frame-channel messages until one of the given
// type arrives, returning its raw bytes
func readUntilType(t *testing.T, read func() ([]byte, error), msgType string, timeout time.Duration) []byte {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		data, err := read()
		require.NoError(t, err)

		var msg wireMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == msgType {
			return data
		}
	}

	t.Fatalf("No %q message within timeout", msgType)
	return nil
}

// TestFramesWebSocketFeed tests that a frame subscriber receives the
// scene rebuild and the continuous frame feed after a scan
func TestFramesWebSocketFeed(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup(t)

	conn := helper.ConnectWebSocket(t, "/api/ws/frames")
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(15 * time.Second))

	read := func() ([]byte, error) {
		_, data, err := conn.ReadMessage()
		return data, err
	}

	helper.ScanLibrary(t)

	data := readUntilType(t, read, "scene", 10*time.Second)
	var sceneMsg types.SceneMessage
	require.NoError(t, json.Unmarshal(data, &sceneMsg))
	assert.Len(t, sceneMsg.Stars, 2)
	assert.Equal(t, 3, sceneMsg.TotalTracks)

	data = readUntilType(t, read, "frame", 10*time.Second)
	var frameMsg types.FrameMessage
	require.NoError(t, json.Unmarshal(data, &frameMsg))
	assert.Greater(t, frameMsg.Elapsed, 0.0)
	assert.Greater(t, frameMsg.Camera.Dist, 0.0)
}

// TestFramesWebSocketInput tests pointer input sent upstream reaches the
// simulation: a scroll-in shows up as a smaller desired camera distance
func TestFramesWebSocketInput(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup(t)

	conn := helper.ConnectWebSocket(t, "/api/ws/frames")
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(15 * time.Second))

	read := func() ([]byte, error) {
		_, data, err := conn.ReadMessage()
		return data, err
	}

	data := readUntilType(t, read, "frame", 10*time.Second)
	var before types.FrameMessage
	require.NoError(t, json.Unmarshal(data, &before))

	require.NoError(t, conn.WriteJSON(types.InputMessage{Kind: "scroll", Delta: 1}))

	deadline := time.Now().Add(10 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("Desired distance never changed after scroll input")
		}
		data = readUntilType(t, read, "frame", 10*time.Second)
		var after types.FrameMessage
		require.NoError(t, json.Unmarshal(data, &after))
		if after.Camera.DesiredDist < before.Camera.DesiredDist {
			break
		}
	}
}

// TestScanWebSocketProgress tests the scan channel reports the running
// scan and its completion
func TestScanWebSocketProgress(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup(t)

	conn := helper.ConnectWebSocket(t, "/api/ws/scan")
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(15 * time.Second))

	helper.ScanLibrary(t)

	sawComplete := false
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) && !sawComplete {
		var msg types.ScanProgressMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.NotEmpty(t, msg.JobID)

		if msg.Type == "complete" {
			assert.Equal(t, types.ScanStatusCompleted, msg.Status)
			sawComplete = true
		}
	}

	assert.True(t, sawComplete, "scan channel should report completion")
}
