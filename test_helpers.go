package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"nocturne/camera"
	"nocturne/engine"
	"nocturne/handlers"
	"nocturne/nav"
	"nocturne/services"
	"nocturne/types"
	"nocturne/websocket"
)

// TestHelper wires a full server over a temporary music library: real
// hub, scan service, simulation loop and handlers behind an httptest
// server
type TestHelper struct {
	Server     *httptest.Server
	LibraryDir string
	Scans      services.ScanService
	Engine     *engine.Engine

	cancel context.CancelFunc
}

// NewTestHelper creates a new test helper with a temporary test library
func NewTestHelper(t *testing.T) *TestHelper {
	libraryDir, err := os.MkdirTemp("", "nocturne-test-*")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)

	hub := websocket.NewHub()
	go hub.Run()

	scans := services.NewScanService(services.NewFileScanner(), hub)
	scans.Start()

	player := services.NewSilentPlayer()
	rig := camera.NewRig()
	navigator := nav.NewNavigator(rig, player)
	eng := engine.New(rig, navigator, scans, player, hub)

	ctx, cancel := context.WithCancel(context.Background())
	go eng.Run(ctx)

	router := setupTestRouter(scans, hub, eng)
	server := httptest.NewServer(router)

	helper := &TestHelper{
		Server:     server,
		LibraryDir: libraryDir,
		Scans:      scans,
		Engine:     eng,
		cancel:     cancel,
	}

	helper.setupTestLibrary(t)

	return helper
}

// Cleanup cleans up test resources
func (h *TestHelper) Cleanup(t *testing.T) {
	h.cancel()
	if h.Server != nil {
		h.Server.Close()
	}

	err := os.RemoveAll(h.LibraryDir)
	require.NoError(t, err)
}

// setupTestRouter builds a router with the real handlers on the same
// routes the server uses
func setupTestRouter(scans services.ScanService, hub websocket.Hub, eng *engine.Engine) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	scanHandler := handlers.NewScanHandler(scans, hub, eng.Inputs())
	sceneHandler := handlers.NewSceneHandler(eng)
	streamHandler := handlers.NewStreamHandler(eng)
	healthHandler := handlers.NewHealthHandler(scans)

	router.GET("/health", healthHandler.HealthCheck)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)
		apiGroup.GET("/scene", sceneHandler.GetScene)
		apiGroup.GET("/search", sceneHandler.Search)

		scanGroup := apiGroup.Group("/scan")
		{
			scanGroup.POST("", scanHandler.QueueScan)
			scanGroup.GET("", scanHandler.GetAllJobs)
			scanGroup.GET("/:jobId", scanHandler.GetJob)
		}

		wsGroup := apiGroup.Group("/ws")
		{
			wsGroup.GET("/frames", scanHandler.HandleFramesWebSocket)
			wsGroup.GET("/scan", scanHandler.HandleScanWebSocket)
		}

		apiGroup.GET("/stream/:artist/:album/:track", streamHandler.StreamTrack)
	}

	return router
}

// setupTestLibrary creates a small artist/album/track tree. The files
// are not decodable audio, which exercises the path-derived metadata
// fallback and the default track duration.
func (h *TestHelper) setupTestLibrary(t *testing.T) {
	tracks := map[string][]string{
		filepath.Join("Slowdive", "Souvlaki"): {
			"01 - Alison.flac",
			"02 - Machine Gun.flac",
		},
		filepath.Join("Low", "Things We Lost in the Fire"): {
			"01 - Sunflower.mp3",
		},
	}

	for albumDir, names := range tracks {
		dir := filepath.Join(h.LibraryDir, albumDir)
		require.NoError(t, os.MkdirAll(dir, 0755))
		for _, name := range names {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))
		}
	}
}

// ScanLibrary queues a scan of the test library and waits for it to
// finish and for the simulation loop to pick up the result
func (h *TestHelper) ScanLibrary(t *testing.T) {
	var response struct {
		Job *types.ScanJob `json:"job"`
	}
	resp := h.PostJSON(t, "/api/scan", gin.H{"root": h.LibraryDir}, &response)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, response.Job)

	job := h.WaitForScanCompletion(t, response.Job.ID, 10*time.Second)
	require.Equal(t, types.ScanStatusCompleted, job.Status)

	// The frame loop applies the snapshot on its next tick
	deadline := time.Now().Add(5 * time.Second)
	for h.Engine.CurrentScene() == nil {
		if time.Now().After(deadline) {
			t.Fatal("scene was not rebuilt after scan")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// MakeRequest makes an HTTP request to the test server
func (h *TestHelper) MakeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, h.Server.URL+path, reqBody)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// GetJSON makes a GET request and unmarshals JSON response
func (h *TestHelper) GetJSON(t *testing.T, path string, target interface{}) *http.Response {
	resp := h.MakeRequest(t, "GET", path, nil)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		err = json.Unmarshal(body, target)
		require.NoError(t, err)
	}

	return resp
}

// PostJSON makes a POST request with JSON body and unmarshals JSON response
func (h *TestHelper) PostJSON(t *testing.T, path string, requestBody interface{}, target interface{}) *http.Response {
	resp := h.MakeRequest(t, "POST", path, requestBody)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		err = json.Unmarshal(body, target)
		require.NoError(t, err)
	}

	return resp
}

// WaitForScanCompletion waits for a scan job to complete or timeout
func (h *TestHelper) WaitForScanCompletion(t *testing.T, jobID string, timeout time.Duration) *types.ScanJob {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		var response struct {
			Job *types.ScanJob `json:"job"`
		}

		resp := h.GetJSON(t, "/api/scan/"+jobID, &response)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		if response.Job.Status == types.ScanStatusCompleted || response.Job.Status == types.ScanStatusFailed {
			return response.Job
		}

		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("Scan %s did not complete within timeout", jobID)
	return nil
}

// ConnectWebSocket connects to a WebSocket endpoint
func (h *TestHelper) ConnectWebSocket(t *testing.T, path string) *gws.Conn {
	wsURL := "ws" + h.Server.URL[4:] + path // Replace http:// with ws://

	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn
}
