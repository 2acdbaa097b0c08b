package cmd

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"nocturne/camera"
	"nocturne/config"
	"nocturne/engine"
	"nocturne/handlers"
	"nocturne/middleware"
	"nocturne/nav"
	"nocturne/services"
	"nocturne/websocket"
)

// ServerOptions configures the web server
type ServerOptions struct {
	Port        int
	LibraryRoot string
	SubsonicURL string
}

// StartWebServer starts the galaxy server: simulation loop, scan worker,
// WebSocket hub and HTTP API
func StartWebServer(opts ServerOptions) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	var scanner services.LibraryScanner
	scanRoot := opts.LibraryRoot
	if opts.SubsonicURL != "" {
		scanner = services.NewSubsonicScanner(config.GetSubsonicUser(), config.GetSubsonicPassword())
		scanRoot = opts.SubsonicURL
	} else {
		scanner = services.NewFileScanner()
		if scanRoot == "" {
			scanRoot = config.GetLibraryRoot()
		}
	}

	scans := services.NewScanService(scanner, hub)
	scans.Start()

	// The renderer plays audio on its side; the server only tracks
	// playback position.
	player := services.NewSilentPlayer()

	// Initialize simulation
	rig := camera.NewRig()
	navigator := nav.NewNavigator(rig, player)
	eng := engine.New(rig, navigator, scans, player, hub)
	go eng.Run(context.Background())

	// Kick off the initial library scan
	scans.QueueScan(scanRoot)

	// Initialize handlers
	scanHandler := handlers.NewScanHandler(scans, hub, eng.Inputs())
	sceneHandler := handlers.NewSceneHandler(eng)
	streamHandler := handlers.NewStreamHandler(eng)
	healthHandler := handlers.NewHealthHandler(scans)
	settingsHandler := handlers.NewSettingsHandler(scans)

	// Setup router
	r := gin.Default()

	// Apply middleware
	r.Use(middleware.CORS())
	r.Use(middleware.Logging())
	r.Use(middleware.Security())

	// Setup routes
	setupRoutes(r, scanHandler, sceneHandler, streamHandler, healthHandler, settingsHandler)

	// Start server
	portStr := strconv.Itoa(opts.Port)
	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		portStr = serverPort
	}

	log.Printf("Nocturne server starting on port %s", portStr)
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, scanHandler *handlers.ScanHandler, sceneHandler *handlers.SceneHandler, streamHandler *handlers.StreamHandler, healthHandler *handlers.HealthHandler, settingsHandler *handlers.SettingsHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Scene snapshot and search
		apiGroup.GET("/scene", sceneHandler.GetScene)
		apiGroup.GET("/search", sceneHandler.Search)

		// Scan management endpoints
		scanGroup := apiGroup.Group("/scan")
		{
			scanGroup.POST("", scanHandler.QueueScan)
			scanGroup.GET("", scanHandler.GetAllJobs)
			scanGroup.GET("/:jobId", scanHandler.GetJob)
		}

		// WebSocket endpoints
		wsGroup := apiGroup.Group("/ws")
		{
			// Frame feed plus upstream pointer input
			wsGroup.GET("/frames", scanHandler.HandleFramesWebSocket)

			// Scan progress feed
			wsGroup.GET("/scan", scanHandler.HandleScanWebSocket)
		}

		// Track audio streaming
		apiGroup.GET("/stream/:artist/:album/:track", streamHandler.StreamTrack)

		// Settings endpoints
		apiGroup.GET("/settings", settingsHandler.GetSettings)
		apiGroup.POST("/settings", settingsHandler.UpdateSettings)
	}
}
