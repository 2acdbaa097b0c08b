package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nocturne/config"
	"nocturne/services"
	"nocturne/types"
	"nocturne/websocket"
)

// ScanHandler handles library scan endpoints and the WebSocket surfaces
type ScanHandler struct {
	scans  services.ScanService
	hub    websocket.Hub
	inputs chan<- types.InputMessage
}

// NewScanHandler creates a new scan handler. inputs feeds pointer events
// from frame-channel clients into the simulation loop.
func NewScanHandler(scans services.ScanService, hub websocket.Hub, inputs chan<- types.InputMessage) *ScanHandler {
	return &ScanHandler{
		scans:  scans,
		hub:    hub,
		inputs: inputs,
	}
}

// QueueScan queues a scan of the configured library root, or of the root
// given in the request body
func (h *ScanHandler) QueueScan(c *gin.Context) {
	var body struct {
		Root string `json:"root"`
	}
	// Body is optional; an empty POST rescans the configured root
	_ = c.ShouldBindJSON(&body)

	root := body.Root
	if root == "" {
		root = config.GetLibraryRoot()
	}

	job := h.scans.QueueScan(root)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Library scan queued successfully",
		"job":     job,
	})
}

// GetAllJobs returns all scan jobs
func (h *ScanHandler) GetAllJobs(c *gin.Context) {
	jobs := h.scans.GetAllJobs()
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJob returns a specific scan job by ID
func (h *ScanHandler) GetJob(c *gin.Context) {
	jobID := c.Param("jobId")
	job, exists := h.scans.GetJob(jobID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "job not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job": job,
	})
}

// HandleScanWebSocket streams scan progress to a connected client
func (h *ScanHandler) HandleScanWebSocket(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, types.ChannelScan, nil)
	h.hub.RegisterClient(client)
	client.StartPumps()
}

// HandleFramesWebSocket attaches a renderer: scene and frame messages go
// out, pointer input comes back
func (h *ScanHandler) HandleFramesWebSocket(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, types.ChannelFrames, h.inputs)
	h.hub.RegisterClient(client)
	client.StartPumps()
}
