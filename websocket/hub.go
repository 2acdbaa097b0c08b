package websocket

import (
	"log"
	"sync"
	"time"

	"nocturne/types"
)

// Hub interface defines the methods for managing WebSocket connections
type Hub interface {
	Run()
	BroadcastScene(msg types.SceneMessage)
	BroadcastFrame(msg types.FrameMessage)
	BroadcastScanProgress(msg types.ScanProgressMessage)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
}

// envelope pairs a message with the channel it targets
type envelope struct {
	channel string
	payload interface{}
}

// hub maintains the set of active clients and broadcasts messages to them
type hub struct {
	// Registered clients mapped by subscription channel
	clients map[string]map[*Client]bool

	// Broadcast channel for sending messages to a channel's clients
	broadcast chan envelope

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.channel] == nil {
				h.clients[client.channel] = make(map[*Client]bool)
			}
			h.clients[client.channel][client] = true
			h.mu.Unlock()
			log.Printf("WebSocket client connected on channel %s", client.channel)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.channel]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.channel)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected from channel %s", client.channel)

		case message := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[message.channel]; ok {
				for client := range clients {
					select {
					case client.send <- message.payload:
					default:
						close(client.send)
						delete(clients, client)
					}
				}
				if len(clients) == 0 {
					delete(h.clients, message.channel)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastScene pushes a full scene rebuild to frame subscribers
func (h *hub) BroadcastScene(msg types.SceneMessage) {
	msg.Type = "scene"
	msg.Timestamp = time.Now()
	h.send(types.ChannelFrames, msg)
}

// BroadcastFrame pushes per-frame state to frame subscribers. Frames are
// droppable; a missed one is superseded ~33ms later.
func (h *hub) BroadcastFrame(msg types.FrameMessage) {
	msg.Type = "frame"
	h.send(types.ChannelFrames, msg)
}

// BroadcastScanProgress pushes a scan update to scan subscribers
func (h *hub) BroadcastScanProgress(msg types.ScanProgressMessage) {
	h.send(types.ChannelScan, msg)
}

// send queues a message for broadcast, dropping it if the hub is saturated
func (h *hub) send(channel string, payload interface{}) {
	select {
	case h.broadcast <- envelope{channel: channel, payload: payload}:
	default:
		log.Printf("WebSocket broadcast channel full, dropping %s message", channel)
	}
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
