package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nocturne/types"
)

// WebSocket upgrader with CORS support
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin for development
		// In production, check against allowed origins
		return true
	},
}

// Client represents a WebSocket client connection subscribed to one
// channel. Frame-channel clients may also send pointer input upstream.
type Client struct {
	hub     Hub
	conn    *websocket.Conn
	send    chan interface{}
	channel string
	inputs  chan<- types.InputMessage
}

// NewClient creates a new WebSocket client. inputs may be nil for
// channels that carry no upstream traffic.
func NewClient(hub Hub, conn *websocket.Conn, channel string, inputs chan<- types.InputMessage) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan interface{}, 256),
		channel: channel,
		inputs:  inputs,
	}
}

// StartPumps starts the read and write pumps for the client
func (c *Client) StartPumps() {
	go c.writePump()
	go c.readPump()
}

// readPump handles reading from the WebSocket connection. Incoming
// messages on the frames channel are decoded as pointer input and handed
// to the simulation loop; input is dropped rather than blocking the pump.
func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg types.InputMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if c.inputs == nil || msg.Kind == "" {
			continue
		}
		select {
		case c.inputs <- msg:
		default:
		}
	}
}

// writePump handles writing to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// GetUpgrader returns the WebSocket upgrader
func GetUpgrader() websocket.Upgrader {
	return upgrader
}
