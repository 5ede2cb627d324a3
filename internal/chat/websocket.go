package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"takeorder/internal/dialogue"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSConnection maintains the WebSocket connection with one client and
// implements dialogue.Surface for that client's session
type WSConnection struct {
	conn    *websocket.Conn
	send    chan []byte
	mu      sync.Mutex
	session *dialogue.Session
}

// Frame is one rendered message on the wire
type Frame struct {
	Role dialogue.Role `json:"role"`
	Text string        `json:"text"`
}

type inbound struct {
	Text string `json:"text"`
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := &WSConnection{
		conn: conn,
		send: make(chan []byte, 256),
	}
	wsConn.session = dialogue.NewSession(s.catalog, wsConn, s.gateway, s.store, s.monitor)

	// Start the read and write pumps
	go wsConn.writePump()
	go wsConn.readPump()

	wsConn.session.Greet()
}

// Render appends a message to the client's conversation log. Ordering
// is send order; a slow client drops messages rather than blocking the
// dialogue.
func (c *WSConnection) Render(text string, role dialogue.Role) {
	data, err := json.Marshal(Frame{Role: role, Text: text})
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case c.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping message")
	}
}

// readPump pumps utterances from the WebSocket connection into the
// dialogue session, one turn at a time
func (c *WSConnection) readPump() {
	defer func() {
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512 * 1024) // 512KB
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var in inbound
		if err := json.Unmarshal(message, &in); err != nil {
			// plain text frames are accepted as-is
			in.Text = string(message)
		}
		if in.Text == "" {
			continue
		}

		c.session.HandleInput(in.Text)
	}
}

// writePump pumps rendered messages to the WebSocket connection
func (c *WSConnection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The channel was closed
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
