package httpserver

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The HTTP surface is origin-permissive; the socket matches it.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsPeer adapts a websocket connection to the hub's Peer contract.
// The mutex serializes writes: gorilla permits one concurrent writer.
type wsPeer struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *wsPeer) ID() string { return p.id }

func (p *wsPeer) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func (p *wsPeer) write(messageType int, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(messageType, data)
}

// handleWebSocket upgrades the connection, registers it with the broadcast
// hub, and echoes any client message back verbatim until the peer
// disconnects.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	peer := &wsPeer{id: uuid.NewString(), conn: conn}
	s.hub.Add(peer)
	log.Printf("ws: new connection %s", peer.id)

	defer func() {
		s.hub.Remove(peer)
		conn.Close()
		log.Printf("ws: connection closed %s", peer.id)
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		// Liveness diagnostic, not part of the log protocol.
		if err := peer.write(messageType, data); err != nil {
			return
		}
	}
}
