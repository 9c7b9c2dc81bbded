package webapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lcalzada-xor/wmap/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// message is the websocket envelope: Type names the event, Payload carries
// the entry.
type message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans out AP and client snapshots to every connected websocket
// client.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// NotifyAP broadcasts an AP snapshot; it is sent on every call, not only
// for newly created or newly beacon-parsed APs.
func (h *Hub) NotifyAP(ap store.APEntry) {
	h.broadcast(message{Type: "ap", Payload: ap})
}

// NotifyClient broadcasts a client snapshot on every call.
func (h *Hub) NotifyClient(c store.ClientEntry) {
	h.broadcast(message{Type: "client", Payload: c})
}

func (h *Hub) broadcast(msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
