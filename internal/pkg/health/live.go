package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// DeliveryEvent is broadcast to every connected /live client whenever
// the pipeline decides a pick's fate. This is pure ops visibility — it
// is never consulted by the delivery path, so a slow or absent reader
// here cannot affect correctness or at-most-once delivery.
type DeliveryEvent struct {
	RecordID string  `json:"record_id"`
	Outcome  string  `json:"outcome"` // sent, dropped_overflow, dropped_error, dropped_below-min-odds, dropped_sharp-too-skewed, dropped_stake-tier-range
	Profit   float64 `json:"profit,omitempty"`
}

// liveHub fans DeliveryEvents out to connected websocket clients.
// Grounded on XavierBriggs-Services/ws-broadcaster's hub shape.
type liveHub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     *slog.Logger
}

func newLiveHub(log *slog.Logger) *liveHub {
	return &liveHub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
		log:      log,
	}
}

func (h *liveHub) serveHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("health: websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Drain and discard inbound frames until the client disconnects;
	// this is a broadcast-only endpoint.
	go func() {
		defer h.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *liveHub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast writes event to every connected client in turn, removing any
// whose write fails. Writes carry no deadline, so the call returns only
// once every client's write has returned.
func (h *liveHub) broadcast(event DeliveryEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.removeClient(c)
		}
	}
}
