package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer  = 64
	eventBuffer = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type EventKind string

const (
	ExportProgress EventKind = "export_progress"
	ExportComplete EventKind = "export_complete"
	ExportFailed   EventKind = "export_failed"
)

// Event is one export notification as it goes over the wire.
type Event struct {
	Type     EventKind `json:"type"`
	ExportID string    `json:"export_id"`
	Data     any       `json:"data"`
}

// Hub pushes export events to browsers. A socket opened with ?export_id=
// only hears about that export; a bare /ws hears about all of them.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}

	join   chan *subscriber
	leave  chan *subscriber
	events chan Event
	done   chan struct{}
}

type subscriber struct {
	hub      *Hub
	conn     *websocket.Conn
	out      chan Event
	exportID string
}

func (s *subscriber) wants(ev Event) bool {
	return s.exportID == "" || s.exportID == ev.ExportID
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		join:        make(chan *subscriber),
		leave:       make(chan *subscriber),
		events:      make(chan Event, eventBuffer),
		done:        make(chan struct{}),
	}
}

// Run owns the subscriber set until ctx is cancelled, then closes every socket.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case s := <-h.join:
			h.mu.Lock()
			h.subscribers[s] = struct{}{}
			h.mu.Unlock()

		case s := <-h.leave:
			h.mu.Lock()
			h.drop(s)
			h.mu.Unlock()

		case ev := <-h.events:
			h.mu.Lock()
			for s := range h.subscribers {
				if !s.wants(ev) {
					continue
				}
				select {
				case s.out <- ev:
				default:
					slog.Warn("websocket subscriber lagging, disconnecting", "export_id", s.exportID)
					h.drop(s)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(s *subscriber) {
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.out)
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subscribers))
	for s := range h.subscribers {
		conns = append(conns, s.conn)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

// Publish queues ev for delivery and never blocks the export worker.
func (h *Hub) Publish(ev Event) {
	select {
	case h.events <- ev:
	default:
		slog.Warn("websocket event queue full, dropping event", "type", ev.Type, "export_id", ev.ExportID)
	}
}

// Clients returns the number of open subscriptions.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	s := &subscriber{
		hub:      h,
		conn:     conn,
		out:      make(chan Event, sendBuffer),
		exportID: r.URL.Query().Get("export_id"),
	}
	select {
	case h.join <- s:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go s.write()
	go s.read()
}

// read only services control frames; clients never send events.
func (s *subscriber) read() {
	defer func() {
		select {
		case s.hub.leave <- s:
		case <-s.hub.done:
		}
		_ = s.conn.Close()
	}()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "error", err)
			}
			return
		}
	}
}

func (s *subscriber) write() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				slog.Warn("websocket write error", "error", err, "type", ev.Type)
				return
			}

		case <-s.hub.done:
			return

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
