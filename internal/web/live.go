package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"SoftWork/internal/model"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// liveUpdate is pushed to every websocket client after a state change.
type liveUpdate struct {
	Type     string            `json:"type"` // "snapshot"
	State    model.Snapshot    `json:"state"`
	Sections map[string]string `json:"sections"`
}

type liveClient struct {
	conn *websocket.Conn
	out  chan liveUpdate
}

// liveHub fans snapshots out to connected pages.
type liveHub struct {
	mu       sync.RWMutex
	clients  map[*liveClient]struct{}
	renderer *Renderer
	log      zerolog.Logger
}

func newLiveHub(renderer *Renderer, log zerolog.Logger) *liveHub {
	return &liveHub{
		clients:  make(map[*liveClient]struct{}),
		renderer: renderer,
		log:      log,
	}
}

func (h *liveHub) update(snap model.Snapshot) (liveUpdate, error) {
	sections, err := h.renderer.Sections(snap)
	if err != nil {
		return liveUpdate{}, err
	}
	return liveUpdate{Type: "snapshot", State: snap, Sections: sections}, nil
}

// Broadcast sends snap to every client; slow clients drop updates.
func (h *liveHub) Broadcast(snap model.Snapshot) {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n == 0 {
		return
	}
	msg, err := h.update(snap)
	if err != nil {
		h.log.Error().Err(err).Msg("render live update")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.out <- msg:
		default:
		}
	}
}

func (h *liveHub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll disconnects every client.
func (h *liveHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

func (h *liveHub) serveWS(current func() model.Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		cl := &liveClient{conn: conn, out: make(chan liveUpdate, 16)}

		if first, err := h.update(current()); err == nil {
			cl.out <- first
		}

		h.mu.Lock()
		h.clients[cl] = struct{}{}
		h.mu.Unlock()
		h.log.Debug().Str("remote", r.RemoteAddr).Msg("live client connected")

		done := make(chan struct{})
		go h.writeLoop(cl, done)

		// reader: only used to notice the client going away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		close(done)
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		_ = conn.Close()
		h.log.Debug().Str("remote", r.RemoteAddr).Msg("live client disconnected")
	}
}

func (h *liveHub) writeLoop(cl *liveClient, done <-chan struct{}) {
	ping := time.NewTicker(45 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case msg := <-cl.out:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := cl.conn.WriteJSON(msg); err != nil {
				_ = cl.conn.Close()
				return
			}
		case <-ping.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = cl.conn.Close()
				return
			}
		}
	}
}
