// Package stream broadcasts world snapshots to websocket viewers
package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/bounce/engine"
	"github.com/lixenwraith/bounce/parameter"
)

var ErrHubClosed = errors.New("stream: hub closed")

// Hub fans out the latest snapshot to every connected viewer
// Viewers only read; a slow viewer skips frames rather than stalling the simulation
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	latest      []byte
	closed      bool

	upgrader  websocket.Upgrader
	writeWait time.Duration
}

type subscriber struct {
	conn *websocket.Conn
	// send holds at most one pending frame, newer frames replace it
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewHub creates a hub accepting connections from any origin
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  parameter.StreamReadBufferSize,
			WriteBufferSize: parameter.StreamWriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		writeWait: parameter.StreamWriteWait,
	}
}

// ServeHTTP upgrades the request and streams snapshots until the viewer leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream: upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}
	if !h.register(sub) {
		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
		conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(h.writeWait))
		conn.Close()
		return
	}
	log.Printf("stream: viewer %s connected", r.RemoteAddr)

	go h.writePump(sub)

	// Inbound messages are ignored, reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(sub)
	log.Printf("stream: viewer %s disconnected", r.RemoteAddr)
}

// Broadcast marshals snap and queues it for every viewer
func (h *Hub) Broadcast(snap engine.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("stream: marshal snapshot: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	h.latest = data
	for sub := range h.subscribers {
		sub.offer(data)
	}
	return nil
}

// Clients returns the number of connected viewers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every viewer and rejects further broadcasts
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subscribers {
		sub.stop()
		delete(h.subscribers, sub)
	}
}

func (h *Hub) register(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subscribers[sub] = struct{}{}
	if h.latest != nil {
		sub.offer(h.latest)
	}
	return true
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	sub.stop()
}

func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()
	for {
		select {
		case data := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("stream: write failed: %v", err)
				h.unregister(sub)
				return
			}
		case <-sub.done:
			message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			sub.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(h.writeWait))
			return
		}
	}
}

// offer queues data, replacing a frame the writer has not picked up yet
// Callers hold the hub lock so offers never race each other
func (s *subscriber) offer(data []byte) {
	select {
	case s.send <- data:
		return
	default:
	}
	select {
	case <-s.send:
	default:
	}
	select {
	case s.send <- data:
	default:
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}
