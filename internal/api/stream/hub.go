// Package stream pushes simulation frames to websocket subscribers.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"darkstore-sim/internal/platform/metrics"
	"darkstore-sim/internal/ports"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub fans frames out to every connected client. Publish never blocks:
// when the broadcast queue is full the frame is dropped, and a client
// whose send buffer is full is disconnected.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan ports.Frame

	upgrader websocket.Upgrader

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

var _ ports.SnapshotPublisher = (*Hub)(nil)

func NewHub(ctx context.Context) *Hub {
	ctx, cancel := context.WithCancel(ctx)
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 10),
		unregister: make(chan *Client, 10),
		broadcast:  make(chan ports.Frame, 16),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run() {
	log.Info().Msg("stream hub started")
	defer log.Info().Msg("stream hub stopped")
	defer h.closeAll()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case frame := <-h.broadcast:
			h.broadcastFrame(frame)
		}
	}
}

func (h *Hub) Shutdown() {
	h.cancel()
}

func (h *Hub) Publish(f ports.Frame) {
	select {
	case h.broadcast <- f:
	default:
		log.Debug().Int("tick", f.Snapshot.Tick).Msg("stream broadcast queue full, frame dropped")
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// ClientCount reports connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(h, conn)
	h.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = struct{}{}
	metrics.StreamClients.Set(float64(len(h.clients)))
	log.Info().Int("clients", len(h.clients)).Msg("stream client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.close()
	metrics.StreamClients.Set(float64(len(h.clients)))
	log.Info().Int("clients", len(h.clients)).Msg("stream client disconnected")
}

func (h *Hub) broadcastFrame(f ports.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		log.Error().Err(err).Int("tick", f.Snapshot.Tick).Msg("encode stream frame")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// slow consumer
			delete(h.clients, client)
			client.close()
			log.Warn().Msg("stream client too slow, disconnected")
		}
	}
	metrics.StreamClients.Set(float64(len(h.clients)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		client.close()
	}
	metrics.StreamClients.Set(0)
}
