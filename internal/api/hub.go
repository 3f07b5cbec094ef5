package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/logger"
	"github.com/ytget/yt-queue/internal/model"
)

// Websocket timings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// KindSnapshot is the first message on every connection
const KindSnapshot = "snapshot"

var errHubClosed = errors.New("hub closed")

type snapshotMessage struct {
	Kind      string            `json:"kind"`
	Downloads []*model.Download `json:"downloads"`
	Stats     model.Stats       `json:"stats"`
}

// Hub fans coordinator events out to websocket clients
type Hub struct {
	downloads   download.Downloader
	upgrader    websocket.Upgrader
	unsubscribe func()

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	log zerolog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub subscribes to the coordinator right away
func NewHub(downloads download.Downloader) *Hub {
	h := &Hub{
		downloads: downloads,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		log:     logger.Get("ws"),
	}
	h.unsubscribe = downloads.Subscribe(h.broadcast)
	return h
}

// Run closes the hub when ctx ends
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.Close()
}

// Close unsubscribes from the coordinator and disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.unsubscribe()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// broadcast runs on the coordinator's goroutine and never blocks; slow
// clients lose messages
func (h *Hub) broadcast(ev download.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode event")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("client too slow, dropping event")
		}
	}
}

// ServeWS upgrades the request and streams events until the client leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	if err := h.register(c); err != nil {
		h.log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("client rejected")
		conn.Close()
		return
	}
	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	go c.writePump()
	c.readPump()
	h.unregister(c)
}

// register queues the snapshot and adds c under the same lock broadcast
// takes, so every event after the snapshot reaches the client
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errHubClosed
	}
	snapshot, err := json.Marshal(snapshotMessage{
		Kind:      KindSnapshot,
		Downloads: h.downloads.List(),
		Stats:     h.downloads.Stats(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	c.send <- snapshot
	h.clients[c] = struct{}{}
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards client messages and keeps the read deadline fresh
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
