// Package feed pushes live board updates to websocket clients.
package feed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

const (
	defaultBufferSize   = 4
	defaultWriteTimeout = 5 * time.Second
	pongWait            = 60 * time.Second
	pingPeriod          = pongWait * 9 / 10
	maxReadBytes        = 512
)

// Source is the board the hub follows.
type Source interface {
	Board(ctx context.Context) types.BoardView
	Subscribe() (<-chan types.BoardView, func())
}

// Message is the envelope written to clients.
type Message struct {
	Type string          `json:"type"`
	Data types.BoardView `json:"data"`
}

// Hub fans board updates out to connected websocket clients. A client
// whose buffer is full is disconnected instead of slowing the others.
type Hub struct {
	src      Source
	log      logger.Logger
	upgrader websocket.Upgrader

	bufferSize   int
	writeTimeout time.Duration

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan Message
	once sync.Once
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}

// WithBufferSize sets how many updates may queue per client before it is dropped.
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithWriteTimeout bounds each websocket write.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.writeTimeout = d
		}
	}
}

// WithCheckOrigin sets the upgrade origin check. The default accepts any origin.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Hub) {
		if fn != nil {
			h.upgrader.CheckOrigin = fn
		}
	}
}

// NewHub creates a hub following src.
func NewHub(src Source, opts ...Option) *Hub {
	h := &Hub{
		src:          src,
		upgrader:     websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		bufferSize:   defaultBufferSize,
		writeTimeout: defaultWriteTimeout,
		clients:      make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.Get()
	}
	return h
}

// Run forwards board updates until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) error {
	updates, cancel := h.src.Subscribe()
	defer cancel()
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case board, ok := <-updates:
			if !ok {
				return nil
			}
			h.broadcast(Message{Type: "board", Data: board})
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams the board, starting with the current one.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.Debug(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan Message, h.bufferSize)}
	if !h.register(c) {
		_ = conn.Close()
		return
	}
	// Registered before the read so no update between the two is missed.
	h.enqueue(c, Message{Type: "board", Data: h.src.Board(r.Context())})

	go h.writeLoop(c)
	h.readLoop(r.Context(), c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.UpdateFeedClients(len(h.clients))
	return true
}

// unregister removes c and closes its queue; safe to call more than once.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.once.Do(func() { close(c.send) })
	metrics.UpdateFeedClients(len(h.clients))
}

func (h *Hub) broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.sendLocked(c, msg)
	}
}

// enqueue queues msg for c if it is still connected.
func (h *Hub) enqueue(c *client, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.sendLocked(c, msg)
	}
}

func (h *Hub) sendLocked(c *client, msg Message) {
	select {
	case c.send <- msg:
	default:
		metrics.RecordFeedDrop()
		h.log.Warn(context.Background(), "dropping slow feed client",
			logger.String("remote", c.conn.RemoteAddr().String()))
		h.removeLocked(c)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// writeLoop owns all writes to the connection.
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

// readLoop discards client frames and returns when the connection ends.
func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxReadBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug(ctx, "feed client read failed", logger.Error(err))
			}
			return
		}
	}
}
