package realtime

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// writeWait bounds a single push attempt so one slow subscriber cannot stall
// the write pump indefinitely.
const writeWait = 10 * time.Second

// sendBuffer is the per-client queue depth. A subscriber that cannot drain
// this many snapshots is treated as failed.
const sendBuffer = 8

// Conn is the subset of a websocket connection the hub needs. Satisfied by
// *websocket.Conn; faked in tests.
type Conn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Message is the envelope pushed to subscribers.
type Message struct {
	Type      string    `json:"type"` // "initial_data" or "data_update"
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is one registered subscriber: a live connection plus its
// monotonically assigned id. A client never outlives its connection.
type Client struct {
	ID   int64
	hub  *Hub
	conn Conn
	send chan Message
}

// Hub owns the set of live subscribers. It is the only mutable shared state
// between the request path and the broadcast loop; every mutation happens
// under its mutex.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
	nextID  atomic.Int64
	logger  *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		logger:  logger,
	}
}

// Register adds a connection as an active subscriber and returns its client.
// The caller starts the write pump; nothing is pushed by Register itself.
func (h *Hub) Register(conn Conn) *Client {
	client := &Client{
		ID:   h.nextID.Add(1),
		hub:  h,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"client_id":    client.ID,
		"client_count": count,
	}).Info("Subscriber connected")

	return client
}

// Unregister removes a subscriber and closes its connection. Idempotent:
// unregistering an already-removed client is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	registered := h.clients[client]
	if registered {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !registered {
		return
	}
	client.conn.Close()

	h.logger.WithFields(logrus.Fields{
		"client_id":    client.ID,
		"client_count": count,
	}).Info("Subscriber disconnected")
}

// Broadcast queues a message for every active subscriber. A subscriber whose
// queue is full is treated as failed and removed immediately, so it is
// excluded from this and all future ticks; the remaining subscribers are
// unaffected.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
			client.conn.Close()
			h.logger.WithFields(logrus.Fields{
				"client_id": client.ID,
			}).Warn("Subscriber send queue full, dropping client")
		}
	}
}

// ClientCount returns the number of active subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown disconnects every subscriber.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.Unregister(client)
	}
}

// WritePump drains the client's queue onto the connection. Runs in its own
// goroutine per client; a write failure removes the client.
func (c *Client) WritePump() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			c.hub.logger.WithError(err).WithFields(logrus.Fields{
				"client_id": c.ID,
			}).Warn("Subscriber write failed")
			c.hub.Unregister(c)
			return
		}
	}
}
