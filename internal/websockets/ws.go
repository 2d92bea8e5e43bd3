package websockets

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal"
	"github.com/scythe504/typerace-backend/internal/metrics"
	"github.com/scythe504/typerace-backend/internal/utils"
)

// Handler receives inbound frames. HandleMessage is called from the
// connection's read loop, so frames of one connection arrive in order.
type Handler interface {
	HandleMessage(ctx context.Context, token string, raw []byte)
	HandleDisconnect(token string)
}

type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  64 * 1024, // a full match log
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// Hub owns every websocket connection and the room groups used for
// room-wide emits. Emits never block: a client whose send buffer is full is
// disconnected.
type Hub struct {
	upgrader websocket.Upgrader
	config   Config
	handler  Handler

	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]struct{}
}

// Client is one connected participant. ID is the participant token.
type Client struct {
	ID          string
	ConnectedAt time.Time

	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(config Config) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:  config,
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]struct{}),
	}
}

// SetHandler must be called before the hub serves connections.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// ServeWS upgrades the request, assigns a fresh token and announces it to the
// client with a connected event.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		ID:          utils.GenerateClientID(),
		ConnectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, h.config.SendBufferSize),
		hub:         h,
		ctx:         ctx,
		cancel:      cancel,
	}

	h.register(client)
	h.EmitTo(client.ID, internal.EventConnected, internal.ConnectedData{ID: client.ID})

	go client.writePump()
	go client.readPump()

	log.Info().
		Str("token", client.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("websocket connection established")
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	metrics.ConnectedClients.Inc()
}

// unregister removes the client once and reports whether it was present.
func (h *Hub) unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return false
	}
	delete(h.clients, c.ID)
	for roomID, members := range h.groups {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.groups, roomID)
		}
	}
	close(c.send)
	c.cancel()
	metrics.ConnectedClients.Dec()
	return true
}

func (h *Hub) Join(roomID, token string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[roomID] == nil {
		h.groups[roomID] = make(map[string]struct{})
	}
	h.groups[roomID][token] = struct{}{}
}

func (h *Hub) Leave(roomID string) {
	h.mu.Lock()
	delete(h.groups, roomID)
	h.mu.Unlock()
}

func (h *Hub) EmitToRoom(roomID, event string, data any) {
	payload, ok := encode(event, data)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for token := range h.groups[roomID] {
		if c, ok := h.clients[token]; ok {
			h.enqueue(c, payload)
		}
	}
}

func (h *Hub) EmitTo(token, event string, data any) {
	payload, ok := encode(event, data)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[token]
	if !ok {
		log.Debug().Str("token", token).Str("event", event).Msg("emit to unknown client dropped")
		return
	}
	h.enqueue(c, payload)
}

// enqueue runs under h.mu read lock, so the send channel cannot be closed
// concurrently.
func (h *Hub) enqueue(c *Client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		// Closing the conn ends the read loop, which unregisters the client
		// and reports the disconnect outside of any room lock.
		log.Warn().Str("token", c.ID).Msg("client send buffer full, closing connection")
		_ = c.conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every connection. Each read loop then reports its disconnect.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
	log.Info().Int("connections", len(conns)).Msg("websocket hub closed")
}

func encode(event string, data any) ([]byte, bool) {
	payload, err := json.Marshal(internal.Message[any]{Type: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal outbound event")
		return nil, false
	}
	return payload, true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("token", c.ID).Msg("failed to write message")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("token", c.ID).Msg("failed to send ping")
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		_ = c.conn.Close()
		if c.hub.unregister(c) {
			if c.hub.handler != nil {
				c.hub.handler.HandleDisconnect(c.ID)
			}
			log.Info().Str("token", c.ID).Msg("websocket connection closed")
		}
	}()

	c.conn.SetReadLimit(c.hub.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("token", c.ID).Msg("unexpected websocket close")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))

		if c.hub.handler != nil {
			c.hub.handler.HandleMessage(c.ctx, c.ID, raw)
		}
	}
}
