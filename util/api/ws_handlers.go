package api

import (
	"net/http"
	"sync"
	"time"

	"campus-events/metrics"
	"campus-events/rules"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// upgrader accepts requests without an Origin header (non-browser clients)
// and browser requests from the configured CORS origins.
func (h *Handlers) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			log.Printf("WebSocket origin %q rejected", origin)
			return false
		},
	}
}

// client queues outgoing messages for its writer goroutine, the only writer
// on conn. A client whose queue is full is dropped.
type client struct {
	userID int64
	conn   *websocket.Conn
	send   chan WSMessage
	done   chan struct{}
	once   sync.Once
}

func newClient(userID int64, conn *websocket.Conn) *client {
	return &client{
		userID: userID,
		conn:   conn,
		send:   make(chan WSMessage, sendBuffer),
		done:   make(chan struct{}),
	}
}

// enqueue never blocks. It reports false when the queue is full.
func (c *client) enqueue(msg WSMessage) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *client) writePump(h *Hub) {
	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("Error sending %s to user %d: %v", msg.Type, c.userID, err)
				h.remove(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// Hub tracks live WebSocket connections per user and pushes engine events to
// them. It satisfies rules.Publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*client]struct{})}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	h.mu.Unlock()
	metrics.WSConnected(1)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userID]
	if ok {
		if _, present := conns[c]; !present {
			ok = false
		}
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	if ok {
		metrics.WSConnected(-1)
		c.once.Do(func() { close(c.done) })
		if c.conn != nil {
			c.conn.Close()
		}
	}
}

// Connected reports how many connections userID currently holds.
func (h *Hub) Connected(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) snapshot(userID int64) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []*client
	if userID != 0 {
		for c := range h.clients[userID] {
			out = append(out, c)
		}
		return out
	}
	for _, conns := range h.clients {
		for c := range conns {
			out = append(out, c)
		}
	}
	return out
}

// SendToUser queues a message for every connection of one user. Stalled
// connections are dropped.
func (h *Hub) SendToUser(userID int64, msgType string, payload interface{}) {
	if userID == 0 {
		return
	}
	h.deliver(h.snapshot(userID), WSMessage{Type: msgType, Data: payload})
}

// Broadcast queues a message for every connected user.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	h.deliver(h.snapshot(0), WSMessage{Type: msgType, Data: payload})
}

func (h *Hub) deliver(targets []*client, msg WSMessage) {
	for _, c := range targets {
		if !c.enqueue(msg) {
			log.Printf("Send queue full for user %d, dropping connection", c.userID)
			h.remove(c)
		}
	}
}

// WebSocketHandler upgrades an authenticated request and keeps the connection
// registered until the client goes away. The session comes from the token
// query parameter or the session cookie.
func (h *Handlers) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	userID := int64(0)
	if token := r.URL.Query().Get("token"); token != "" {
		userID = h.Sessions.UserID(token)
	}
	if userID == 0 {
		userID = h.Sessions.UserIDFromRequest(r)
	}
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Loaded before the upgrade; the request context is not used after hijacking.
	count, countErr := h.Engine.UnreadCount(r.Context(), userID)
	if countErr != nil {
		log.Printf("Error loading unread count for user %d: %v", userID, countErr)
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	c := newClient(userID, conn)
	h.Hub.add(c)
	go c.writePump(h.Hub)
	log.Printf("User %d connected via WebSocket", userID)
	defer func() {
		h.Hub.remove(c)
		log.Printf("User %d disconnected from WebSocket", userID)
	}()

	c.enqueue(WSMessage{Type: "connected", Data: map[string]string{"status": "connected"}})
	if countErr == nil {
		c.enqueue(WSMessage{Type: rules.MsgUnreadCount, Data: count})
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error for user %d: %v", userID, err)
			}
			return
		}

		switch msg.Type {
		case "ping":
			c.enqueue(WSMessage{Type: "pong", Data: map[string]string{"status": "alive"}})
		case "heartbeat":
			c.enqueue(WSMessage{Type: "heartbeat_ack", Data: map[string]int64{"timestamp": time.Now().Unix()}})
		default:
			c.enqueue(WSMessage{Type: "error", Data: "Unknown message type: " + msg.Type})
		}
	}
}
