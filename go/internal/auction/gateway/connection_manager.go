package gateway

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Session is one live client that can receive broadcast frames.
type Session interface {
	ID() string
	// Enqueue hands msg to the session without blocking. It reports false when
	// the session is closed or its queue is full.
	Enqueue(msg []byte) bool
	Close()
}

// ConnectionManager is the registry of live sessions
type ConnectionManager struct {
	sessions map[Session]struct{}
	mu       sync.RWMutex

	// Upgrader for WebSocket connections
	upgrader websocket.Upgrader

	config ConnectionConfig
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	manager *ConnectionManager

	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024, // clients only send keep-alive text
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	if config.SendBufferSize <= 0 {
		config.SendBufferSize = 256
	}
	return &ConnectionManager{
		sessions: make(map[Session]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket. join runs before
// the pumps start; it is expected to queue the initial snapshot and register
// the connection. If join fails the connection is closed.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, join func(*Connection) error) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		id:          uuid.New().String(),
		conn:        conn,
		send:        make(chan []byte, cm.config.SendBufferSize),
		done:        make(chan struct{}),
		manager:     cm,
		ConnectedAt: time.Now(),
	}

	if err := join(connection); err != nil {
		connection.Close()
		return fmt.Errorf("failed to join session: %w", err)
	}

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.id).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")

	return nil
}

// Register adds a session to the registry
func (cm *ConnectionManager) Register(s Session) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.sessions[s] = struct{}{}

	log.Debug().
		Str("connection_id", s.ID()).
		Int("total_connections", len(cm.sessions)).
		Msg("connection registered")
}

// Unregister removes a session. It reports whether the session was registered.
func (cm *ConnectionManager) Unregister(s Session) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.sessions[s]; !exists {
		return false
	}
	delete(cm.sessions, s)

	log.Info().
		Str("connection_id", s.ID()).
		Int("total_connections", len(cm.sessions)).
		Msg("connection unregistered")
	return true
}

// Snapshot returns the sessions registered right now. Sessions registered
// afterwards are not included.
func (cm *ConnectionManager) Snapshot() []Session {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	out := make([]Session, 0, len(cm.sessions))
	for s := range cm.sessions {
		out = append(out, s)
	}
	return out
}

// ForEach calls fn for every session in a membership snapshot, without holding the lock
func (cm *ConnectionManager) ForEach(fn func(Session)) {
	for _, s := range cm.Snapshot() {
		fn(s)
	}
}

// Count returns the number of registered sessions
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.sessions)
}

// CloseAll closes and unregisters every session
func (cm *ConnectionManager) CloseAll() {
	cm.ForEach(func(s Session) {
		cm.Unregister(s)
		s.Close()
	})
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() map[string]interface{} {
	return map[string]interface{}{
		"total_connections": cm.Count(),
	}
}

// ID returns the connection's unique identifier
func (c *Connection) ID() string {
	return c.id
}

// Enqueue queues msg for the write pump
func (c *Connection) Enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close stops both pumps and closes the socket. Safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.manager.Unregister(c)
		c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.id).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.id).
					Msg("failed to send ping")
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// readPump is the session's only long-lived wait. It ends on disconnect or
// transport error and unregisters the session.
func (c *Connection) readPump() {
	defer func() {
		c.manager.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(c.manager.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Warn().
					Err(err).
					Str("connection_id", c.id).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		// Clients only send keep-alive text; nothing is acted on.
		log.Debug().
			Str("connection_id", c.id).
			Int("bytes", len(message)).
			Msg("received client message")
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	}
}
