package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 512
)

// LiveClient represents a single connected preview tab.
type LiveClient struct {
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte
}

type publication struct {
	sessionID string
	message   []byte
}

// LiveBroadcaster manages preview clients per editor session and fans out
// every published render to them.
type LiveBroadcaster struct {
	sessionClients map[string]map[*LiveClient]bool
	register       chan *LiveClient
	unregister     chan *LiveClient
	publish        chan publication
	closeSession   chan string
	done           chan struct{}
	buffer         int
	logger         *logging.ChanneledLogger
	mu             sync.RWMutex
}

// NewLiveBroadcaster creates a new broadcaster instance. buffer sizes each
// client's send queue.
func NewLiveBroadcaster(logger *logging.ChanneledLogger, buffer int) *LiveBroadcaster {
	if buffer <= 0 {
		buffer = 16
	}
	return &LiveBroadcaster{
		sessionClients: make(map[string]map[*LiveClient]bool),
		register:       make(chan *LiveClient),
		unregister:     make(chan *LiveClient),
		publish:        make(chan publication, 64),
		closeSession:   make(chan string),
		done:           make(chan struct{}),
		buffer:         buffer,
		logger:         logger,
	}
}

// Run starts the broadcaster's main loop. It returns when ctx is cancelled,
// closing every client.
func (b *LiveBroadcaster) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for sessionID, clients := range b.sessionClients {
				for client := range clients {
					close(client.Send)
				}
				delete(b.sessionClients, sessionID)
			}
			b.mu.Unlock()
			b.logger.Live().Info("Live broadcaster stopped")
			return

		case client := <-b.register:
			b.mu.Lock()
			if _, ok := b.sessionClients[client.SessionID]; !ok {
				b.sessionClients[client.SessionID] = make(map[*LiveClient]bool)
			}
			b.sessionClients[client.SessionID][client] = true
			b.mu.Unlock()
			b.logger.Live().Debug("Live client registered", "sessionId", client.SessionID)

		case client := <-b.unregister:
			b.remove(client)
			b.logger.Live().Debug("Live client unregistered", "sessionId", client.SessionID)

		case sessionID := <-b.closeSession:
			b.mu.Lock()
			for client := range b.sessionClients[sessionID] {
				close(client.Send)
			}
			delete(b.sessionClients, sessionID)
			b.mu.Unlock()

		case p := <-b.publish:
			b.mu.RLock()
			for client := range b.sessionClients[p.sessionID] {
				select {
				case client.Send <- p.message:
				default:
					b.logger.Live().Warn("Live client queue full, message dropped", "sessionId", p.sessionID)
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *LiveBroadcaster) remove(client *LiveClient) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if clients, ok := b.sessionClients[client.SessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.Send)
			if len(clients) == 0 {
				delete(b.sessionClients, client.SessionID)
			}
		}
	}
}

// NewClient wraps conn for sessionID.
func (b *LiveBroadcaster) NewClient(conn *websocket.Conn, sessionID string) *LiveClient {
	return &LiveClient{Conn: conn, SessionID: sessionID, Send: make(chan []byte, b.buffer)}
}

// Register queues a client for registration.
func (b *LiveBroadcaster) Register(client *LiveClient) {
	select {
	case b.register <- client:
	case <-b.done:
		close(client.Send)
	}
}

// Unregister queues a client for unregistration.
func (b *LiveBroadcaster) Unregister(client *LiveClient) {
	select {
	case b.unregister <- client:
	case <-b.done:
	}
}

// Publish queues message for every client of sessionID without blocking the
// caller; when the queue is full the message is dropped.
func (b *LiveBroadcaster) Publish(sessionID string, message []byte) {
	select {
	case b.publish <- publication{sessionID: sessionID, message: message}:
	default:
		b.logger.Live().Warn("Live publish queue full, message dropped", "sessionId", sessionID)
	}
}

// CloseSession disconnects every client watching sessionID.
func (b *LiveBroadcaster) CloseSession(sessionID string) {
	select {
	case b.closeSession <- sessionID:
	case <-b.done:
	}
}

// ClientCount returns the number of clients watching sessionID.
func (b *LiveBroadcaster) ClientCount(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessionClients[sessionID])
}

// WritePump forwards queued messages to the socket and keeps it alive with
// pings. It owns all writes to Conn.
func (c *LiveClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains client frames until the connection drops, then
// unregisters the client. Preview clients send nothing but pongs.
func (c *LiveClient) ReadPump(b *LiveBroadcaster) {
	defer func() {
		b.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessage)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
