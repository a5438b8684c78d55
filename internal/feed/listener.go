// ABOUTME: WebSocket client for the event feed
// ABOUTME: Handles connection, handshake, and event delivery
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Resonate-Protocol/clipscope/internal/protocol"
)

// ListenerConfig holds listener configuration
type ListenerConfig struct {
	ServerAddr string // host:port
	Path       string // default "/events"
	ClientID   string // default: random UUID
	Name       string
}

// Listener receives events from a feed server
type Listener struct {
	config ListenerConfig
	conn   *websocket.Conn
	mu     sync.RWMutex

	// Events delivers every message after server/hello. It is closed when
	// the connection ends.
	Events chan protocol.Envelope

	hello protocol.ServerHello

	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewListener creates a listener
func NewListener(config ListenerConfig) *Listener {
	if config.Path == "" {
		config.Path = "/events"
	}
	if config.ClientID == "" {
		config.ClientID = uuid.New().String()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Listener{
		config: config,
		Events: make(chan protocol.Envelope, 100),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect dials the server and performs the handshake
func (l *Listener) Connect() error {
	u := url.URL{Scheme: "ws", Host: l.config.ServerAddr, Path: l.config.Path}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	l.mu.Lock()
	l.conn = conn
	l.connected = true
	l.mu.Unlock()

	if err := l.handshake(); err != nil {
		l.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go l.readMessages()

	return nil
}

// handshake sends client/hello and waits for server/hello
func (l *Listener) handshake() error {
	msg := protocol.Message{
		Type: protocol.TypeClientHello,
		Payload: protocol.ClientHello{
			ClientID: l.config.ClientID,
			Name:     l.config.Name,
			Version:  protocol.Version,
		},
	}

	if err := l.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send client/hello: %w", err)
	}

	l.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env protocol.Envelope
	if err := l.conn.ReadJSON(&env); err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	l.conn.SetReadDeadline(time.Time{})

	switch env.Type {
	case protocol.TypeServerHello:
	case protocol.TypeServerError:
		var serverErr protocol.ServerError
		env.Decode(&serverErr)
		return fmt.Errorf("server rejected connection: %s", serverErr.Message)
	default:
		return fmt.Errorf("expected server/hello, got %s", env.Type)
	}

	if err := env.Decode(&l.hello); err != nil {
		return fmt.Errorf("failed to parse server/hello: %w", err)
	}

	log.Printf("Handshake complete with %s", l.hello.Name)
	return nil
}

// Hello returns the server's handshake response
func (l *Listener) Hello() protocol.ServerHello {
	return l.hello
}

// readMessages reads events until the connection ends
func (l *Listener) readMessages() {
	defer close(l.Events)
	defer l.Close()

	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			select {
			case <-l.ctx.Done():
			default:
				log.Printf("Read error: %v", err)
			}
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("Failed to parse JSON message: %v", err)
			continue
		}

		select {
		case l.Events <- env:
		case <-l.ctx.Done():
			return
		}
	}
}

// Close closes the connection
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		l.connected = false
		l.cancel()
		l.conn.Close()
		log.Printf("Connection closed")
	}
}

// IsConnected returns connection status
func (l *Listener) IsConnected() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.connected
}
