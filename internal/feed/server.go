// ABOUTME: WebSocket event feed server
// ABOUTME: Broadcasts inspector events to connected listeners
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Resonate-Protocol/clipscope/internal/discovery"
	"github.com/Resonate-Protocol/clipscope/internal/protocol"
	"github.com/Resonate-Protocol/clipscope/internal/version"
)

// Config holds feed server configuration
type Config struct {
	Port       int    // 0 picks a free port
	Name       string // advertised name
	Path       string // WebSocket path, default "/events"
	EnableMDNS bool

	// PlayheadInterval limits playhead/update messages (default: 50ms)
	PlayheadInterval time.Duration
}

// Server is the event feed
type Server struct {
	config   Config
	serverID string

	upgrader websocket.Upgrader

	httpServer *http.Server
	mux        *http.ServeMux
	listener   net.Listener

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// Last clip/selected and playback/state, replayed to new listeners
	retained   map[string]protocol.Message
	retainedMu sync.Mutex

	current      current
	lastPlayhead time.Time // guarded by current.mu

	mdnsManager *discovery.Manager

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client is a connected listener
type Client struct {
	ID   string
	Name string
	Conn *websocket.Conn

	sendChan chan interface{}
}

// New creates a feed server
func New(config Config) *Server {
	if config.Path == "" {
		config.Path = "/events"
	}
	if config.Name == "" {
		config.Name = version.Product
	}
	if config.PlayheadInterval <= 0 {
		config.PlayheadInterval = 50 * time.Millisecond
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Listeners are local tools; browsers on any origin may read the feed
				return true
			},
		},
		clients:  make(map[string]*Client),
		retained: make(map[string]protocol.Message),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(config.Path, s.handleWebSocket)
	return s
}

// Handler returns the HTTP handler serving the feed
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Listen binds the feed port. Start calls it if needed; calling it first
// lets callers learn the port before serving.
func (s *Server) Listen() (int, error) {
	if s.listener != nil {
		return s.listener.Addr().(*net.TCPAddr).Port, nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return 0, fmt.Errorf("failed to listen on port %d: %w", s.config.Port, err)
	}
	s.listener = ln
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// Start serves the feed until Stop is called
func (s *Server) Start() error {
	port, err := s.Listen()
	if err != nil {
		return err
	}

	log.Printf("Event feed starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			Instance: s.config.Name,
			Port:     port,
			Path:     s.config.Path,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		}
	}

	s.httpServer = &http.Server{Handler: s.mux}
	log.Printf("Event feed listening on :%d%s", port, s.config.Path)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(s.listener); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Event feed shutting down...")
	case err := <-errChan:
		log.Printf("Event feed error: %v", err)
		serverErr = err
	}

	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("Event feed shutdown error: %v", err)
	}

	// Hijacked WebSocket connections are not closed by Shutdown
	s.clientsMu.RLock()
	for _, c := range s.clients {
		c.Conn.Close()
	}
	s.clientsMu.RUnlock()

	s.wg.Wait()
	log.Printf("Event feed stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("event feed failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// ClientCount returns the number of connected listeners
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Publish sends a message to every listener without blocking. Listeners
// whose buffers are full miss the message.
func (s *Server) Publish(msgType string, payload interface{}) {
	msg := protocol.Message{Type: msgType, Payload: payload}

	if msgType == protocol.TypeClipSelected || msgType == protocol.TypePlaybackState {
		s.retainedMu.Lock()
		s.retained[msgType] = msg
		s.retainedMu.Unlock()
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		if err := s.sendMessage(client, msg); err != nil {
			log.Printf("Dropping %s for %s: %v", msgType, client.Name, err)
		}
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New feed connection from %s", r.RemoteAddr)

	s.handleConnection(conn)
}

// handleConnection manages a listener connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	s.shutdownMu.RUnlock()

	// Wait for client/hello
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var env protocol.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		log.Printf("Error reading hello: %v", err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	if env.Type != protocol.TypeClientHello {
		log.Printf("Expected client/hello, got %s", env.Type)
		return
	}

	var hello protocol.ClientHello
	if err := env.Decode(&hello); err != nil {
		log.Printf("Error unmarshaling client hello: %v", err)
		return
	}
	if hello.ClientID == "" {
		hello.ClientID = uuid.New().String()
	}
	if hello.Name == "" {
		hello.Name = hello.ClientID
	}

	client := &Client{
		ID:       hello.ClientID,
		Name:     hello.Name,
		Conn:     conn,
		sendChan: make(chan interface{}, 100),
	}

	s.clientsMu.Lock()
	if existing, exists := s.clients[client.ID]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected (name: %s), rejecting duplicate", client.ID, existing.Name)

		conn.WriteJSON(protocol.Message{
			Type: protocol.TypeServerError,
			Payload: protocol.ServerError{
				Error:   "duplicate_client_id",
				Message: "Client ID already connected",
			},
		})
		return
	}

	// Queue hello and retained state before the client becomes visible to
	// Publish, so replayed state never arrives after a newer event
	s.sendMessage(client, protocol.Message{
		Type: protocol.TypeServerHello,
		Payload: protocol.ServerHello{
			ServerID: s.serverID,
			Name:     s.config.Name,
			Version:  protocol.Version,
			DeviceInfo: &protocol.DeviceInfo{
				ProductName:     version.Product,
				Manufacturer:    version.Manufacturer,
				SoftwareVersion: version.Version,
			},
		},
	})
	s.retainedMu.Lock()
	for _, msgType := range []string{protocol.TypeClipSelected, protocol.TypePlaybackState} {
		if msg, ok := s.retained[msgType]; ok {
			s.sendMessage(client, msg)
		}
	}
	s.retainedMu.Unlock()

	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	log.Printf("Feed listener connected: %s (ID: %s)", client.Name, client.ID)

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, client.ID)
		close(client.sendChan)
		s.clientsMu.Unlock()
		log.Printf("Feed listener disconnected: %s", client.Name)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.clientWriter(client)
	}()

	// Listeners send nothing after hello; reading detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// clientWriter sends messages to the client
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	const writeDeadline = 10 * time.Second

	for {
		select {
		case msg, ok := <-client.sendChan:
			if !ok {
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling message: %v", err)
				continue
			}
			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Error writing text message: %v", err)
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// sendMessage queues a message for a client
func (s *Server) sendMessage(client *Client, msg protocol.Message) error {
	select {
	case client.sendChan <- msg:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}
