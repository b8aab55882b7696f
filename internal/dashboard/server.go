// Package dashboard provides a real-time WebSocket server for sync
// monitoring.
//
// The server broadcasts connection changes, import/export completions,
// and on-demand status snapshots to connected WebSocket clients.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/hvescovi/finsync/internal/reconcile"
)

// MessageType defines the type of dashboard message.
type MessageType string

const (
	// MessageTypeConnection indicates the remote connection came up or
	// went down.
	MessageTypeConnection MessageType = "connection"

	// MessageTypeImportComplete indicates a full import finished.
	MessageTypeImportComplete MessageType = "import_complete"

	// MessageTypeExportComplete indicates an export batch finished.
	MessageTypeExportComplete MessageType = "export_complete"

	// MessageTypeStatus carries a status snapshot.
	MessageTypeStatus MessageType = "status"
)

// Message represents a dashboard broadcast message.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// StatusData is the snapshot sent to newly connected clients.
type StatusData struct {
	State    string    `json:"state"`
	LastSync time.Time `json:"lastSync,omitzero"`
}

// FromEvent converts a reconciler event into a broadcast message.
func FromEvent(evt reconcile.Event) Message {
	var msgType MessageType
	switch evt.Type {
	case reconcile.EventImportComplete:
		msgType = MessageTypeImportComplete
	case reconcile.EventExportComplete:
		msgType = MessageTypeExportComplete
	default:
		msgType = MessageTypeConnection
	}
	data, _ := json.Marshal(evt)
	return Message{Type: msgType, Timestamp: evt.Time, Data: data}
}

// Config holds server configuration.
type Config struct {
	// Port to listen on (default: 8422).
	Port int

	// Reconciler supplies the status snapshot for new clients; optional.
	Reconciler *reconcile.Reconciler

	// Logger for server activity (default: stderr with [dash] prefix).
	Logger *log.Logger
}

// Server manages WebSocket connections and broadcasts sync messages.
type Server struct {
	addr       string
	listener   net.Listener
	server     *http.Server
	reconciler *reconcile.Reconciler

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan Message

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewServer creates a dashboard WebSocket server.
func NewServer(cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Port == 0 {
		cfg.Port = 8422
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[dash] ", log.LstdFlags)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:       fmt.Sprintf(":%d", cfg.Port),
		reconciler: cfg.Reconciler,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Message, 100),
		ctx:        ctx,
		cancel:     cancel,
		logger:     cfg.Logger,
	}
}

// Start begins the HTTP server and WebSocket handler. When a reconciler
// is configured its events are forwarded to clients automatically.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	if s.reconciler != nil {
		s.reconciler.Subscribe(func(evt reconcile.Event) {
			s.Broadcast(FromEvent(evt))
		})
	}

	s.wg.Add(1)
	go s.broadcastLoop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("Dashboard listening on %s", s.addr)
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.cancel()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(s.clients, conn)
	}
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.wg.Wait()
	s.logger.Printf("Dashboard stopped")
	return nil
}

// Broadcast sends a message to all connected clients.
func (s *Server) Broadcast(msg Message) {
	select {
	case s.broadcast <- msg:
	case <-s.ctx.Done():
	default:
		s.logger.Printf("Broadcast channel full, dropping message")
	}
}

func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return

		case msg := <-s.broadcast:
			if msg.Timestamp.IsZero() {
				msg.Timestamp = time.Now()
			}
			data, err := json.Marshal(msg)
			if err != nil {
				s.logger.Printf("Failed to marshal message: %v", err)
				continue
			}

			s.clientsMu.RLock()
			clients := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				clients = append(clients, conn)
			}
			s.clientsMu.RUnlock()

			for _, conn := range clients {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					s.logger.Printf("Failed to send to client: %v", err)
					s.removeClient(conn)
				}
			}
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	count := len(s.clients)
	s.clientsMu.Unlock()
	s.logger.Printf("Client connected (total: %d)", count)

	// Greet with the current sync status.
	status := StatusData{State: "unknown"}
	if s.reconciler != nil {
		status.State = s.reconciler.State().String()
		status.LastSync = s.reconciler.LastSync()
	}
	data, _ := json.Marshal(status)
	welcome, _ := json.Marshal(Message{
		Type:      MessageTypeStatus,
		Timestamp: time.Now(),
		Data:      data,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = conn.Write(ctx, websocket.MessageText, welcome)
	cancel()

	go s.readLoop(conn)
}

// readLoop keeps the connection alive and handles client disconnects.
// Client messages are not processed.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.removeClient(conn)
	for {
		if _, _, err := conn.Read(s.ctx); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if _, exists := s.clients[conn]; exists {
		delete(s.clients, conn)
		count := len(s.clients)
		s.clientsMu.Unlock()
		_ = conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Printf("Client disconnected (total: %d)", count)
		return
	}
	s.clientsMu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.clientsMu.RLock()
	count := len(s.clients)
	s.clientsMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": count,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>finsync Dashboard</title>
</head>
<body>
    <h1>finsync Dashboard Server</h1>
    <p>WebSocket endpoint: <code>ws://%s/ws</code></p>
    <p>Health check: <a href="/health">/health</a></p>
    <p>Connect a WebSocket client to receive real-time sync updates.</p>
</body>
</html>`, r.Host)
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
