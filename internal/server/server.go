// Package server streams engine snapshots to external renderers over
// HTTP and websocket. It never touches the engine itself: the runner
// hands it each snapshot after a step.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/zeusync/physics2d/internal/core/observability/log"
	"github.com/zeusync/physics2d/internal/core/systems/physics/engine"
	"github.com/zeusync/physics2d/pkg/generic"
)

type Config struct {
	Addr         string
	WriteTimeout time.Duration
	// SendBuffer is the number of snapshots queued per client before
	// new ones are dropped for that client.
	SendBuffer int
}

func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		WriteTimeout: 5 * time.Second,
		SendBuffer:   8,
	}
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	config Config
	logger log.Log
	router *mux.Router

	upgrader websocket.Upgrader
	buffers  *generic.Pool[*bytes.Buffer]

	mu      sync.RWMutex
	latest  []byte
	clients map[uuid.UUID]*client

	httpServer *http.Server
}

func New(config Config, logger log.Log) *Server {
	if config.SendBuffer <= 0 {
		config.SendBuffer = DefaultConfig().SendBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}
	s := &Server{
		config:  config,
		logger:  logger.With(log.String("component", "server")),
		clients: make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		buffers: generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset),
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)
	s.router = r
	return s
}

// Handler exposes the routes, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("listening", log.String("addr", ln.Addr().String()))
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", log.Error(err))
		}
	}()
	return nil
}

// Stop disconnects every client and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	for id, c := range s.clients {
		close(c.send)
		delete(s.clients, id)
	}
	s.mu.Unlock()

	if srv == nil {
		return ErrServerNotRunning
	}
	return srv.Shutdown(ctx)
}

// Publish encodes snap, keeps it as the latest snapshot and queues it for
// every connected client. Slow clients miss snapshots rather than block.
func (s *Server) Publish(snap engine.Snapshot) error {
	buf := s.buffers.Get()
	defer s.buffers.Put(buf)

	if err := json.NewEncoder(buf).Encode(snap); err != nil {
		return err
	}
	payload := bytes.Clone(buf.Bytes())

	s.mu.Lock()
	s.latest = payload
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		select {
		case c.send <- payload:
		default:
			s.logger.Debug("snapshot dropped", log.String("client", c.id.String()))
		}
	}
	return nil
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) Latest() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	latest := s.Latest()
	if latest == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(latest)
}
