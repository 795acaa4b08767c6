// Package server exposes the lattice engine to collaborators over WebSocket
// and plain HTTP. A hub goroutine owns client registration and snapshot
// fan-out; a dedicated broadcast worker owns every send on client channels,
// so no channel is ever written from two goroutines.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/loomworks/loom/am"
	"github.com/loomworks/loom/errors"
	"github.com/loomworks/loom/fed"
	"github.com/loomworks/loom/lattice"
	"github.com/loomworks/loom/logger"
)

// Server is the hub for all connected clients plus the HTTP surface.
type Server struct {
	engine   *lattice.Engine
	identity *fed.Identity // nil when identity loading is disabled

	configWatcher *am.ConfigWatcher

	clients      map[*Client]bool
	broadcast    chan *View
	broadcastReq chan *broadcastRequest
	register     chan *Client
	unregister   chan *Client
	mu           sync.RWMutex
	lastView     *View // cached for reconnecting clients

	verbosity atomic.Int32
	logger    *zap.SugaredLogger

	httpServer  *http.Server
	unsubscribe func() // engine listener teardown

	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	broadcastDrops atomic.Int64
	state          atomic.Int32
}

// NewServer wires the hub to an engine. The engine listener only snapshots
// and enqueues; mutation from inside a change notification is an engine
// contract violation and never happens here.
func NewServer(engine *lattice.Engine, identity *fed.Identity, verbosity int) (*Server, error) {
	if engine == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if verbosity < 0 || verbosity > 4 {
		return nil, errors.Newf("verbosity must be 0-4, got %d", verbosity)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		engine:       engine,
		identity:     identity,
		clients:      make(map[*Client]bool),
		broadcast:    make(chan *View, MaxClientMessageQueueSize),
		broadcastReq: make(chan *broadcastRequest, MaxClientMessageQueueSize),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		logger:       logger.Logger.Named("server"),
		ctx:          ctx,
		cancel:       cancel,
	}
	s.verbosity.Store(int32(verbosity))
	s.state.Store(int32(ServerStateRunning))

	s.unsubscribe = engine.Subscribe(s.onEngineChange)

	return s, nil
}

// onEngineChange runs synchronously inside the engine's notification
// dispatch. It reads, never mutates.
func (s *Server) onEngineChange() {
	view := BuildView(s.engine)

	select {
	case s.broadcast <- view:
	case <-s.ctx.Done():
	default:
		s.broadcastDrops.Add(1)
		s.logger.Warnw("Broadcast queue full, dropping lattice update",
			"total_drops", s.broadcastDrops.Load(),
		)
	}
}

// handleClientRegister handles a new client connection
func (s *Server) handleClientRegister(client *Client) {
	s.mu.Lock()

	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			"client_id", client.id,
			"max_clients", MaxClients,
		)
		client.close()
		return
	}

	s.clients[client] = true
	totalClients := len(s.clients)
	cachedView := s.lastView
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		"client_id", client.id,
		"total_clients", totalClients,
	)

	if cachedView == nil {
		cachedView = BuildView(s.engine)
		s.mu.Lock()
		s.lastView = cachedView
		s.mu.Unlock()
	}

	// Send the current snapshot to the new client via the broadcast worker.
	req := &broadcastRequest{
		reqType:  reqView,
		view:     cachedView,
		clientID: client.id,
	}
	select {
	case s.broadcastReq <- req:
	case <-s.ctx.Done():
	default:
		s.logger.Warnw("Broadcast request queue full, skipping initial snapshot",
			"client_id", client.id,
		)
	}
}

// handleClientUnregister handles a client disconnection
func (s *Server) handleClientUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		totalClients := len(s.clients)
		s.mu.Unlock()

		// Signal broadcast worker to close channels (single-writer invariant)
		req := &broadcastRequest{
			reqType: reqClose,
			client:  client,
		}
		select {
		case s.broadcastReq <- req:
		case <-s.ctx.Done():
			client.close()
		}

		s.logger.Infow("Client disconnected",
			"client_id", client.id,
			"total_clients", totalClients,
		)
	} else {
		s.mu.Unlock()
	}
}

// removeSlowClient removes a client that can't keep up with broadcasts.
// Only called from the broadcast worker, so closing directly is safe.
func (s *Server) removeSlowClient(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		s.mu.Unlock()
	} else {
		s.mu.Unlock()
		return // Already removed
	}

	client.close()

	s.logger.Warnw("Client send channel full, removing client",
		"client_id", client.id,
		"total_drops", s.broadcastDrops.Load(),
	)
}

// handleBroadcast caches the snapshot and forwards it to the worker.
func (s *Server) handleBroadcast(view *View) {
	s.mu.Lock()
	s.lastView = view
	s.mu.Unlock()

	req := &broadcastRequest{
		reqType: reqView,
		view:    view,
	}
	select {
	case s.broadcastReq <- req:
	case <-s.ctx.Done():
	default:
		s.logger.Warnw("Broadcast request queue full, dropping lattice update")
	}
}

// Run starts the server hub event loop
func (s *Server) Run() {
	// The worker must start before any message is processed: it owns all
	// client channel sends.
	go s.runBroadcastWorker()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		case view := <-s.broadcast:
			s.handleBroadcast(view)
		}
	}
}

// Engine returns the served engine.
func (s *Server) Engine() *lattice.Engine {
	return s.engine
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
