package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/loomworks/loom/internal/version"
	"github.com/loomworks/loom/lattice"
)

// HandleWebSocket upgrades the connection and starts the client pumps.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("WebSocket upgrade failed",
			"error", err.Error(),
			"remote_addr", r.RemoteAddr,
		)
		return
	}

	client := &Client{
		server:  s,
		conn:    conn,
		send:    make(chan *View, MaxClientMessageQueueSize),
		sendMsg: make(chan any, MaxClientMessageQueueSize),
		id:      fmt.Sprintf("%s_%d", r.RemoteAddr, time.Now().UnixNano()),
	}

	// Send version info BEFORE starting writePump (avoid concurrent writes)
	versionInfo := version.Get()
	versionMsg := map[string]any{
		"type":    "version",
		"version": versionInfo.Version,
		"commit":  versionInfo.Short(),
	}
	if s.identity != nil {
		versionMsg["did"] = s.identity.DID
	}
	if err := conn.WriteJSON(versionMsg); err != nil {
		s.logger.Debugw("Failed to send version info",
			"client_id", client.id,
			"error", err,
		)
	}

	s.register <- client

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		client.readPump()
	}()
	go func() {
		defer s.wg.Done()
		client.writePump()
	}()
}

// HandleHealth reports liveness plus repository counts.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	atoms, fragments := s.engine.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    stateString(s.getState()),
		"version":   version.Get().Version,
		"atoms":     atoms,
		"fragments": fragments,
		"clients":   s.ClientCount(),
	})
}

// HandleNodes lists every node record in insertion order.
func (s *Server) HandleNodes(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.AllNodes())
}

// HandleNode serves a single node record by id.
func (s *Server) HandleNode(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	node, ok := s.engine.GetNode(id)
	if !ok {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// HandleResolve serves the string resolver output for an id.
func (s *Server) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":       id,
		"resolved": s.engine.ResolveContentString(id),
	})
}

// HandleNeighbors serves topology neighbors for an id.
// dir defaults to "right".
func (s *Server) HandleNeighbors(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}

	direction := lattice.DirectionRight
	switch dir := r.URL.Query().Get("dir"); dir {
	case "", "right":
	case "left":
		direction = lattice.DirectionLeft
	default:
		writeError(w, http.StatusBadRequest, "dir must be left or right")
		return
	}

	writeJSON(w, http.StatusOK, s.engine.FindNeighbors(id, direction))
}

// ingestRequest is the POST /api/ingest body.
type ingestRequest struct {
	Items []any `json:"items"`
}

// HandleIngest ingests a sequence submitted over HTTP.
func (s *Server) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req ingestRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	topID, err := s.engine.IngestSequence(req.Items)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	atoms, fragments := s.engine.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"top_id":    topID,
		"atoms":     atoms,
		"fragments": fragments,
	})
}
