package server

import "time"

const (
	// MaxClients is the maximum number of concurrent WebSocket clients
	MaxClients = 100
	// MaxClientMessageQueueSize is the size of per-client message queues
	MaxClientMessageQueueSize = 256
	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// ServerState represents the server lifecycle state
type ServerState int

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// ClientMessage represents an inbound WebSocket message.
type ClientMessage struct {
	Type      string `json:"type"`                 // "ingest", "delete", "reset", "query", "ping", "set_verbosity"
	RequestID string `json:"request_id,omitempty"` // Echoed back on replies
	Items     []any  `json:"items,omitempty"`      // For ingest
	ID        string `json:"id,omitempty"`         // For delete and id-based queries
	Op        string `json:"op,omitempty"`         // For query: "neighbors", "parent", "resolve", "match"
	Direction string `json:"direction,omitempty"`  // For neighbors: "left" or "right"
	Left      string `json:"left,omitempty"`       // For parent
	Right     string `json:"right,omitempty"`      // For parent
	Pattern   string `json:"pattern,omitempty"`    // For match
	Verbosity int    `json:"verbosity,omitempty"`  // For set_verbosity: 0-4
}

// UpdateMessage pushes a full lattice snapshot to clients.
type UpdateMessage struct {
	Type string `json:"type"` // "lattice_update"
	View *View  `json:"view"`
}

// IngestResultMessage reports the outcome of an ingest request.
type IngestResultMessage struct {
	Type      string `json:"type"` // "ingest_result"
	RequestID string `json:"request_id,omitempty"`
	TopID     string `json:"top_id"`
	Atoms     int    `json:"atoms"`
	Fragments int    `json:"fragments"`
}

// QueryResultMessage carries the result of a query op.
type QueryResultMessage struct {
	Type      string `json:"type"` // "query_result"
	RequestID string `json:"request_id,omitempty"`
	Op        string `json:"op"`
	Result    any    `json:"result"`
}

// ErrorMessage reports a failed request back to the requesting client.
type ErrorMessage struct {
	Type      string `json:"type"` // "error"
	RequestID string `json:"request_id,omitempty"`
	Message   string `json:"message"`
}
