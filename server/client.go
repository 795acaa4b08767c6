package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/loomworks/loom/errors"
	"github.com/loomworks/loom/lattice"
	"github.com/loomworks/loom/logger"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer (1MB covers bulk ingests)
	maxMessageSize = 1024 * 1024
)

// Client represents a WebSocket client connection
type Client struct {
	server    *Server
	conn      *websocket.Conn
	send      chan *View
	sendMsg   chan any // replies and errors
	id        string
	closeOnce sync.Once // Prevents double-close panics
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		close(c.sendMsg)
	})
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.server.logger.Debugw("Read pump started", "client_id", c.id)

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			break
		}

		if logger.ShouldLogAll(int(c.server.verbosity.Load())) {
			c.server.logger.Debugw("Received WebSocket message",
				"client_id", c.id,
				"size_bytes", len(messageBytes),
			)
		}

		var msg ClientMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.server.logger.Warnw("JSON unmarshal error",
				"error", err.Error(),
				"client_id", c.id,
			)
			continue
		}

		c.routeMessage(&msg)
	}
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes (going away, abnormal, no status) are silently ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		c.server.logger.Warnw("WebSocket read error",
			"error", err.Error(),
			"client_id", c.id,
		)
	}
}

// routeMessage dispatches incoming WebSocket messages to handlers.
func (c *Client) routeMessage(msg *ClientMessage) {
	switch msg.Type {
	case "ingest":
		c.handleIngest(msg)
	case "delete":
		c.handleDelete(msg)
	case "reset":
		c.handleReset(msg)
	case "query":
		c.handleQuery(msg)
	case "ping":
		// Liveness only; deadline refresh happens in the pong handler
	case "set_verbosity":
		c.handleSetVerbosity(msg)
	default:
		c.server.logger.Debugw("Unknown message type",
			"type", msg.Type,
			"client_id", c.id,
		)
	}
}

func (c *Client) reply(msg any) {
	c.server.sendToClient(c.id, msg)
}

func (c *Client) replyError(requestID string, err error) {
	c.reply(ErrorMessage{
		Type:      "error",
		RequestID: requestID,
		Message:   err.Error(),
	})
}

func (c *Client) handleIngest(msg *ClientMessage) {
	if logger.ShouldLogTrace(int(c.server.verbosity.Load())) {
		c.server.logger.Debugw("Ingest payload",
			"client_id", c.id,
			"items", msg.Items,
		)
	}

	topID, err := c.server.engine.IngestSequence(msg.Items)
	if err != nil {
		c.server.logger.Warnw("Ingest rejected",
			"client_id", c.id,
			"error", err.Error(),
		)
		c.replyError(msg.RequestID, err)
		return
	}

	atoms, fragments := c.server.engine.Stats()
	c.reply(IngestResultMessage{
		Type:      "ingest_result",
		RequestID: msg.RequestID,
		TopID:     topID,
		Atoms:     atoms,
		Fragments: fragments,
	})
}

func (c *Client) handleDelete(msg *ClientMessage) {
	if msg.ID == "" {
		c.replyError(msg.RequestID, errors.NewInvalidRequestError("delete requires an id"))
		return
	}
	c.server.logger.Debugw("Delete requested",
		"client_id", c.id,
		"node", shortID(msg.ID),
	)
	c.server.engine.DeleteNode(msg.ID)
	c.reply(QueryResultMessage{
		Type:      "query_result",
		RequestID: msg.RequestID,
		Op:        "delete",
		Result:    msg.ID,
	})
}

func (c *Client) handleReset(msg *ClientMessage) {
	c.server.logger.Infow("Engine reset requested", "client_id", c.id)
	c.server.engine.Reset()

	// The global update can be dropped under load; the requester always
	// gets the cleared snapshot.
	req := &broadcastRequest{
		reqType:  reqView,
		view:     emptyView(),
		clientID: c.id,
	}
	select {
	case c.server.broadcastReq <- req:
	case <-c.server.ctx.Done():
	default:
		c.server.logger.Warnw("Broadcast request queue full, skipping reset snapshot",
			"client_id", c.id,
		)
	}
}

// handleSetVerbosity updates the server verbosity level for this process.
// The level is shared: every client's debug output follows it.
func (c *Client) handleSetVerbosity(msg *ClientMessage) {
	if msg.Verbosity < logger.VerbosityUser || msg.Verbosity > logger.VerbosityAll {
		c.replyError(msg.RequestID, errors.NewInvalidRequestError("verbosity must be 0-4, got %d", msg.Verbosity))
		return
	}

	oldVerbosity := int(c.server.verbosity.Load())
	c.server.verbosity.Store(int32(msg.Verbosity))

	c.server.logger.Infow("Verbosity level changed",
		"client_id", c.id,
		"old_verbosity", oldVerbosity,
		"new_verbosity", msg.Verbosity,
		"level_name", logger.LevelName(msg.Verbosity),
	)
}

func (c *Client) handleQuery(msg *ClientMessage) {
	engine := c.server.engine

	var result any
	switch msg.Op {
	case "neighbors":
		direction := lattice.DirectionRight
		if msg.Direction == "left" {
			direction = lattice.DirectionLeft
		}
		result = engine.FindNeighbors(msg.ID, direction)

	case "parent":
		parentID, found := engine.FindParentNode(msg.Left, msg.Right)
		result = map[string]any{"parent_id": parentID, "found": found}

	case "resolve":
		result = engine.ResolveContentString(msg.ID)

	case "match":
		result = engine.MatchPattern(msg.Pattern)

	default:
		c.replyError(msg.RequestID, errors.NewInvalidRequestError("unknown query op %q", msg.Op))
		return
	}

	c.reply(QueryResultMessage{
		Type:      "query_result",
		RequestID: msg.RequestID,
		Op:        msg.Op,
		Result:    result,
	})
}

// writePump writes snapshots and replies to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.server.logger.Debugw("Write pump started", "client_id", c.id)

	for {
		select {
		case <-c.server.ctx.Done():
			c.server.logger.Debugw("Write pump stopping due to server shutdown", "client_id", c.id)
			return
		case view, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			update := UpdateMessage{Type: "lattice_update", View: view}
			if err := c.conn.WriteJSON(update); err != nil {
				c.server.logger.Warnw("Snapshot write error",
					"error", err.Error(),
					"client_id", c.id,
				)
				return
			}

		case msg, ok := <-c.sendMsg:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Debugw("Message write error",
					"error", err.Error(),
					"client_id", c.id,
				)
				// Reply errors don't kill the connection
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
