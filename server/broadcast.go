package server

// The broadcast worker is the single writer on every client send channel.
// The hub, HTTP handlers, and the engine listener all talk to it through
// broadcastReq; nothing else may send on or close a client channel.

const (
	reqView    = "view"    // deliver a snapshot (to one client or all)
	reqMessage = "message" // deliver a typed message (to one client or all)
	reqClose   = "close"   // close a client's channels
)

type broadcastRequest struct {
	reqType  string
	view     *View
	msg      any
	client   *Client // for reqClose
	clientID string  // non-empty: deliver to this client only
}

func (s *Server) runBroadcastWorker() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Broadcast worker stopping due to context cancellation")
			return
		case req := <-s.broadcastReq:
			s.processBroadcastRequest(req)
		}
	}
}

func (s *Server) processBroadcastRequest(req *broadcastRequest) {
	switch req.reqType {
	case reqClose:
		req.client.close()
		return
	case reqView, reqMessage:
	default:
		s.logger.Warnw("Unknown broadcast request type", "req_type", req.reqType)
		return
	}

	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		if req.clientID == "" || client.id == req.clientID {
			clients = append(clients, client)
		}
	}
	s.mu.RUnlock()

	for _, client := range clients {
		switch req.reqType {
		case reqView:
			select {
			case client.send <- req.view:
			default:
				s.broadcastDrops.Add(1)
				s.removeSlowClient(client)
			}
		case reqMessage:
			select {
			case client.sendMsg <- req.msg:
			default:
				// Reply channel full; the snapshot channel decides liveness,
				// a dropped reply is not grounds for eviction.
				s.broadcastDrops.Add(1)
			}
		}
	}
}

// sendToClient queues a typed message for one client.
func (s *Server) sendToClient(clientID string, msg any) {
	req := &broadcastRequest{
		reqType:  reqMessage,
		msg:      msg,
		clientID: clientID,
	}
	select {
	case s.broadcastReq <- req:
	case <-s.ctx.Done():
	default:
		s.logger.Warnw("Broadcast request queue full, dropping message",
			"client_id", clientID,
		)
	}
}
