package server

import "net/http"

// setupHTTPRoutes configures all HTTP handlers on a dedicated mux.
func (s *Server) setupHTTPRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket))
	mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	mux.HandleFunc("/api/nodes", s.corsMiddleware(s.HandleNodes))
	mux.HandleFunc("/api/node", s.corsMiddleware(s.HandleNode))
	mux.HandleFunc("/api/resolve", s.corsMiddleware(s.HandleResolve))
	mux.HandleFunc("/api/neighbors", s.corsMiddleware(s.HandleNeighbors))
	mux.HandleFunc("/api/ingest", s.corsMiddleware(s.HandleIngest))

	if s.identity != nil {
		mux.HandleFunc("/.well-known/did.json", s.corsMiddleware(s.identity.HandleDIDDocument))
	}

	return mux
}

// corsMiddleware adds CORS headers using the configured allowed origins.
// Same origin validation as WebSocket connections (server.allowed_origins).
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
