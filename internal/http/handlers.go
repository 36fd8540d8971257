package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"triage-chatbot/internal/core"
	"triage-chatbot/pkg"
)

// Server bundles the dependencies required by the HTTP handlers.  It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Triage       *core.TriageService
	Store        *core.ConversationStore
	AuditEnabled bool
}

// NewServer constructs a Server.
func NewServer(triage *core.TriageService, store *core.ConversationStore, auditEnabled bool) *Server {
	return &Server{
		Triage:       triage,
		Store:        store,
		AuditEnabled: auditEnabled,
	}
}

// ServeHTTP dispatches incoming requests based on the URL path.  Minimal
// routing logic is implemented here to keep dependencies light.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/sessions" && r.Method == http.MethodPost:
		s.handleCreateSession(w, r)
	case path == "/api/chat" && r.Method == http.MethodPost:
		s.handleChat(w, r)
	case strings.HasPrefix(path, "/api/sessions/") && r.Method == http.MethodGet:
		sessionID := strings.TrimPrefix(path, "/api/sessions/")
		if sessionID == "" || strings.Contains(sessionID, "/") {
			http.NotFound(w, r)
			return
		}
		s.handleSnapshot(w, r, sessionID)
	case path == "/api/health" && r.Method == http.MethodGet:
		s.handleHealth(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleCreateSession mints a session id.  The Case Context itself is
// created lazily on the session's first chat message, so sending a message
// with a never-seen id works identically.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"session_id": uuid.NewString()}
	writeJSON(w, http.StatusOK, resp)
}

// handleChat runs one triage turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req pkg.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	// An empty message is not rejected: it scores zero severity and the
	// assistant may still respond to silence.
	resp, err := s.Triage.HandleTurn(r.Context(), req.SessionID, req.Message, req.Profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSnapshot serves the read-only triage state of a session.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request, sessionID string) {
	snapshot, ok := s.Store.Snapshot(sessionID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// handleHealth reports component status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"live_sessions": s.Store.Len(),
		"audit_store":   s.AuditEnabled,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
