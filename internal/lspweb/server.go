// Package lspweb exposes internal/lsp's Language Server Protocol server
// over HTTP/WebSocket, for browser-based editors that cannot spawn a
// stdio child process. A chi router (go-chi/chi) dispatches a WebSocket
// upgrade endpoint per session; each upgraded connection is wrapped as an
// io.ReadWriteCloser (github.com/gorilla/websocket) and handed to a fresh
// internal/lsp.Server, grounded on the teacher's internal/watch's
// reload_server.go WebSocket-connection-registry shape and
// internal/web/router's chi wiring.
package lspweb

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kieli-lang/kieli/internal/lsp"
)

// Server serves the kieli language server over HTTP, one LSP session per
// WebSocket connection.
type Server struct {
	router *chi.Mux
	auth   *AuthService
	logger *log.Logger

	sessionsMutex sync.RWMutex
	sessions      map[string]*session
}

type session struct {
	id        string
	opened    time.Time
	lspServer *lsp.Server
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // browser clients may be served from a different origin than the language server
	},
}

// New builds a Server. auth is optional; when non-nil, the /lsp endpoint
// requires a valid bearer token.
func New(auth *AuthService) *Server {
	s := &Server{
		auth:     auth,
		logger:   log.New(log.Writer(), "[lspweb] ", log.LstdFlags),
		sessions: make(map[string]*session),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/lsp", s.handleUpgrade)
	r.Get("/sessions", s.handleListSessions)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.auth != nil {
		if _, err := s.auth.ValidateRequest(r); err != nil {
			http.Error(w, "unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	sess := &session{id: id, opened: time.Now(), lspServer: lsp.NewServer()}

	s.sessionsMutex.Lock()
	s.sessions[id] = sess
	s.sessionsMutex.Unlock()

	s.logger.Printf("session %s opened", id)

	go func() {
		defer func() {
			s.sessionsMutex.Lock()
			delete(s.sessions, id)
			s.sessionsMutex.Unlock()
			s.logger.Printf("session %s closed", id)
		}()

		rwc := &wsReadWriteCloser{conn: conn}
		if err := sess.lspServer.RunOverStream(r.Context(), rwc); err != nil {
			s.logger.Printf("session %s ended: %v", id, err)
		}
	}()
}

// sessionInfo is the wire shape for one session in handleListSessions.
type sessionInfo struct {
	ID     string    `json:"id"`
	Opened time.Time `json:"opened"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.sessionsMutex.RLock()
	infos := make([]sessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, sessionInfo{ID: sess.id, Opened: sess.opened})
	}
	s.sessionsMutex.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(infos)
}
