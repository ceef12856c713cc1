package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"leadchat-backend/internal/completion"
	"leadchat-backend/internal/config"
	"leadchat-backend/internal/leads"
	"leadchat-backend/internal/store"
	"leadchat-backend/internal/types"
	"leadchat-backend/internal/widget"
)

const (
	chatTimeout  = 60 * time.Second
	maxBodyBytes = 64 << 10
)

// LeadService stores a submitted lead and notifies sales.
type LeadService interface {
	Submit(ctx context.Context, sessionID string, rec leads.Record) (leads.Captured, error)
}

type Deps struct {
	Provider completion.Provider
	Leads    LeadService
	Sessions *store.MemoryStore
	Logger   zerolog.Logger
}

type Server struct {
	router   *chi.Mux
	cfg      config.Config
	provider completion.Provider
	leads    LeadService
	sessions *store.MemoryStore
	logger   zerolog.Logger
}

func NewServer(cfg config.Config, d Deps) *Server {
	if d.Sessions == nil {
		d.Sessions = store.NewMemoryStore(cfg.SessionMaxMessages)
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: cfg.AllowedOrigin != "*",
		MaxAge:           300,
	}))

	s := &Server{
		router:   r,
		cfg:      cfg,
		provider: d.Provider,
		leads:    d.Leads,
		sessions: d.Sessions,
		logger:   d.Logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	// The hosted widget posts to /chat and /lead; /api/* are aliases.
	for _, prefix := range []string{"", "/api"} {
		s.router.Post(prefix+"/chat", s.handleChat)
		s.router.Post(prefix+"/lead", s.handleLead)
	}
	s.router.Delete("/api/session", s.handleEndSession)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok", Message: "Server is running"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		s.writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	sid := getOrCreateSessionID(r, w, req.SessionID)
	logger := s.logger.With().Str("session_id", sid).Str("provider", s.provider.Name()).Logger()

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()
	reply, err := s.provider.Complete(ctx, completion.Request{
		SessionID: sid,
		History:   toCompletionHistory(s.sessions.Get(sid)),
		Prompt:    prompt,
	})
	if err != nil {
		logger.Error().Err(err).Msg("completion failed")
		s.writeError(w, http.StatusInternalServerError, "An error occurred")
		return
	}
	s.sessions.Append(sid,
		store.Message{Role: completion.RoleUser, Content: prompt},
		store.Message{Role: completion.RoleAssistant, Content: reply.Text()},
	)
	logger.Debug().Int("parts", len(reply.Parts)).Msg("completion served")

	w.Header().Set("X-Session-Id", sid)
	writeJSON(w, http.StatusOK, types.ChatResponse{
		Message:   types.NewPartsMessage(reply.Parts...),
		SessionID: sid,
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if sid := getSessionID(r); sid != "" {
		s.sessions.Delete(sid)
	}
	ClearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func toCompletionHistory(msgs []store.Message) []completion.Message {
	out := make([]completion.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, completion.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody reads at most maxBodyBytes of JSON into v. On failure the error
// response has already been written.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	s.writeError(w, http.StatusBadRequest, "invalid JSON body")
	return false
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, types.ErrorResponse{Error: msg})
}

// getSessionID looks at the cookie, then the header.
func getSessionID(r *http.Request) string {
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		return cookie
	}
	return strings.TrimSpace(r.Header.Get("X-Session-Id"))
}

// getOrCreateSessionID prefers the id the widget sent in the body, then the
// cookie and header, and mints a new one otherwise. The cookie is refreshed.
func getOrCreateSessionID(r *http.Request, w http.ResponseWriter, fromBody string) string {
	sid := strings.TrimSpace(fromBody)
	if sid == "" {
		sid = getSessionID(r)
	}
	if sid == "" {
		sid = widget.NewSessionID()
	}
	SetSessionCookie(w, r, sid)
	return sid
}
