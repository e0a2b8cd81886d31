// Package http serves the call navigation engine over a REST + SSE API for
// browser-based call panels.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pitchline/pitchline"
	graphview "github.com/pitchline/pitchline/internal/presentation/graph"
	"github.com/pitchline/pitchline/internal/sanitize"
	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/flow"
	"github.com/pitchline/pitchline/pkg/session"
)

// Engine is the navigation core surface the server drives.
type Engine interface {
	Start(ctx context.Context, sessionID string) (*domain.State, error)
	Current(state *domain.State) (domain.Node, bool)
	NavigateTo(ctx context.Context, state *domain.State, nodeID string) bool
	GoBack(ctx context.Context, state *domain.State) bool
	ReturnToFlow(ctx context.Context, state *domain.State) bool
	RewindTo(ctx context.Context, state *domain.State, nodeID string) bool
	RemoveFromPath(ctx context.Context, state *domain.State, nodeID string) bool
	SetNotes(state *domain.State, notes string)
	SetOutcome(state *domain.State, outcome domain.Outcome) bool
	SetContact(state *domain.State, prospect, organization string)
	AddPainPoint(state *domain.State, painPoint string)
	AddObjection(state *domain.State, objection string)
	SetAutomation(state *domain.State, automation string)
	Search(state *domain.State, query string) []domain.Node
	Summary(state *domain.State) string
	Scripts(state *domain.State) string
	Graph() *flow.Graph
}

// Server exposes call sessions over HTTP.
type Server struct {
	engine   Engine
	sessions *session.Manager
	streams  *StreamManager
	metrics  *Metrics
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches a Prometheus metric set and enables /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewHandler creates the HTTP handler for the engine and session manager.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/graph", s.getGraph)
	r.Get("/graph/mermaid", s.getGraphMermaid)
	r.Get("/events", s.subscribeEvents)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/calls", func(r chi.Router) {
		r.Post("/", s.startCall)
		r.Get("/", s.listCalls)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getCall)
			r.Delete("/", s.deleteCall)

			r.Post("/navigate", s.navigate)
			r.Post("/back", s.goBack)
			r.Post("/return", s.returnToFlow)
			r.Post("/rewind", s.rewindTo)
			r.Post("/remove", s.removeFromPath)

			r.Put("/notes", s.putNotes)
			r.Put("/outcome", s.putOutcome)
			r.Put("/contact", s.putContact)
			r.Put("/automation", s.putAutomation)
			r.Post("/pain-points", s.addPainPoint)
			r.Post("/objections", s.addObjection)

			r.Get("/summary", s.getSummary)
			r.Get("/scripts", s.getScripts)
			r.Get("/search", s.search)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		s.metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
	})
}

// -- session lifecycle --

type startCallRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) startCall(w http.ResponseWriter, r *http.Request) {
	var body startCallRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("startCall: invalid request body", "err", err)
			return
		}
	}

	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	state, err := s.sessions.LoadOrStart(r.Context(), sessionID, func(ctx context.Context, id string) (*domain.State, error) {
		if s.metrics != nil {
			s.metrics.CallsStarted.Inc()
		}
		return s.engine.Start(ctx, id)
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Start error: %v", err), http.StatusInternalServerError)
		s.logger.Error("startCall failed", "err", err)
		return
	}

	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) listCalls(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": sessions})
}

func (s *Server) getCall(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) deleteCall(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -- navigation --

type nodeRequest struct {
	NodeID string `json:"node_id"`
}

type mutationResponse struct {
	Applied bool          `json:"applied"`
	State   *domain.State `json:"state"`
}

// mutate runs fn against the locked session, persists the result, and
// broadcasts the state diff to SSE subscribers.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, state *domain.State) bool) {
	sessionID := chi.URLParam(r, "sessionID")

	var applied bool
	var after *domain.State
	err := s.sessions.WithLock(r.Context(), sessionID, func(ctx context.Context) error {
		state, err := s.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}

		before := state.Clone()
		applied = fn(ctx, state)
		if applied {
			if err := s.sessions.Store().Save(ctx, sessionID, state); err != nil {
				return err
			}
			s.broadcastDiff(before, state)
		}
		after = state
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.metrics.observeNavigation(op, applied)
	writeJSON(w, http.StatusOK, mutationResponse{Applied: applied, State: after})
}

func (s *Server) broadcastDiff(before, after *domain.State) {
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	if data, err := json.Marshal(diff); err == nil {
		s.streams.Broadcast(after.SessionID, string(data))
	}
}

func (s *Server) decodeNode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body nodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return "", false
	}
	if body.NodeID == "" {
		http.Error(w, "node_id is required", http.StatusBadRequest)
		return "", false
	}
	return body.NodeID, true
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request) {
	nodeID, ok := s.decodeNode(w, r)
	if !ok {
		return
	}
	s.mutate(w, r, "navigate", func(ctx context.Context, state *domain.State) bool {
		return s.engine.NavigateTo(ctx, state, nodeID)
	})
}

func (s *Server) goBack(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "back", func(ctx context.Context, state *domain.State) bool {
		return s.engine.GoBack(ctx, state)
	})
}

func (s *Server) returnToFlow(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "return", func(ctx context.Context, state *domain.State) bool {
		return s.engine.ReturnToFlow(ctx, state)
	})
}

func (s *Server) rewindTo(w http.ResponseWriter, r *http.Request) {
	nodeID, ok := s.decodeNode(w, r)
	if !ok {
		return
	}
	s.mutate(w, r, "rewind", func(ctx context.Context, state *domain.State) bool {
		return s.engine.RewindTo(ctx, state, nodeID)
	})
}

func (s *Server) removeFromPath(w http.ResponseWriter, r *http.Request) {
	nodeID, ok := s.decodeNode(w, r)
	if !ok {
		return
	}
	s.mutate(w, r, "remove", func(ctx context.Context, state *domain.State) bool {
		return s.engine.RemoveFromPath(ctx, state, nodeID)
	})
}

// -- metadata --

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body textRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return "", false
	}

	clean, err := sanitize.Input(body.Text)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.logger.Warn("input rejected", "err", err, "size", len(body.Text))
		return "", false
	}
	return clean, true
}

func (s *Server) putNotes(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeText(w, r)
	if !ok {
		return
	}
	s.mutate(w, r, "notes", func(ctx context.Context, state *domain.State) bool {
		s.engine.SetNotes(state, text)
		return true
	})
}

type outcomeRequest struct {
	Outcome domain.Outcome `json:"outcome"`
}

func (s *Server) putOutcome(w http.ResponseWriter, r *http.Request) {
	var body outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, "outcome", func(ctx context.Context, state *domain.State) bool {
		return s.engine.SetOutcome(state, body.Outcome)
	})
}

type contactRequest struct {
	ProspectName string `json:"prospect_name"`
	Organization string `json:"organization"`
}

func (s *Server) putContact(w http.ResponseWriter, r *http.Request) {
	var body contactRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, "contact", func(ctx context.Context, state *domain.State) bool {
		s.engine.SetContact(state, body.ProspectName, body.Organization)
		return true
	})
}

func (s *Server) putAutomation(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeText(w, r)
	if !ok {
		return
	}
	s.mutate(w, r, "automation", func(ctx context.Context, state *domain.State) bool {
		s.engine.SetAutomation(state, text)
		return true
	})
}

func (s *Server) addPainPoint(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeText(w, r)
	if !ok {
		return
	}
	s.mutate(w, r, "pain_point", func(ctx context.Context, state *domain.State) bool {
		s.engine.AddPainPoint(state, text)
		return text != ""
	})
}

func (s *Server) addObjection(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeText(w, r)
	if !ok {
		return
	}
	s.mutate(w, r, "objection", func(ctx context.Context, state *domain.State) bool {
		s.engine.AddObjection(state, text)
		return text != ""
	})
}

// -- exports and search --

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.engine.Summary(state))
}

func (s *Server) getScripts(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.engine.Scripts(state))
}

type searchResponse struct {
	Query   string        `json:"query"`
	Matches []domain.Node `json:"matches"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query, err := sanitize.Input(r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid query: %v", err), http.StatusBadRequest)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	var matches []domain.Node
	err = s.sessions.WithLock(r.Context(), sessionID, func(ctx context.Context) error {
		state, err := s.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		matches = s.engine.Search(state, query)
		// Search results are part of the panel state and survive reloads.
		return s.sessions.Store().Save(ctx, sessionID, state)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if matches == nil {
		matches = []domain.Node{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Matches: matches})
}

// -- graph introspection --

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Graph().Nodes())
}

func (s *Server) getGraphMermaid(w http.ResponseWriter, r *http.Request) {
	var state *domain.State
	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		loaded, err := s.sessions.Load(r.Context(), sessionID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		state = loaded
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graphview.Render(s.engine.Graph(), state))
}

// -- misc --

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "pitchline-http",
		"version": strings.TrimSpace(pitchline.Version),
	})
}

// subscribeEvents handles the GET /events request (SSE). Clients receive the
// JSON state diff after every applied mutation on their session.
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: subscribing to session updates", "session_id", sessionID)

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !diffMatchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func diffMatchesWatch(msg string, watchList []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "path":
			if diff.Path != nil {
				return true
			}
		case "metadata":
			if diff.Metadata != nil {
				return true
			}
		case "outcome":
			if diff.Outcome != nil {
				return true
			}
		case "notes":
			if diff.Notes != nil {
				return true
			}
		case "current":
			if diff.CurrentNodeID != nil {
				return true
			}
		}
	}
	return false
}

// -- helpers --

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
	s.logger.Error("request failed", "err", err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
