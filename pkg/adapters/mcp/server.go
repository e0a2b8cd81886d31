// Package mcp exposes the call navigation engine to LLM copilots over the
// Model Context Protocol. Tools mirror the REST surface so an assistant can
// drive a live call session next to the human rep.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/pitchline/pitchline"
	"github.com/pitchline/pitchline/internal/sanitize"
	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/flow"
	"github.com/pitchline/pitchline/pkg/session"
)

// Engine is the navigation core surface the MCP tools drive.
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
	Search(state *domain.State, query string) []domain.Node
	Summary(state *domain.State) string
	Scripts(state *domain.State) string
	Graph() *flow.Graph
}

// SearchResponse is the structured result of the search_scripts tool.
type SearchResponse struct {
	Query   string        `json:"query" jsonschema_description:"The sanitized search phrase"`
	Matches []domain.Node `json:"matches" jsonschema_description:"Nodes whose content matched the phrase"`
}

// TextResponse wraps a plain-text export.
type TextResponse struct {
	Text string `json:"text" jsonschema_description:"The rendered text"`
}

// CallResponse is the structured result shared by every state-bearing tool.
type CallResponse struct {
	Applied  bool          `json:"applied" jsonschema_description:"Whether the operation changed the call state"`
	State    *domain.State `json:"state,omitempty" jsonschema_description:"The call state after the operation"`
	Node     *domain.Node  `json:"node,omitempty" jsonschema_description:"The node the call is positioned on"`
	Terminal bool          `json:"terminal" jsonschema_description:"Whether the call reached a terminal beat"`
}

// Server wraps the engine and session manager as an MCP server.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers all tools and resources.
func NewServer(engine Engine, sessions *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logger,
		mcpServer: server.NewMCPServer("pitchline-mcp", strings.TrimSpace(pitchline.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE transport.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// -- tool argument shapes --

type sessionArgs struct {
	SessionID string `mapstructure:"session_id"`
}

type nodeArgs struct {
	SessionID string `mapstructure:"session_id"`
	NodeID    string `mapstructure:"node_id"`
}

type textArgs struct {
	SessionID string `mapstructure:"session_id"`
	Text      string `mapstructure:"text"`
}

type outcomeArgs struct {
	SessionID string `mapstructure:"session_id"`
	Outcome   string `mapstructure:"outcome"`
}

func decodeArgs(raw map[string]interface{}, out interface{}) error {
	if err := mapstructure.Decode(raw, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_call",
		mcp.WithDescription("Start a call session at the flow's opening beat. Generates a session id when omitted."),
		mcp.WithString("session_id", mcp.Description("Session id to create or resume (optional)")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartCall))

	getTool := mcp.NewTool("get_call",
		mcp.WithDescription("Fetch the current state of a call session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetCall))

	navigateTool := mcp.NewTool("navigate",
		mcp.WithDescription("Advance the call to a node. Objection nodes record a return point; unknown nodes leave the state unchanged."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Target node id")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(navigateTool, mcp.NewStructuredToolHandler(s.handleNavigate))

	backTool := mcp.NewTool("go_back",
		mcp.WithDescription("Step back to the previous beat of the conversation."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(backTool, mcp.NewStructuredToolHandler(s.handleGoBack))

	returnTool := mcp.NewTool("return_to_flow",
		mcp.WithDescription("Return from an objection detour to the recorded return point."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(returnTool, mcp.NewStructuredToolHandler(s.handleReturnToFlow))

	rewindTool := mcp.NewTool("rewind",
		mcp.WithDescription("Rewind the call to the first occurrence of a node in its history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node id to rewind to")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(rewindTool, mcp.NewStructuredToolHandler(s.handleRewind))

	removeTool := mcp.NewTool("remove_node",
		mcp.WithDescription("Remove every occurrence of a node from the call path and recompute metadata."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node id to remove")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(removeTool, mcp.NewStructuredToolHandler(s.handleRemove))

	notesTool := mcp.NewTool("set_notes",
		mcp.WithDescription("Replace the free-text notes on the call."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(notesTool, mcp.NewStructuredToolHandler(s.handleSetNotes))

	outcomeTool := mcp.NewTool("record_outcome",
		mcp.WithDescription("Record the call outcome (meeting_set, follow_up, send_info, not_interested)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("outcome", mcp.Required(), mcp.Description("Outcome value")),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(outcomeTool, mcp.NewStructuredToolHandler(s.handleRecordOutcome))

	searchTool := mcp.NewTool("search_scripts",
		mcp.WithDescription("Search every script in the flow graph for a phrase."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Search phrase")),
		mcp.WithOutputSchema[SearchResponse](),
	)
	s.mcpServer.AddTool(searchTool, mcp.NewStructuredToolHandler(s.handleSearch))

	summaryTool := mcp.NewTool("get_summary",
		mcp.WithDescription("Render the call summary sheet as plain text."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[TextResponse](),
	)
	s.mcpServer.AddTool(summaryTool, mcp.NewStructuredToolHandler(s.handleGetSummary))

	scriptsTool := mcp.NewTool("get_transcript",
		mcp.WithDescription("Render the scripts spoken along the call path as plain text."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[TextResponse](),
	)
	s.mcpServer.AddTool(scriptsTool, mcp.NewStructuredToolHandler(s.handleGetTranscript))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full flow graph definition for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.engine.Graph().Nodes())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// -- structured tool handlers --

func (s *Server) handleStartCall(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args sessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}
	if args.SessionID == "" {
		args.SessionID = uuid.NewString()
	}

	state, err := s.sessions.LoadOrStart(ctx, args.SessionID, func(ctx context.Context, id string) (*domain.State, error) {
		return s.engine.Start(ctx, id)
	})
	if err != nil {
		return CallResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return s.respond(true, state), nil
}

func (s *Server) handleGetCall(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args sessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}

	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return CallResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return s.respond(true, state), nil
}

func (s *Server) handleNavigate(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args nodeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}
	return s.mutate(ctx, args.SessionID, func(ctx context.Context, state *domain.State) bool {
		return s.engine.NavigateTo(ctx, state, args.NodeID)
	})
}

func (s *Server) handleGoBack(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args sessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}
	return s.mutate(ctx, args.SessionID, func(ctx context.Context, state *domain.State) bool {
		return s.engine.GoBack(ctx, state)
	})
}

func (s *Server) handleReturnToFlow(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args sessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}
	return s.mutate(ctx, args.SessionID, func(ctx context.Context, state *domain.State) bool {
		return s.engine.ReturnToFlow(ctx, state)
	})
}

func (s *Server) handleRewind(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args nodeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}
	return s.mutate(ctx, args.SessionID, func(ctx context.Context, state *domain.State) bool {
		return s.engine.RewindTo(ctx, state, args.NodeID)
	})
}

func (s *Server) handleRemove(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args nodeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}
	return s.mutate(ctx, args.SessionID, func(ctx context.Context, state *domain.State) bool {
		return s.engine.RemoveFromPath(ctx, state, args.NodeID)
	})
}

func (s *Server) handleSetNotes(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args textArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}

	clean, err := sanitize.Input(args.Text)
	if err != nil {
		s.logger.Warn("MCP set_notes: input rejected", "err", err, "size", len(args.Text))
		return CallResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.mutate(ctx, args.SessionID, func(ctx context.Context, state *domain.State) bool {
		s.engine.SetNotes(state, clean)
		return true
	})
}

func (s *Server) handleRecordOutcome(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (CallResponse, error) {
	var args outcomeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return CallResponse{}, err
	}
	return s.mutate(ctx, args.SessionID, func(ctx context.Context, state *domain.State) bool {
		return s.engine.SetOutcome(state, domain.Outcome(args.Outcome))
	})
}

// -- text tool handlers --

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (SearchResponse, error) {
	var args textArgs
	if err := decodeArgs(raw, &args); err != nil {
		return SearchResponse{}, err
	}

	query, err := sanitize.Input(args.Text)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	var matches []domain.Node
	err = s.sessions.WithLock(ctx, args.SessionID, func(ctx context.Context) error {
		state, err := s.sessions.Store().Load(ctx, args.SessionID)
		if err != nil {
			return err
		}
		matches = s.engine.Search(state, query)
		return s.sessions.Store().Save(ctx, args.SessionID, state)
	})
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search failed: %w", err)
	}

	if matches == nil {
		matches = []domain.Node{}
	}
	return SearchResponse{Query: query, Matches: matches}, nil
}

func (s *Server) handleGetSummary(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (TextResponse, error) {
	return s.renderText(ctx, raw, s.engine.Summary)
}

func (s *Server) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (TextResponse, error) {
	return s.renderText(ctx, raw, s.engine.Scripts)
}

func (s *Server) renderText(ctx context.Context, raw map[string]interface{}, render func(*domain.State) string) (TextResponse, error) {
	var args sessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return TextResponse{}, err
	}

	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return TextResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return TextResponse{Text: render(state)}, nil
}

// mutate runs fn against the locked session and persists the result when the
// operation applied. No-ops still return the (unchanged) state so the copilot
// can see where the call stands.
func (s *Server) mutate(ctx context.Context, sessionID string, fn func(ctx context.Context, state *domain.State) bool) (CallResponse, error) {
	var resp CallResponse
	err := s.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}

		applied := fn(ctx, state)
		if applied {
			if err := s.sessions.Store().Save(ctx, sessionID, state); err != nil {
				return err
			}
		}
		resp = s.respond(applied, state)
		return nil
	})
	if err != nil {
		return CallResponse{}, fmt.Errorf("operation failed: %w", err)
	}
	return resp, nil
}

func (s *Server) respond(applied bool, state *domain.State) CallResponse {
	resp := CallResponse{Applied: applied, State: state}
	if node, ok := s.engine.Current(state); ok {
		resp.Node = &node
		resp.Terminal = node.Terminal()
	}
	return resp
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("pitchline://graph", "Flow Graph Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Graph().Nodes())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal graph: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "pitchline://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
