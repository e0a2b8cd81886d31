package pitchline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/pitchline/pitchline/internal/compiler"
	"github.com/pitchline/pitchline/internal/engine"
	fileadapter "github.com/pitchline/pitchline/pkg/adapters/file"
	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/flow"
	"github.com/pitchline/pitchline/pkg/ports"
)

// Version is the library version, surfaced by the CLI and the HTTP /info
// endpoint.
const Version = "0.3.0"

// Engine is the high-level entry point for the library. It materializes the
// flow graph from a loader and exposes the navigation core.
//
// Navigation, metadata, search and export methods are promoted from the
// embedded core.
type Engine struct {
	*engine.Engine

	name    string
	loader  ports.GraphLoader
	graph   *flow.Graph
	hooks   domain.LifecycleHooks
	hints   flow.HintFunc
	opening string
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom GraphLoader, bypassing the default flow-file
// initialization.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithHints overrides the metadata hint source. Pass flow.LegacyHints for
// graphs that still encode signals in node id conventions.
func WithHints(fn flow.HintFunc) Option {
	return func(e *Engine) {
		e.hints = fn
	}
}

// WithOpeningNode pins the node new calls start at.
func WithOpeningNode(nodeID string) Option {
	return func(e *Engine) {
		e.opening = nodeID
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine. By default it reads a YAML flow file at
// flowPath; if WithLoader is provided, flowPath may be empty and only serves
// as a descriptive label.
func New(flowPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if flowPath == "" {
			return nil, fmt.Errorf("flowPath is required when no custom loader is provided")
		}

		loader, err := fileadapter.NewLoader(flowPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load flow file: %w", err)
		}
		eng.loader = loader
		eng.name = loader.Name()
		if eng.opening == "" {
			eng.opening = loader.Opening()
		}
	}

	if eng.name == "" && flowPath != "" {
		eng.name = filepath.Base(flowPath)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.name != "" {
		eng.logger = eng.logger.With("flow", eng.name)
	}

	graph, err := materialize(eng.loader)
	if err != nil {
		return nil, err
	}
	eng.graph = graph

	coreOpts := []engine.Option{
		engine.WithLifecycleHooks(eng.hooks),
		engine.WithLogger(eng.logger),
	}
	if eng.hints != nil {
		coreOpts = append(coreOpts, engine.WithHints(eng.hints))
	}
	if eng.opening != "" {
		coreOpts = append(coreOpts, engine.WithOpeningNode(eng.opening))
	}

	eng.Engine = engine.New(graph, coreOpts...)

	return eng, nil
}

// materialize pulls every node out of the loader and compiles the flow graph.
func materialize(loader ports.GraphLoader) (*flow.Graph, error) {
	ids, err := loader.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	parser := compiler.NewParser()
	nodes := make([]domain.Node, 0, len(ids))
	for _, id := range ids {
		raw, err := loader.GetNode(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load node %s: %w", id, err)
		}
		node, err := parser.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
		nodes = append(nodes, *node)
	}

	graph, err := flow.New(nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build flow graph: %w", err)
	}
	return graph, nil
}

// Name returns the flow's descriptive name.
func (e *Engine) Name() string {
	return e.name
}

// Loader returns the underlying GraphLoader used by the engine.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}

// Lint reports authoring defects in the loaded flow (dangling edges, missing
// openings, unreachable nodes).
func (e *Engine) Lint() []flow.Finding {
	return flow.Lint(e.graph)
}
