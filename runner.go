package pitchline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pitchline/pitchline/internal/sanitize"
	"github.com/pitchline/pitchline/pkg/domain"
)

// Runner drives an interactive call panel over the engine using provided IO.
// Injected readers and writers keep it testable and frontend-agnostic.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms script content before output. This is where the
// TUI plugs in markdown-to-ANSI rendering without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Set Input and Output before calling Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the interactive loop until the rep quits or the flow reaches a
// terminal beat and the rep confirms the wrap-up.
func (r *Runner) Run(ctx context.Context, engine *Engine, sessionID string) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	lineReader := bufio.NewReader(r.Input)
	writer := r.Output

	state, err := engine.Start(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to start call: %w", err)
	}

	if !r.Headless {
		fmt.Fprintln(writer, "--- Pitchline call panel ---")
		fmt.Fprintln(writer, "number = pick response | b = back | r = return to flow | /text = search | note text | done")
	}

	for {
		node, ok := engine.Current(state)
		if !ok {
			return fmt.Errorf("call positioned on unknown node %q", state.CurrentNodeID)
		}

		r.renderNode(writer, node, state)

		line, err := lineReader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(writer, engine.Summary(state))
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		input := strings.TrimSpace(line)
		switch {
		case input == "":
			continue

		case input == "done" || input == "q":
			fmt.Fprintln(writer, engine.Summary(state))
			return nil

		case input == "b":
			if !engine.GoBack(ctx, state) {
				fmt.Fprintln(writer, "(already at the first beat)")
			}

		case input == "r":
			if !engine.ReturnToFlow(ctx, state) {
				fmt.Fprintln(writer, "(no objection detour to return from)")
			}

		case strings.HasPrefix(input, "/"):
			r.runSearch(writer, engine, state, strings.TrimPrefix(input, "/"))

		case strings.HasPrefix(input, "note "):
			note, err := sanitize.Input(strings.TrimPrefix(input, "note "))
			if err != nil {
				fmt.Fprintf(writer, "(note rejected: %v)\n", err)
				continue
			}
			engine.SetNotes(state, note)
			fmt.Fprintln(writer, "(noted)")

		default:
			r.pickResponse(ctx, writer, engine, state, node, input)
		}
	}
}

func (r *Runner) renderNode(writer io.Writer, node domain.Node, state *domain.State) {
	fmt.Fprintf(writer, "\n[%s] %s\n", node.Type, node.Title)

	script := node.Script
	if r.Renderer != nil {
		if rendered, err := r.Renderer(script); err == nil {
			script = rendered
		}
	}
	fmt.Fprintln(writer, strings.TrimSpace(script))

	for _, point := range node.KeyPoints {
		fmt.Fprintf(writer, "  * %s\n", point)
	}

	if node.Terminal() {
		fmt.Fprintln(writer, "(terminal beat; type done to wrap up)")
		return
	}
	for i, resp := range node.Responses {
		fmt.Fprintf(writer, "  %d) %s\n", i+1, resp.Label)
	}
	if state.ReturnNodeID != "" {
		fmt.Fprintf(writer, "  (detour active; r returns to %s)\n", state.ReturnNodeID)
	}
}

func (r *Runner) pickResponse(ctx context.Context, writer io.Writer, engine *Engine, state *domain.State, node domain.Node, input string) {
	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(node.Responses) {
		fmt.Fprintf(writer, "(unrecognized input %q)\n", input)
		return
	}

	resp := node.Responses[choice-1]
	if !engine.NavigateTo(ctx, state, resp.NextNode) {
		fmt.Fprintf(writer, "(script defect: %q leads nowhere)\n", resp.Label)
	}
}

func (r *Runner) runSearch(writer io.Writer, engine *Engine, state *domain.State, query string) {
	query, err := sanitize.Input(query)
	if err != nil {
		fmt.Fprintf(writer, "(search rejected: %v)\n", err)
		return
	}

	matches := engine.Search(state, query)
	if len(matches) == 0 {
		fmt.Fprintln(writer, "(no matches)")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(writer, "  %s: %s\n", m.ID, m.Title)
	}
}
