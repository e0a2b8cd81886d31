package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Node scripts and summaries are markdown, so the interactive panel gets
// styled output for free.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
