// Package compiler turns raw node definitions from a loader into domain
// nodes.
package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/pitchline/pitchline/pkg/domain"
)

// Parser decodes raw node bytes into domain.Node values.
type Parser struct{}

// NewParser creates a parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a single raw JSON node definition.
func (p *Parser) Parse(raw []byte) (*domain.Node, error) {
	var node domain.Node
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("invalid node definition: %w", err)
	}
	if node.ID == "" {
		return nil, fmt.Errorf("node definition missing id")
	}
	return &node, nil
}
