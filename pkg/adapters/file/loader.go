// Package file provides filesystem adapters: a YAML flow-file loader and a
// JSON session store with atomic writes.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pitchline/pitchline/pkg/domain"
)

// flowFile is the on-disk shape of a call flow: a name plus a flat node list.
type flowFile struct {
	Name    string        `yaml:"name"`
	Opening string        `yaml:"opening,omitempty"`
	Nodes   []domain.Node `yaml:"nodes"`
}

// Loader implements ports.GraphLoader from a single YAML flow file.
// The whole file is parsed eagerly so a malformed flow fails at startup,
// not mid-call.
type Loader struct {
	name    string
	opening string
	nodes   map[string][]byte
}

// NewLoader reads and parses the flow file at path.
func NewLoader(path string) (*Loader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}
	return ParseFlow(raw)
}

// ParseFlow builds a Loader from raw YAML flow content.
func ParseFlow(raw []byte) (*Loader, error) {
	var f flowFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse flow file: %w", err)
	}
	if len(f.Nodes) == 0 {
		return nil, fmt.Errorf("flow file defines no nodes")
	}

	nodes := make(map[string][]byte, len(f.Nodes))
	for i, n := range f.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("flow node at index %d is missing an id", i)
		}
		if _, dup := nodes[n.ID]; dup {
			return nil, fmt.Errorf("flow file defines node %q twice", n.ID)
		}
		data, err := json.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal node %s: %w", n.ID, err)
		}
		nodes[n.ID] = data
	}

	return &Loader{name: f.Name, opening: f.Opening, nodes: nodes}, nil
}

// Name returns the flow's declared name, if any.
func (l *Loader) Name() string { return l.name }

// Opening returns the flow's pinned opening node ID, if any.
func (l *Loader) Opening() string { return l.opening }

// GetNode retrieves the raw definition of a node by ID.
func (l *Loader) GetNode(id string) ([]byte, error) {
	content, ok := l.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return content, nil
}

// ListNodes returns all available node IDs.
func (l *Loader) ListNodes() ([]string, error) {
	keys := make([]string, 0, len(l.nodes))
	for k := range l.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
