package ports

// GraphLoader defines how the engine retrieves node definitions.
// This decouples the content source (YAML files, memory, CMS exports).
type GraphLoader interface {
	// GetNode retrieves the raw JSON definition of a node by ID.
	GetNode(id string) ([]byte, error)

	// ListNodes returns all node IDs available in the graph.
	// Used to materialize the full graph and for introspection tools.
	ListNodes() ([]string, error)
}
