package middleware

import (
	"context"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/ports"
)

const piiMask = "***"

// PII field names accepted by NewPIIMiddleware.
const (
	FieldProspectName = "prospect_name"
	FieldOrganization = "organization"
	FieldPainPoints   = "pain_points"
	FieldObjections   = "objections"
	FieldNotes        = "notes"
)

// DefaultPIIFields covers every operator-entered field.
var DefaultPIIFields = []string{
	FieldProspectName,
	FieldOrganization,
	FieldPainPoints,
	FieldObjections,
	FieldNotes,
}

type piiMiddleware struct {
	next   ports.StateStore
	fields map[string]bool
}

// NewPIIMiddleware creates a middleware that masks the named operator-entered
// fields before they reach the underlying store. Derived fields (EHR, DMS,
// competitors) come from the flow content, not the prospect, and are never
// masked.
func NewPIIMiddleware(fields []string) Middleware {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, fields: set}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	// Clone so the in-memory state driving the engine keeps its real values.
	scrubbed := state.Clone()

	if m.fields[FieldProspectName] && scrubbed.Metadata.ProspectName != "" {
		scrubbed.Metadata.ProspectName = piiMask
	}
	if m.fields[FieldOrganization] && scrubbed.Metadata.Organization != "" {
		scrubbed.Metadata.Organization = piiMask
	}
	if m.fields[FieldPainPoints] {
		maskAll(scrubbed.Metadata.PainPoints)
	}
	if m.fields[FieldObjections] {
		maskAll(scrubbed.Metadata.Objections)
	}
	if m.fields[FieldNotes] && scrubbed.Notes != "" {
		scrubbed.Notes = piiMask
	}

	return m.next.Save(ctx, sessionID, scrubbed)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskAll(items []string) {
	for i := range items {
		items[i] = piiMask
	}
}
