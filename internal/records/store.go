// Package records reads and writes a company's deal record in the external
// CRM. Records are addressed by the caller-supplied External ID; the
// backend's own row id never leaves this package except through Record.ID.
package records

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/model"
)

// ErrNotFound is returned (wrapped) by Update when no record carries the
// external id.
var ErrNotFound = eris.New("record not found")

// Fields is a partial record keyed by CRM column name (see model.Field*).
type Fields map[string]any

// Record is a CRM row.
type Record struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// ExternalID returns the record's External ID column, if present.
func (r Record) ExternalID() string {
	s, _ := r.Fields[model.FieldExternalID].(string)
	return s
}

// Store is the external record store. Update patches only the given fields.
type Store interface {
	// FindByExternalID returns nil, nil when no record matches.
	FindByExternalID(ctx context.Context, externalID string) (*Record, error)
	Update(ctx context.Context, externalID string, fields Fields) (*Record, error)
	Create(ctx context.Context, fields Fields) (*Record, error)
	ListByStatus(ctx context.Context, status model.DiligenceStatus) ([]Record, error)
}

func notFound(backend, externalID string) error {
	return eris.Wrapf(ErrNotFound, "records: %s: external id %q", backend, externalID)
}
