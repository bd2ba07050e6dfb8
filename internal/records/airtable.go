package records

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/pkg/airtable"
)

// AirtableTimeLayout is how timestamps are written to Airtable text columns.
const AirtableTimeLayout = "01/02/2006, 03:04 PM"

// AirtableStore is a Store over one Airtable table.
type AirtableStore struct {
	client airtable.Client
}

// NewAirtable creates an AirtableStore.
func NewAirtable(client airtable.Client) *AirtableStore {
	return &AirtableStore{client: client}
}

func (s *AirtableStore) FindByExternalID(ctx context.Context, externalID string) (*Record, error) {
	resp, err := s.client.ListRecords(ctx, airtable.ListParams{
		FilterByFormula: airtable.FieldEquals(model.FieldExternalID, externalID),
		MaxRecords:      1,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "records: airtable: find %q", externalID)
	}
	if len(resp.Records) == 0 {
		return nil, nil
	}
	rec := fromAirtable(resp.Records[0])
	return &rec, nil
}

func (s *AirtableStore) Update(ctx context.Context, externalID string, fields Fields) (*Record, error) {
	existing, err := s.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("airtable", externalID)
	}

	updated, err := s.client.UpdateRecord(ctx, existing.ID, toAirtable(fields))
	if err != nil {
		return nil, eris.Wrapf(err, "records: airtable: update %q", externalID)
	}
	rec := fromAirtable(*updated)
	return &rec, nil
}

func (s *AirtableStore) Create(ctx context.Context, fields Fields) (*Record, error) {
	created, err := s.client.CreateRecord(ctx, toAirtable(fields))
	if err != nil {
		return nil, eris.Wrap(err, "records: airtable: create")
	}
	rec := fromAirtable(*created)
	return &rec, nil
}

func (s *AirtableStore) ListByStatus(ctx context.Context, status model.DiligenceStatus) ([]Record, error) {
	rows, err := airtable.ListAll(ctx, s.client, airtable.FieldEquals(model.FieldDiligenceStatus, string(status)))
	if err != nil {
		return nil, eris.Wrapf(err, "records: airtable: list %q", status)
	}
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromAirtable(r))
	}
	return out, nil
}

func toAirtable(fields Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if t, ok := v.(time.Time); ok {
			v = t.Format(AirtableTimeLayout)
		}
		out[k] = v
	}
	return out
}

func fromAirtable(r airtable.Record) Record {
	f := Fields(r.Fields)
	if f == nil {
		f = Fields{}
	}
	return Record{ID: r.ID, Fields: f}
}
