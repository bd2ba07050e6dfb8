package records

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/pkg/salesforce"
)

// SalesforceOptions maps CRM columns onto a Salesforce sObject.
type SalesforceOptions struct {
	SObject         string
	ExternalIDField string
	// FieldMap maps column names (case-insensitive) to API field names.
	FieldMap map[string]string
}

// SalesforceStore is a Store over a Salesforce sObject.
type SalesforceStore struct {
	client   salesforce.Client
	sObject  string
	extField string
	toAPI    map[string]string // lowercased column -> API name
	toColumn map[string]string // API name -> column
}

// NewSalesforce creates a SalesforceStore.
func NewSalesforce(client salesforce.Client, opts SalesforceOptions) *SalesforceStore {
	s := &SalesforceStore{
		client:   client,
		sObject:  opts.SObject,
		extField: opts.ExternalIDField,
		toAPI:    map[string]string{},
		toColumn: map[string]string{},
	}
	for _, col := range []string{
		model.FieldCompanyName,
		model.FieldStage,
		model.FieldDiligenceStatus,
		model.FieldAIRecommendation,
		model.FieldLastUpdated,
	} {
		if api := lookupFold(opts.FieldMap, col); api != "" {
			s.toAPI[strings.ToLower(col)] = api
			s.toColumn[api] = col
		}
	}
	for col, api := range opts.FieldMap {
		if _, ok := s.toAPI[strings.ToLower(col)]; !ok && api != "" {
			s.toAPI[strings.ToLower(col)] = api
			s.toColumn[api] = col
		}
	}
	s.toAPI[strings.ToLower(model.FieldExternalID)] = opts.ExternalIDField
	s.toColumn[opts.ExternalIDField] = model.FieldExternalID
	return s
}

func (s *SalesforceStore) FindByExternalID(ctx context.Context, externalID string) (*Record, error) {
	rec, err := salesforce.FindOneBy(ctx, s.client, s.sObject, s.selectFields(), s.extField, externalID)
	if err != nil {
		return nil, eris.Wrapf(err, "records: salesforce: find %q", externalID)
	}
	if rec == nil {
		return nil, nil
	}
	out := s.fromSalesforce(rec)
	return &out, nil
}

func (s *SalesforceStore) Update(ctx context.Context, externalID string, fields Fields) (*Record, error) {
	existing, err := s.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("salesforce", externalID)
	}

	if err := salesforce.UpdateRecord(ctx, s.client, s.sObject, existing.ID, s.toSalesforce(fields)); err != nil {
		return nil, eris.Wrapf(err, "records: salesforce: update %q", externalID)
	}

	merged := Fields{}
	for k, v := range existing.Fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Record{ID: existing.ID, Fields: merged}, nil
}

func (s *SalesforceStore) Create(ctx context.Context, fields Fields) (*Record, error) {
	id, err := salesforce.CreateRecord(ctx, s.client, s.sObject, s.toSalesforce(fields))
	if err != nil {
		return nil, eris.Wrap(err, "records: salesforce: create")
	}
	return &Record{ID: id, Fields: fields}, nil
}

func (s *SalesforceStore) ListByStatus(ctx context.Context, status model.DiligenceStatus) ([]Record, error) {
	field := s.toAPI[strings.ToLower(model.FieldDiligenceStatus)]
	if field == "" {
		return nil, eris.Errorf("records: salesforce: no field mapped for %q", model.FieldDiligenceStatus)
	}
	rows, err := salesforce.FindBy(ctx, s.client, s.sObject, s.selectFields(), field, string(status), 0)
	if err != nil {
		return nil, eris.Wrapf(err, "records: salesforce: list %q", status)
	}
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.fromSalesforce(r))
	}
	return out, nil
}

func (s *SalesforceStore) selectFields() []string {
	fields := make([]string, 0, len(s.toColumn))
	for api := range s.toColumn {
		fields = append(fields, api)
	}
	slices.Sort(fields)
	return fields
}

func (s *SalesforceStore) toSalesforce(fields Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		api := s.toAPI[strings.ToLower(k)]
		if api == "" {
			zap.L().Warn("records: salesforce: column has no field mapping, skipping", zap.String("column", k))
			continue
		}
		if t, ok := v.(time.Time); ok {
			v = t.UTC().Format("2006-01-02T15:04:05.000Z")
		}
		out[api] = v
	}
	return out
}

func (s *SalesforceStore) fromSalesforce(r salesforce.Record) Record {
	f := Fields{}
	for api, v := range r {
		if col, ok := s.toColumn[api]; ok && v != nil {
			f[col] = v
		}
	}
	return Record{ID: r.ID(), Fields: f}
}

func lookupFold(m map[string]string, key string) string {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
