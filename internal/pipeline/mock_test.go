package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/records"
)

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindByExternalID(ctx context.Context, externalID string) (*records.Record, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*records.Record), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, externalID string, fields records.Fields) (*records.Record, error) {
	args := m.Called(ctx, externalID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*records.Record), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, fields records.Fields) (*records.Record, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*records.Record), args.Error(1)
}

func (m *mockStore) ListByStatus(ctx context.Context, status model.DiligenceStatus) ([]records.Record, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]records.Record), args.Error(1)
}

// updates returns the field patches passed to Update, in call order.
func (m *mockStore) updates() []records.Fields {
	var out []records.Fields
	for _, c := range m.Calls {
		if c.Method == "Update" {
			out = append(out, c.Arguments.Get(2).(records.Fields))
		}
	}
	return out
}

// withStatus matches an Update patch carrying the given Diligence Status.
func withStatus(s model.DiligenceStatus) any {
	return mock.MatchedBy(func(f records.Fields) bool {
		return f[model.FieldDiligenceStatus] == string(s)
	})
}

// --- Sink Mock ---

type mockSink struct {
	mock.Mock
}

func (m *mockSink) SendReport(ctx context.Context, companyName, artifactPath, summary string) bool {
	return m.Called(ctx, companyName, artifactPath, summary).Bool(0)
}

func (m *mockSink) SendNotification(ctx context.Context, subject, message string) bool {
	return m.Called(ctx, subject, message).Bool(0)
}

// --- Stage Mocks ---

type mockResearcher struct {
	mock.Mock
}

func (m *mockResearcher) Research(ctx context.Context, c model.Company) (*model.Dossier, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dossier), args.Error(1)
}

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, c model.Company, d *model.Dossier) (*model.Analysis, error) {
	args := m.Called(ctx, c, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analysis), args.Error(1)
}

type mockComposer struct {
	mock.Mock
}

func (m *mockComposer) Compose(ctx context.Context, c model.Company, d *model.Dossier, an *model.Analysis) (*model.Report, error) {
	args := m.Called(ctx, c, d, an)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(context.Context, model.Company, *model.Dossier) (*model.Analysis, error) {
	panic("nil map write")
}
