package records

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/pkg/notion"
)

// NotionStore is a Store over a Notion database. Company Name is the title
// property, Stage and Diligence Status are selects, Last Updated is a date
// and everything else is rich text.
type NotionStore struct {
	client notion.Client
	dbID   string
}

// NewNotion creates a NotionStore.
func NewNotion(client notion.Client, databaseID string) *NotionStore {
	return &NotionStore{client: client, dbID: databaseID}
}

func (s *NotionStore) FindByExternalID(ctx context.Context, externalID string) (*Record, error) {
	pages, err := notion.QueryByRichText(ctx, s.client, s.dbID, model.FieldExternalID, externalID)
	if err != nil {
		return nil, eris.Wrapf(err, "records: notion: find %q", externalID)
	}
	if len(pages) == 0 {
		return nil, nil
	}
	rec := fromNotion(pages[0])
	return &rec, nil
}

func (s *NotionStore) Update(ctx context.Context, externalID string, fields Fields) (*Record, error) {
	existing, err := s.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("notion", externalID)
	}

	page, err := s.client.UpdatePage(ctx, existing.ID, &notionapi.PageUpdateRequest{
		Properties: toNotion(fields),
	})
	if err != nil {
		return nil, eris.Wrapf(err, "records: notion: update %q", externalID)
	}
	rec := fromNotion(*page)
	return &rec, nil
}

func (s *NotionStore) Create(ctx context.Context, fields Fields) (*Record, error) {
	page, err := s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.dbID),
		},
		Properties: toNotion(fields),
	})
	if err != nil {
		return nil, eris.Wrap(err, "records: notion: create")
	}
	rec := fromNotion(*page)
	return &rec, nil
}

func (s *NotionStore) ListByStatus(ctx context.Context, status model.DiligenceStatus) ([]Record, error) {
	pages, err := notion.QueryBySelect(ctx, s.client, s.dbID, model.FieldDiligenceStatus, string(status))
	if err != nil {
		return nil, eris.Wrapf(err, "records: notion: list %q", status)
	}
	out := make([]Record, 0, len(pages))
	for _, p := range pages {
		out = append(out, fromNotion(p))
	}
	return out, nil
}

func toNotion(fields Fields) notionapi.Properties {
	props := make(notionapi.Properties, len(fields))
	for k, v := range fields {
		switch k {
		case model.FieldCompanyName:
			props[k] = notion.Title(fmt.Sprint(v))
		case model.FieldStage, model.FieldDiligenceStatus:
			props[k] = notion.Select(fmt.Sprint(v))
		default:
			if t, ok := v.(time.Time); ok {
				props[k] = notion.Date(t)
				continue
			}
			props[k] = notion.RichText(fmt.Sprint(v))
		}
	}
	return props
}

func fromNotion(p notionapi.Page) Record {
	f := make(Fields, len(p.Properties))
	for name, prop := range p.Properties {
		if v := notion.PlainValue(prop); v != nil {
			f[name] = v
		}
	}
	return Record{ID: string(p.ID), Fields: f}
}
