package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches all pages matching filter, following the pagination
// cursor. A nil filter returns every page in the database.
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{}
	if filter != nil {
		req.Filter = filter.Filter
		req.Sorts = filter.Sorts
		req.PageSize = filter.PageSize
	}

	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}
		all = append(all, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		next := *req
		next.StartCursor = resp.NextCursor
		req = &next
	}

	return all, nil
}

// QueryByRichText returns pages whose rich text property equals value.
func QueryByRichText(ctx context.Context, c Client, dbID, property, value string) ([]notionapi.Page, error) {
	pages, err := QueryAll(ctx, c, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: property,
			RichText: &notionapi.TextFilterCondition{Equals: value},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "notion: query %s = %q", property, value)
	}
	return pages, nil
}

// QueryBySelect returns pages whose select property equals value.
func QueryBySelect(ctx context.Context, c Client, dbID, property, value string) ([]notionapi.Page, error) {
	pages, err := QueryAll(ctx, c, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: property,
			Select:   &notionapi.SelectFilterCondition{Equals: value},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "notion: query %s = %q", property, value)
	}
	return pages, nil
}
