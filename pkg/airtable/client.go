// Package airtable is a minimal client for the Airtable REST API.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// Client reads and writes records of a single Airtable table.
type Client interface {
	ListRecords(ctx context.Context, params ListParams) (*ListResponse, error)
	CreateRecord(ctx context.Context, fields map[string]any) (*Record, error)
	UpdateRecord(ctx context.Context, id string, fields map[string]any) (*Record, error)
}

// Record is an Airtable row.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// ListParams are the query parameters of GET /{base}/{table}.
type ListParams struct {
	FilterByFormula string
	MaxRecords      int
	PageSize        int
	Offset          string
}

// ListResponse is one page of records. Offset is set when more pages exist.
type ListResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	baseID  string
	tableID string
	http    *http.Client
}

// NewClient creates an Airtable client for one table.
func NewClient(apiKey, baseID, tableID string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		baseID:  baseID,
		tableID: tableID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) tableURL() string {
	return c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(c.tableID)
}

func (c *httpClient) ListRecords(ctx context.Context, params ListParams) (*ListResponse, error) {
	q := url.Values{}
	if params.FilterByFormula != "" {
		q.Set("filterByFormula", params.FilterByFormula)
	}
	if params.MaxRecords > 0 {
		q.Set("maxRecords", itoa(params.MaxRecords))
	}
	if params.PageSize > 0 {
		q.Set("pageSize", itoa(params.PageSize))
	}
	if params.Offset != "" {
		q.Set("offset", params.Offset)
	}

	u := c.tableURL()
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var out ListResponse
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, eris.Wrap(err, "airtable: list records")
	}
	return &out, nil
}

func (c *httpClient) CreateRecord(ctx context.Context, fields map[string]any) (*Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(), map[string]any{"fields": fields}, &out); err != nil {
		return nil, eris.Wrap(err, "airtable: create record")
	}
	return &out, nil
}

func (c *httpClient) UpdateRecord(ctx context.Context, id string, fields map[string]any) (*Record, error) {
	var out Record
	u := c.tableURL() + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, u, map[string]any{"fields": fields}, &out); err != nil {
		return nil, eris.Wrapf(err, "airtable: update record %s", id)
	}
	return &out, nil
}

func (c *httpClient) do(ctx context.Context, method, u string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
