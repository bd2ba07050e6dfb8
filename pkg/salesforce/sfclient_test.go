package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSFClient creates an sfClient backed by an httptest server.
func newTestSFClient(t *testing.T, handler http.Handler) (Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)

	sf, err := gosf.Init(gosf.Creds{
		AccessToken: "test-token",
		Domain:      ts.URL,
	},
		gosf.WithValidateAuthentication(false),
		gosf.WithRoundTripper(http.DefaultTransport),
	)
	require.NoError(t, err)
	require.NotNil(t, sf)

	return NewClient(sf), ts
}

func TestSFClient_Query(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/query")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 1,
			"done":      true,
			"records": []map[string]any{
				{
					"attributes": map[string]any{"type": "Account"},
					"Id":         "001xx",
					"Name":       "Acme Corp",
					"Website":    "acme.com",
				},
			},
		})
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	var records []Record
	err := client.Query(context.Background(), "SELECT Id, Name FROM Account", &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "001xx", records[0].ID())
	assert.Equal(t, "Acme Corp", records[0]["Name"])
}

func TestSFClient_Query_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"message": "invalid SOQL", "errorCode": "MALFORMED_QUERY"},
		})
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	var records []Record
	err := client.Query(context.Background(), "INVALID SOQL", &records)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sf: query")
}

func TestSFClient_InsertOne(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path != "/query" {
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      "001new",
				"success": true,
				"errors":  []any{},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	id, err := client.InsertOne(context.Background(), "Account", map[string]any{
		"Name": "New Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, "001new", id)
}

func TestSFClient_InsertOne_Failure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      "",
				"success": false,
				"errors":  []map[string]any{{"message": "required field missing"}},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	_, err := client.InsertOne(context.Background(), "Account", map[string]any{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert Account failed")
}

func TestSFClient_UpdateOne(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	fields := map[string]any{"Diligence_Status__c": "Complete"}
	err := client.UpdateOne(context.Background(), "Account", "001xx", fields)
	require.NoError(t, err)
	assert.NotContains(t, fields, "Id")
}

func TestSFClient_UpdateOne_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"message": "invalid field", "errorCode": "INVALID_FIELD"},
		})
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	err := client.UpdateOne(context.Background(), "Account", "001xx", map[string]any{
		"BadField": "value",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sf: update")
}

func TestSFClient_CancelledContext(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var records []Record
	assert.Error(t, client.Query(ctx, "SELECT Id FROM Account", &records))
	_, err := client.InsertOne(ctx, "Account", map[string]any{"Name": "x"})
	assert.Error(t, err)
	assert.Error(t, client.UpdateOne(ctx, "Account", "001", map[string]any{"Name": "x"}))
}
