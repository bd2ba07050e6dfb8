package salesforce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements Client for testing.
type mockClient struct {
	queryFn     func(ctx context.Context, soql string, out any) error
	insertOneFn func(ctx context.Context, sObjectName string, record map[string]any) (string, error)
	updateOneFn func(ctx context.Context, sObjectName string, id string, fields map[string]any) error
}

func (m *mockClient) Query(ctx context.Context, soql string, out any) error {
	if m.queryFn != nil {
		return m.queryFn(ctx, soql, out)
	}
	return nil
}

func (m *mockClient) InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error) {
	if m.insertOneFn != nil {
		return m.insertOneFn(ctx, sObjectName, record)
	}
	return "001000000000001", nil
}

func (m *mockClient) UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error {
	if m.updateOneFn != nil {
		return m.updateOneFn(ctx, sObjectName, id, fields)
	}
	return nil
}

func TestMockClientImplementsInterface(t *testing.T) {
	var _ Client = (*mockClient)(nil)
}

func TestConnect_Validation(t *testing.T) {
	_, err := Connect(JWTConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client id is required")

	_, err = Connect(JWTConfig{ClientID: "abc", KeyPath: "/nonexistent/key.pem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read JWT private key")
}
