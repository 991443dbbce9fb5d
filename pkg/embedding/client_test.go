package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeEndpoint(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&Config{
		Endpoint:     srv.URL,
		ServiceToken: "test-token",
		Model:        "text-embedding-3-small",
		HTTPTimeoutS: 5,
	})
	require.NoError(t, err)
	return srv, client
}

func TestClient_Embed(t *testing.T) {
	var gotAuth, gotModel string
	var gotInput []string

	_, client := newFakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model
		gotInput = req.Input

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.1, 0.2, 0.3}},
			},
		})
	})

	vec, err := client.Embed(context.Background(), "hash a password")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "text-embedding-3-small", gotModel)
	assert.Equal(t, []string{"hash a password"}, gotInput)
}

func TestClient_EmbedBatchPreservesOrder(t *testing.T) {
	_, client := newFakeEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{1}},
				{"embedding": []float32{2}},
			},
		})
	})

	vecs, err := client.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1}, vecs[0])
	assert.Equal(t, []float32{2}, vecs[1])
}

func TestClient_ProviderHTTPError(t *testing.T) {
	_, client := newFakeEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Embed(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestClient_CountMismatch(t *testing.T) {
	_, client := newFakeEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	})

	_, err := client.Embed(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrProvider)
}

// emptyProvider returns an empty vector slice with a nil error, as a
// misbehaving custom backend might.
type emptyProvider struct{}

func (emptyProvider) Create(context.Context, ...string) ([][]float32, error) {
	return [][]float32{}, nil
}

func TestClient_EmptyProviderResult(t *testing.T) {
	client := NewClientWithProvider(emptyProvider{})

	_, err := client.Embed(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrProvider, "an empty provider result must surface as an error, not a panic")
}

func TestClient_DeadlinePreserved(t *testing.T) {
	_, client := newFakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Embed(ctx, "anything")
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "callers must be able to tell a deadline from an outage")
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)
}
