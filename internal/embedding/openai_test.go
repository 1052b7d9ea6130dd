package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEmbedderRequiresKey(t *testing.T) {
	_, err := NewOpenAIEmbedder("")
	assert.Error(t, err)
}

func TestEmbedStringsOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"alpha", "beta"}, req.Input)
		assert.Equal(t, "text-embedding-3-small", req.Model)

		// Out-of-order data entries must land at their declared index.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0.4,0.5]},
			{"index":0,"embedding":[0.1,0.2]}
		],"model":"text-embedding-3-small"}`))
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder("sk-test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	vecs, err := e.EmbedStrings(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float64{0.1, 0.2}, vecs[0])
	assert.Equal(t, []float64{0.4, 0.5}, vecs[1])
}

func TestEmbedStringsUnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	e, err := NewOpenAIEmbedder("sk-test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = e.EmbedStrings(context.Background(), []string{"alpha"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEmbedStringsServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder("sk-test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = e.EmbedStrings(context.Background(), []string{"alpha"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEmbedStringsAPIErrorIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder("sk-bad", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = e.EmbedStrings(context.Background(), []string{"alpha"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable, "auth failures must not trigger degraded mode")
	assert.Contains(t, err.Error(), "bad key")
}

func TestEmbedStringsCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1]}]}`))
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder("sk-test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = e.EmbedStrings(context.Background(), []string{"alpha", "beta"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count mismatch")
}

func TestEmbedStringsEmptyInput(t *testing.T) {
	e, err := NewOpenAIEmbedder("sk-test")
	require.NoError(t, err)

	vecs, err := e.EmbedStrings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestEmbedStringsSendsDimensions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 256, req["dimensions"])
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1]}]}`))
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder("sk-test", WithBaseURL(srv.URL), WithDimensions(256))
	require.NoError(t, err)

	_, err = e.EmbedStrings(context.Background(), []string{"alpha"})
	require.NoError(t, err)
}
