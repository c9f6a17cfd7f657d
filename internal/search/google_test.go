package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfiguredClient(srvURL string) *GoogleClient {
	client := NewGoogleClient(Config{APIKey: "key", EngineID: "cx"})
	client.baseURL = srvURL
	return client
}

func TestSearch_NotConfigured(t *testing.T) {
	client := NewGoogleClient(Config{})

	_, err := client.Search(context.Background(), "golang goroutines", 3)

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSearch_MapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang goroutines", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("num"))
		_, _ = w.Write([]byte(`{"items":[
			{"title":"A Tour of Go","link":"https://go.dev/tour","snippet":"Learn Go"},
			{"title":"Effective Go","link":"https://go.dev/doc/effective_go","snippet":"Tips"}
		]}`))
	}))
	defer srv.Close()

	client := newConfiguredClient(srv.URL)
	results, err := client.Search(context.Background(), "golang goroutines", 3)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Result{Title: "A Tour of Go", URL: "https://go.dev/tour", Snippet: "Learn Go"}, results[0])
}

func TestSearch_EmptyResultSetIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newConfiguredClient(srv.URL)
	results, err := client.Search(context.Background(), "anything", 3)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	client := newConfiguredClient(srv.URL)
	_, err := client.Search(context.Background(), "anything", 3)

	assert.Error(t, err)
}
