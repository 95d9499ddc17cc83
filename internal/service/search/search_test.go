package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/require"
)

func newStubES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestSearchDecodesHits(t *testing.T) {
	var gotBody map[string]interface{}
	client := newStubES(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"id": 7, "name": "Royal Villa", "amenity": "pool", "rate": 250}},
					{"_source": {"id": 9, "name": "Diamond Villa", "amenity": "spa", "rate": 400}}
				]
			}
		}`))
	})

	total, villas, err := Search(context.Background(), client, "villa", "royal", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, villas, 2)

	require.Equal(t, 7, villas[0].ID)
	require.Equal(t, "Royal Villa", villas[0].Name)
	require.Equal(t, "pool", villas[0].Amenity)
	require.Equal(t, 250.0, villas[0].Rate)
	require.Equal(t, "Diamond Villa", villas[1].Name)

	// the query body carries the search term and paging window
	query := gotBody["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	require.Equal(t, "royal", query["query"])
	require.EqualValues(t, 0, gotBody["from"])
	require.EqualValues(t, 10, gotBody["size"])
}

func TestSearchEmptyResult(t *testing.T) {
	client := newStubES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
	})

	total, villas, err := Search(context.Background(), client, "villa", "nothing", 0, 10)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, villas)
}

func TestSearchErrorStatus(t *testing.T) {
	client := newStubES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "boom"}`))
	})

	_, _, err := Search(context.Background(), client, "villa", "royal", 0, 10)
	require.Error(t, err)
}
