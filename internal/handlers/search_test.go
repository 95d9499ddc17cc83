package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/tedas/villa_api/internal/models"
)

func newStubES(t *testing.T, response string) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestSearchHandlerRequiresQuery(t *testing.T) {
	h := &SearchHandler{Index: "villa"}
	e := echo.New()

	_, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/search", nil)
	err := h.Search(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSearchHandlerReturnsVillas(t *testing.T) {
	h := &SearchHandler{
		ES: newStubES(t, `{
			"hits": {
				"total": {"value": 1},
				"hits": [{"_source": {"id": 7, "name": "Royal Villa", "amenity": "pool"}}]
			}
		}`),
		Index: "villa",
	}
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/search?q=royal", nil)
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total  int64          `json:"total"`
		Villas []models.Villa `json:"villas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 1, resp.Total)
	require.Len(t, resp.Villas, 1)
	require.Equal(t, 7, resp.Villas[0].ID)
	require.Equal(t, "Royal Villa", resp.Villas[0].Name)
	require.Equal(t, "pool", resp.Villas[0].Amenity)
}
