package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/require"
)

func newFakeES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestSearchDecodesHits(t *testing.T) {
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"hits": {
				"total": {"value": 1},
				"hits": [
					{"_source": {"id": 3, "name": "Sony A7 III", "category": "cameras", "price": 50000}}
				]
			}
		}`))
		require.NoError(t, err)
	})

	total, prods, err := Search(context.Background(), es, "products", "sony", 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, prods, 1)
	require.Equal(t, uint(3), prods[0].ID)
	require.Equal(t, "Sony A7 III", prods[0].Name)
	require.Equal(t, "cameras", prods[0].Category)
	require.Equal(t, float64(50000), prods[0].Price)
}

func TestSearchNoHits(t *testing.T) {
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
		require.NoError(t, err)
	})

	total, prods, err := Search(context.Background(), es, "products", "nothing", 0, 10)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, prods)
}
