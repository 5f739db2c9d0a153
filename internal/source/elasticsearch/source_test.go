package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
)

// fakeCluster answers the handful of endpoints the source calls.
type fakeCluster struct {
	mu       sync.Mutex
	docs     []domain.Product
	searches []map[string]any
	bulk     string
	created  bool
	exists   bool
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead:
		if f.exists {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut:
		f.created = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		data, _ := io.ReadAll(r.Body)
		f.bulk = string(data)
		_, _ = w.Write([]byte(`{"errors":false,"items":[]}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		var q map[string]any
		_ = json.NewDecoder(r.Body).Decode(&q)
		f.searches = append(f.searches, q)
		f.writePage(w, q)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeCluster) writePage(w http.ResponseWriter, q map[string]any) {
	size := int(q["size"].(float64))
	start := 0
	if after, ok := q["search_after"].([]any); ok {
		for i, d := range f.docs {
			if d.ID == after[0] {
				start = i + 1
			}
		}
	}
	end := min(start+size, len(f.docs))

	hits := make([]map[string]any, 0, end-start)
	for _, d := range f.docs[start:end] {
		hits = append(hits, map[string]any{"_source": d, "sort": []any{d.ID}})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"hits": hits}})
}

func newTestSource(t *testing.T, cluster http.Handler) *Source {
	t.Helper()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	s, err := New(srv.URL, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestFetchAll_SearchAfterPaging(t *testing.T) {
	cluster := &fakeCluster{docs: []domain.Product{
		{ID: "a", Name: "Asaas"}, {ID: "b", Name: "Bling"}, {ID: "c", Name: "Clicksign"},
	}}
	s := newTestSource(t, cluster)
	s.pageSize = 2

	products, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Clicksign", products[2].Name)

	require.Len(t, cluster.searches, 2)
	assert.NotContains(t, cluster.searches[0], "search_after")
	assert.Equal(t, []any{"b"}, cluster.searches[1]["search_after"])
	assert.Contains(t, cluster.searches[0]["query"], "match_all")
}

func TestFetchAll_EmptyIndex(t *testing.T) {
	s := newTestSource(t, &fakeCluster{})

	products, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestFetchAll_ErrorResponse(t *testing.T) {
	s := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception","reason":"no such index"},"status":400}`))
	}))

	_, err := s.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index_not_found_exception")
}

func TestEnsureIndex(t *testing.T) {
	cluster := &fakeCluster{}
	s := newTestSource(t, cluster)

	require.NoError(t, s.EnsureIndex(context.Background()))
	assert.True(t, cluster.created)

	cluster.created = false
	cluster.exists = true
	require.NoError(t, s.EnsureIndex(context.Background()))
	assert.False(t, cluster.created)
}

func TestBulkIndex(t *testing.T) {
	cluster := &fakeCluster{}
	s := newTestSource(t, cluster)

	require.NoError(t, s.BulkIndex(context.Background(), nil))
	assert.Empty(t, cluster.bulk)

	err := s.BulkIndex(context.Background(), []domain.Product{{ID: "p-1", Name: "Nubank"}})
	require.NoError(t, err)
	assert.Contains(t, cluster.bulk, `"_id":"p-1"`)
	assert.Contains(t, cluster.bulk, `"name":"Nubank"`)
}

func TestPing(t *testing.T) {
	s := newTestSource(t, &fakeCluster{})
	assert.NoError(t, s.Ping(context.Background()))
}
