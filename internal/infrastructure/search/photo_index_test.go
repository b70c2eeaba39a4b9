package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

// newIndex points a real client at an httptest server that answers like Elasticsearch.
func newIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*PhotoIndex, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet && r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`))
			return
		}
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewPhotoIndex(es, "photos"), &calls
}

func TestIndexPutsDocument(t *testing.T) {
	idx, calls := newIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	p := &entity.Photo{ID: "p1", OwnerID: "u1", Title: "Sunset", Description: "beach", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, idx.Index(context.Background(), p))

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	require.Equal(t, http.MethodPut, c.method)
	require.Equal(t, "/photos/_doc/p1", c.path)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(c.body), &doc))
	require.Equal(t, "Sunset", doc["title"])
	require.Equal(t, "beach", doc["description"])
}

func TestIndexErrorStatus(t *testing.T) {
	idx, _ := newIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	})
	err := idx.Index(context.Background(), &entity.Photo{ID: "p1"})
	require.Error(t, err)
}

func TestRemoveIgnoresMissing(t *testing.T) {
	idx, calls := newIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	require.NoError(t, idx.Remove(context.Background(), "gone"))
	require.Equal(t, http.MethodDelete, (*calls)[0].method)
	require.Equal(t, "/photos/_doc/gone", (*calls)[0].path)
}

func TestSearchReturnsIDsInOrder(t *testing.T) {
	idx, calls := newIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"b"},{"_id":"a"}]}}`))
	})

	ids, err := idx.Search(context.Background(), "sun", 24)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, ids)

	c := (*calls)[0]
	require.Equal(t, "/photos/_search", c.path)
	require.True(t, strings.Contains(c.body, `"title^2"`))
	require.True(t, strings.Contains(c.body, `"size":24`))
}

func TestSearchMissingIndexIsEmpty(t *testing.T) {
	idx, _ := newIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	})
	ids, err := idx.Search(context.Background(), "sun", 5)
	require.NoError(t, err)
	require.Empty(t, ids)
}
