package search

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-admin-dashboard/internal/domain/event"
	"github.com/oksasatya/go-admin-dashboard/pkg/helpers"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	status := f.status
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"result":"ok","errors":false,"items":[]}`))
}

func (f *fakeES) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestIndexer(t *testing.T, fake *fakeES) *Indexer {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewIndexer(es, "users", helpers.NewNopLogger())
}

var testUser = entity.User{
	ID:        "usr_1",
	Name:      "Alice Smith",
	Email:     "alice@example.com",
	Role:      "Admin",
	Status:    entity.StatusActive,
	CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestIndexer_Updated(t *testing.T) {
	fake := &fakeES{}
	ix := newTestIndexer(t, fake)

	u := testUser
	require.NoError(t, ix.Handle(context.Background(), event.UserEvent{Type: event.TypeUserUpdated, UserID: u.ID, User: &u}))

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/users/_doc/usr_1", req.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Alice Smith", doc["name"])
	assert.Equal(t, "Active", doc["status"])
}

func TestIndexer_Deleted(t *testing.T) {
	fake := &fakeES{status: http.StatusNotFound}
	ix := newTestIndexer(t, fake)

	require.NoError(t, ix.Handle(context.Background(), event.UserEvent{Type: event.TypeUserDeleted, UserID: "usr_9"}))
	req := fake.last()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/users/_doc/usr_9", req.Path)
}

func TestIndexer_UpdateErrorIsReturned(t *testing.T) {
	fake := &fakeES{status: http.StatusInternalServerError}
	ix := newTestIndexer(t, fake)

	u := testUser
	assert.Error(t, ix.Handle(context.Background(), event.UserEvent{Type: event.TypeUserUpdated, User: &u}))
}

func TestIndexer_LoadedBulkIndexes(t *testing.T) {
	fake := &fakeES{}
	ix := newTestIndexer(t, fake)

	second := testUser
	second.ID = "usr_2"
	require.NoError(t, ix.Handle(context.Background(), event.UserEvent{Type: event.TypeUsersLoaded, Users: []entity.User{testUser, second}}))

	req := fake.last()
	assert.Equal(t, "/users/_bulk", req.Path)
	assert.Equal(t, 4, strings.Count(req.Body, "\n"))
}

func TestBulkBody(t *testing.T) {
	body, err := BulkBody("users", []entity.User{testUser})
	require.NoError(t, err)

	sc := bufio.NewScanner(strings.NewReader(body))
	require.True(t, sc.Scan())
	var meta map[string]map[string]string
	require.NoError(t, json.Unmarshal(sc.Bytes(), &meta))
	assert.Equal(t, map[string]string{"_index": "users", "_id": "usr_1"}, meta["index"])

	require.True(t, sc.Scan())
	var doc map[string]any
	require.NoError(t, json.Unmarshal(sc.Bytes(), &doc))
	assert.Equal(t, "alice@example.com", doc["email"])
	assert.False(t, sc.Scan())
}
