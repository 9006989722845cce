package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/explorer"
	"github.com/leapstack-labs/leapdocs/internal/notifier"
	"github.com/leapstack-labs/leapdocs/internal/search"
	"github.com/leapstack-labs/leapdocs/internal/testutil"
	"github.com/leapstack-labs/leapdocs/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := testutil.WriteTarget(t, true)
	return New(Config{
		Source: artifact.DirSource{Dir: dir},
		Logger: testutil.NewTestLogger(t),
	})
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandlers_NotReady(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	for _, target := range []string{"/healthz", "/api/project", "/api/tree", "/api/search?q=x", "/api/nodes/" + testutil.OrdersID} {
		t.Run(target, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, target)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	rec := do(t, h, http.MethodPost, "/api/tree/select/"+testutil.OrdersID)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlers_Ready(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Reload(context.Background()))
	h := s.Handler()
	id := s.store.Current().ID

	t.Run("healthz", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/healthz")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]string](t, rec)
		assert.Equal(t, id, body["project_id"])
	})

	t.Run("project", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/project")
		require.Equal(t, http.StatusOK, rec.Code)
		summary := decode[ProjectSummary](t, rec)
		assert.Equal(t, id, summary.ID)
		assert.Equal(t, 5, summary.Stats.Models)
		assert.Equal(t, 2, summary.Stats.WithSQL)
	})

	t.Run("node", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/nodes/"+testutil.OrdersID)
		require.Equal(t, http.StatusOK, rec.Code)
		node := decode[artifact.Node](t, rec)
		assert.Equal(t, "fct_orders", node.Alias)
		col, ok := node.Column("order_id")
		require.True(t, ok)
		assert.Len(t, col.Tests, 2)
	})

	t.Run("unknown node", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/nodes/model.analytics.nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, decode[map[string]string](t, rec)["error"], "node not found")
	})

	t.Run("tree with selection", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/tree?select="+testutil.OrdersID)
		require.Equal(t, http.StatusOK, rec.Code)
		trees := decode[explorer.Trees](t, rec)
		assert.Equal(t, id, trees.ProjectID)
		require.Len(t, trees.Project, 1)
		assert.True(t, trees.Project[0].Active)
		assert.Len(t, tree.Leaves(trees.Database), 4)
	})

	t.Run("select", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/tree/select/"+testutil.StgOrdersID)
		require.Equal(t, http.StatusOK, rec.Code)
		trees := decode[explorer.Trees](t, rec)
		assert.Equal(t, testutil.StgOrdersID, trees.Selected)

		current := decode[explorer.Trees](t, do(t, h, http.MethodGet, "/api/tree"))
		for _, leaf := range tree.Leaves(current.Project) {
			assert.Equal(t, leaf.UniqueID == testutil.StgOrdersID, leaf.Active, leaf.UniqueID)
		}
	})

	t.Run("search", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/search?q=ord")
		require.Equal(t, http.StatusOK, rec.Code)
		results := decode[[]search.Result](t, rec)
		require.NotEmpty(t, results)
		assert.Equal(t, testutil.StgOrdersID, results[0].Model.UniqueID)
		assert.Equal(t, "ord", results[0].Matches[0].Value)
	})

	t.Run("empty search lists all models", func(t *testing.T) {
		results := decode[[]search.Result](t, do(t, h, http.MethodGet, "/api/search"))
		assert.Len(t, results, 5)
	})
}

func TestHandlers_Events(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Reload(context.Background()))
	first := s.store.Current().ID

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(needle string) {
		t.Helper()
		for lines.Scan() {
			if strings.Contains(lines.Text(), needle) {
				return
			}
		}
		t.Fatalf("stream ended before %q: %v", needle, lines.Err())
	}

	waitFor(first)

	// wait until the handler has subscribed before reloading
	require.Eventually(t, func() bool { return s.Notifier().Len() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Reload(ctx))
	second := s.store.Current().ID
	require.NotEqual(t, first, second)

	waitFor(second)
}

func TestNewHandlers_NilLogger(t *testing.T) {
	h := NewHandlers(nil, nil, notifier.New(), nil)
	assert.NotNil(t, h.logger)
}
