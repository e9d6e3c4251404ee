package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabmarks/tabmarks-server/internal/search"
	"github.com/tabmarks/tabmarks-server/internal/service"
	"github.com/tabmarks/tabmarks-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope mirrors the error envelope for decoding in tests.
type testErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a test server backed by a real store and
// search index in a temp directory.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search.bleve"),
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	services := &Services{
		Tab:      service.NewTabService(st, index, logger),
		Group:    service.NewGroupService(st, index, logger),
		Bookmark: service.NewBookmarkService(st, index, nil, logger),
		Search:   service.NewSearchService(st, index, logger),
	}

	s := NewServer(st, services, Options{}, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

// createTestTab creates a tab and returns its ID.
func (ts *testServer) createTestTab(t *testing.T, name string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/tabs", map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "create tab failed: %s", resp.Body.String())

	envelope := decodeEnvelope[TabResponse](t, resp.Body.Bytes())
	return envelope.Data.ID
}

// createTestGroup creates a group and returns its ID.
func (ts *testServer) createTestGroup(t *testing.T, name string, tabID *string) string {
	t.Helper()
	body := map[string]any{"name": name}
	if tabID != nil {
		body["tabId"] = *tabID
	}
	resp := ts.api.Post("/api/v1/groups", body)
	require.Equal(t, http.StatusOK, resp.Code, "create group failed: %s", resp.Body.String())

	envelope := decodeEnvelope[GroupResponse](t, resp.Body.Bytes())
	return envelope.Data.ID
}

// createTestBookmark creates a bookmark and returns its ID.
func (ts *testServer) createTestBookmark(t *testing.T, body map[string]any) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/bookmarks", body)
	require.Equal(t, http.StatusOK, resp.Code, "create bookmark failed: %s", resp.Body.String())

	envelope := decodeEnvelope[BookmarkResponse](t, resp.Body.Bytes())
	return envelope.Data.ID
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.Contains(t, []string{"healthy", "degraded"}, envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
}
