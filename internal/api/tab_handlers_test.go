package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTab(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tabs", map[string]any{
		"name":  "Work",
		"color": "#ff0000",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[TabResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "Work", envelope.Data.Name)
	assert.Equal(t, "#ff0000", envelope.Data.Color)
}

func TestCreateTab_InvalidColor(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tabs", map[string]any{
		"name":  "Work",
		"color": "not-a-color",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateTab_DuplicateName(t *testing.T) {
	ts := setupTestServer(t)

	ts.createTestTab(t, "Work")

	resp := ts.api.Post("/api/v1/tabs", map[string]any{"name": "Work"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "CONFLICT", envelope.Code)
}

func TestListTabs(t *testing.T) {
	ts := setupTestServer(t)

	ts.createTestTab(t, "Work")
	ts.createTestTab(t, "Personal")

	resp := ts.api.Get("/api/v1/tabs")
	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[ListTabsResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Tabs, 2)
	assert.Equal(t, "Work", envelope.Data.Tabs[0].Name)
	assert.Equal(t, "Personal", envelope.Data.Tabs[1].Name)
}

func TestGetTab_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/tabs/tab_missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateTab_PartialUpdate(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tabs", map[string]any{
		"name":  "Work",
		"color": "#ff0000",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	tabID := decodeEnvelope[TabResponse](t, resp.Body.Bytes()).Data.ID

	// Update only the name; color is preserved.
	resp = ts.api.Patch("/api/v1/tabs/"+tabID, map[string]any{"name": "Personal"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[TabResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Personal", envelope.Data.Name)
	assert.Equal(t, "#ff0000", envelope.Data.Color)
}

func TestDeleteTab_CascadesToGroupsAndBookmarks(t *testing.T) {
	ts := setupTestServer(t)

	tabID := ts.createTestTab(t, "Doomed")
	survivorID := ts.createTestTab(t, "Survivor")
	groupID := ts.createTestGroup(t, "Reading", &tabID)

	legacyID := ts.createTestBookmark(t, map[string]any{
		"name":   "Legacy",
		"url":    "https://legacy.example.com",
		"tabIds": []string{tabID},
	})
	sharedID := ts.createTestBookmark(t, map[string]any{
		"name":   "Shared",
		"url":    "https://shared.example.com",
		"tabIds": []string{tabID, survivorID},
	})

	resp := ts.api.Delete("/api/v1/tabs/" + tabID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Tab, its group, and the exclusively attached bookmark are gone.
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/tabs/"+tabID).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/groups/"+groupID).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/bookmarks/"+legacyID).Code)

	// The shared bookmark survives with its primary tab moved.
	resp = ts.api.Get("/api/v1/bookmarks/" + sharedID)
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[BookmarkResponse](t, resp.Body.Bytes())
	require.NotNil(t, envelope.Data.TabID)
	assert.Equal(t, survivorID, *envelope.Data.TabID)
	assert.Equal(t, []string{survivorID}, envelope.Data.TabIDs)
}

func TestGetTabGroups_Ordered(t *testing.T) {
	ts := setupTestServer(t)

	tabID := ts.createTestTab(t, "Work")
	firstID := ts.createTestGroup(t, "First", &tabID)
	secondID := ts.createTestGroup(t, "Second", &tabID)

	// Top-level group must not leak into the tab scope.
	ts.createTestGroup(t, "Top", nil)

	resp := ts.api.Get("/api/v1/tabs/" + tabID + "/groups")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[TabGroupsResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Groups, 2)
	assert.Equal(t, firstID, envelope.Data.Groups[0].ID)
	assert.Equal(t, secondID, envelope.Data.Groups[1].ID)
}

func TestGetTabBookmarks(t *testing.T) {
	ts := setupTestServer(t)

	tabID := ts.createTestTab(t, "Work")
	otherID := ts.createTestTab(t, "Other")

	bookmarkID := ts.createTestBookmark(t, map[string]any{
		"name":   "One",
		"url":    "https://example.com",
		"tabIds": []string{tabID},
	})
	ts.createTestBookmark(t, map[string]any{
		"name":   "Two",
		"url":    "https://example.org",
		"tabIds": []string{otherID},
	})

	resp := ts.api.Get("/api/v1/tabs/" + tabID + "/bookmarks")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[TabBookmarksResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Bookmarks, 1)
	assert.Equal(t, bookmarkID, envelope.Data.Bookmarks[0].ID)
}

func TestDeleteAllTabs(t *testing.T) {
	ts := setupTestServer(t)

	tab1 := ts.createTestTab(t, "Work")
	tab2 := ts.createTestTab(t, "Home")
	ts.createTestGroup(t, "Scoped", &tab1)
	topID := ts.createTestGroup(t, "Top", nil)

	ts.createTestBookmark(t, map[string]any{
		"name":   "Attached",
		"url":    "https://example.com/a",
		"tabIds": []string{tab1, tab2},
	})
	freeID := ts.createTestBookmark(t, map[string]any{
		"name": "Free",
		"url":  "https://example.com/f",
	})

	resp := ts.api.Delete("/api/v1/tabs")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	listResp := ts.api.Get("/api/v1/tabs")
	envelope := decodeEnvelope[ListTabsResponse](t, listResp.Body.Bytes())
	assert.Empty(t, envelope.Data.Tabs)

	// Top-level groups and unattached bookmarks survive.
	groupsResp := ts.api.Get("/api/v1/groups")
	groupsEnvelope := decodeEnvelope[ListGroupsResponse](t, groupsResp.Body.Bytes())
	require.Len(t, groupsEnvelope.Data.Groups, 1)
	assert.Equal(t, topID, groupsEnvelope.Data.Groups[0].ID)

	bookmarksResp := ts.api.Get("/api/v1/bookmarks")
	bookmarksEnvelope := decodeEnvelope[ListBookmarksResponse](t, bookmarksResp.Body.Bytes())
	require.Len(t, bookmarksEnvelope.Data.Bookmarks, 1)
	assert.Equal(t, freeID, bookmarksEnvelope.Data.Bookmarks[0].ID)
}
