package api

import (
	"time"

	"github.com/tabmarks/tabmarks-server/internal/domain"
)

// MessageResponse is a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// TabResponse contains tab data in API responses.
type TabResponse struct {
	ID        string    `json:"id" doc:"Tab ID"`
	Name      string    `json:"name" doc:"Tab name"`
	Color     string    `json:"color,omitempty" doc:"Display color"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt time.Time `json:"updatedAt" doc:"Last update time"`
}

func toTabResponse(t *domain.Tab) TabResponse {
	return TabResponse{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// GroupResponse contains group data in API responses.
type GroupResponse struct {
	ID          string    `json:"id" doc:"Group ID"`
	Name        string    `json:"name" doc:"Group name"`
	Color       string    `json:"color,omitempty" doc:"Display color"`
	TabID       *string   `json:"tabId" doc:"Parent tab ID, null for top-level groups"`
	OrderIndex  int       `json:"orderIndex" doc:"Position within the tab scope"`
	BookmarkIDs []string  `json:"bookmarkIds" doc:"Member bookmark IDs in positional order"`
	CreatedAt   time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updatedAt" doc:"Last update time"`
}

func toGroupResponse(g *domain.Group) GroupResponse {
	bookmarkIDs := g.BookmarkIDs
	if bookmarkIDs == nil {
		bookmarkIDs = []string{}
	}
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Color:       g.Color,
		TabID:       g.TabID,
		OrderIndex:  g.OrderIndex,
		BookmarkIDs: bookmarkIDs,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// BookmarkResponse contains bookmark data in API responses.
type BookmarkResponse struct {
	ID                string    `json:"id" doc:"Bookmark ID"`
	Name              string    `json:"name" doc:"Bookmark name"`
	URL               string    `json:"url" doc:"Bookmark URL"`
	TabID             *string   `json:"tabId" doc:"Primary tab ID, null when unattached"`
	TabIDs            []string  `json:"tabIds" doc:"Attached tab IDs"`
	GroupIDs          []string  `json:"groupIds" doc:"Group IDs the bookmark belongs to"`
	GroupOrderIndexes []int     `json:"groupOrderIndexes" doc:"Position within each group, aligned with groupIds"`
	HasFavicon        bool      `json:"hasFavicon" doc:"Whether a favicon is stored"`
	CreatedAt         time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt         time.Time `json:"updatedAt" doc:"Last update time"`
}

func toBookmarkResponse(b *domain.Bookmark) BookmarkResponse {
	tabIDs := b.TabIDs
	if tabIDs == nil {
		tabIDs = []string{}
	}
	groupIDs := b.GroupIDs()
	if groupIDs == nil {
		groupIDs = []string{}
	}
	orderIndexes := b.GroupOrderIndexes()
	if orderIndexes == nil {
		orderIndexes = []int{}
	}
	return BookmarkResponse{
		ID:                b.ID,
		Name:              b.Name,
		URL:               b.URL,
		TabID:             b.TabID,
		TabIDs:            tabIDs,
		GroupIDs:          groupIDs,
		GroupOrderIndexes: orderIndexes,
		HasFavicon:        b.HasFavicon,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func toBookmarkResponses(bookmarks []*domain.Bookmark) []BookmarkResponse {
	resp := make([]BookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		resp[i] = toBookmarkResponse(b)
	}
	return resp
}
