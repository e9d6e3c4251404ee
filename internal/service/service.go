// Package service orchestrates domain operations across the store,
// search index, and favicon fetcher.
package service

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/tabmarks/tabmarks-server/internal/domain"
	"github.com/tabmarks/tabmarks-server/internal/favicon"
	"github.com/tabmarks/tabmarks-server/internal/search"
)

// BookmarkIndexer maintains the bookmark search index.
// Satisfied by *search.Index; narrowed to an interface so service tests
// can run without a real Bleve index on disk.
type BookmarkIndexer interface {
	IndexDocument(doc *search.Document) error
	IndexDocuments(docs []*search.Document) error
	DeleteDocument(id string) error
}

// IconFetcher resolves favicons for bookmarked pages.
// Satisfied by *favicon.Fetcher.
type IconFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*favicon.Icon, bool)
}

// searchDocument converts a bookmark to its search index representation.
func searchDocument(b *domain.Bookmark) *search.Document {
	host := ""
	if u, err := url.Parse(b.URL); err == nil {
		host = u.Host
	}
	return &search.Document{
		ID:        b.ID,
		Name:      b.Name,
		URL:       b.URL,
		Host:      host,
		TabIDs:    b.TabIDs,
		GroupIDs:  b.GroupIDs(),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}
}

// reindexBookmark refreshes a bookmark's search document, best effort.
func reindexBookmark(index BookmarkIndexer, logger *slog.Logger, b *domain.Bookmark) {
	if index == nil {
		return
	}
	if err := index.IndexDocument(searchDocument(b)); err != nil {
		logger.Warn("failed to index bookmark", "bookmark_id", b.ID, "error", err)
	}
}

// unindexBookmark removes a bookmark from the search index, best effort.
func unindexBookmark(index BookmarkIndexer, logger *slog.Logger, bookmarkID string) {
	if index == nil {
		return
	}
	if err := index.DeleteDocument(bookmarkID); err != nil {
		logger.Warn("failed to remove bookmark from index", "bookmark_id", bookmarkID, "error", err)
	}
}
