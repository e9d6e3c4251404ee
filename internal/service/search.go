package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabmarks/tabmarks-server/internal/search"
	"github.com/tabmarks/tabmarks-server/internal/store"
)

// SearchService runs bookmark searches and keeps the index in sync
// with the database.
type SearchService struct {
	store  store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(st store.Store, index *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:  st,
		index:  index,
		logger: logger,
	}
}

// Search executes a bookmark search.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if params.Limit <= 0 {
		params.Limit = search.DefaultParams().Limit
	}
	return s.index.Search(ctx, params)
}

// DocumentCount returns the number of indexed bookmarks.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the search index from the database.
// Called on startup so the index catches up with writes it missed.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	bookmarks, err := s.store.ListBookmarks(ctx)
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}

	docs := make([]*search.Document, 0, len(bookmarks))
	for _, b := range bookmarks {
		docs = append(docs, searchDocument(b))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index bookmarks: %w", err)
	}

	s.logger.Info("search index synchronized", "documents", len(docs))
	return nil
}
