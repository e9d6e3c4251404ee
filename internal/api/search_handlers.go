package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tabmarks/tabmarks-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search bookmarks",
		Description: "Full-text search over bookmark names and URLs with optional tab, group, and host filters",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching bookmarks.
type SearchInput struct {
	Query   string `query:"q" validate:"omitempty,max=200" doc:"Search query; empty with a filter returns all matches"`
	TabID   string `query:"tabId" validate:"omitempty,max=64" doc:"Only return bookmarks attached to this tab"`
	GroupID string `query:"groupId" validate:"omitempty,max=64" doc:"Only return bookmarks in this group"`
	Host    string `query:"host" validate:"omitempty,max=255" doc:"Only return bookmarks on this host"`
	Limit   int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset  int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset"`
}

// SearchHitResult contains a single search result.
type SearchHitResult struct {
	ID         string              `json:"id" doc:"Bookmark ID"`
	Score      float64             `json:"score" doc:"Search relevance score"`
	Name       string              `json:"name" doc:"Bookmark name"`
	URL        string              `json:"url" doc:"Bookmark URL"`
	Host       string              `json:"host,omitempty" doc:"URL host"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted match fragments"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string            `json:"query" doc:"Original search query"`
	Total  uint64            `json:"total" doc:"Total matches"`
	TookMs int64             `json:"tookMs" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits" doc:"Search results"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	params := search.DefaultParams()
	params.Query = input.Query
	params.TabID = input.TabID
	params.GroupID = input.GroupID
	params.Host = input.Host
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		s.logger.Error("search failed", "error", err, "query", input.Query)
		return nil, err
	}

	hits := make([]SearchHitResult, len(result.Hits))
	for i, hit := range result.Hits {
		hits[i] = SearchHitResult{
			ID:         hit.ID,
			Score:      hit.Score,
			Name:       hit.Name,
			URL:        hit.URL,
			Host:       hit.Host,
			Highlights: hit.Highlights,
		}
	}

	return &SearchOutput{
		Body: SearchResponse{
			Query:  input.Query,
			Total:  result.Total,
			TookMs: result.TookMs,
			Hits:   hits,
		},
	}, nil
}
