package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tabmarks/tabmarks-server/internal/domain"
	"github.com/tabmarks/tabmarks-server/internal/service"
)

func (s *Server) registerBookmarkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns all bookmarks, optionally filtered by tab or group",
		Tags:        []string{"Bookmarks"},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAllBookmarks",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookmarks",
		Summary:     "Delete all bookmarks",
		Description: "Deletes every bookmark; tabs and groups survive empty",
		Tags:        []string{"Bookmarks"},
	}, s.handleDeleteAllBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks",
		Summary:     "Create bookmark",
		Description: "Creates a bookmark and attaches it to the given tabs and groups",
		Tags:        []string{"Bookmarks"},
	}, s.handleCreateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookmark",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Get bookmark",
		Description: "Returns a bookmark by ID",
		Tags:        []string{"Bookmarks"},
	}, s.handleGetBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookmark",
		Method:      http.MethodPatch,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Update bookmark",
		Description: "Updates a bookmark; tab and group sets are diffed against the current state",
		Tags:        []string{"Bookmarks"},
	}, s.handleUpdateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookmark",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Delete bookmark",
		Description: "Deletes a bookmark; tabs and groups survive",
		Tags:        []string{"Bookmarks"},
	}, s.handleDeleteBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookmarkIcon",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{id}/icon",
		Summary:     "Get bookmark icon",
		Description: "Returns the stored favicon bytes",
		Tags:        []string{"Bookmarks"},
	}, s.handleGetBookmarkIcon)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshBookmarkIcon",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks/{id}/icon/refresh",
		Summary:     "Refresh bookmark icon",
		Description: "Re-fetches the favicon from the bookmark's site",
		Tags:        []string{"Bookmarks"},
	}, s.handleRefreshBookmarkIcon)
}

// === DTOs ===

// ListBookmarksInput contains parameters for listing bookmarks.
type ListBookmarksInput struct {
	TabID   string `query:"tabId" doc:"Only return bookmarks attached to this tab"`
	GroupID string `query:"groupId" doc:"Only return bookmarks in this group, in positional order"`
}

// ListBookmarksResponse contains a list of bookmarks.
type ListBookmarksResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks" doc:"List of bookmarks"`
}

// ListBookmarksOutput wraps the list bookmarks response for Huma.
type ListBookmarksOutput struct {
	Body ListBookmarksResponse
}

// CreateBookmarkRequest is the request body for creating a bookmark.
type CreateBookmarkRequest struct {
	Name     string   `json:"name" validate:"required,min=1,max=255" doc:"Bookmark name"`
	URL      string   `json:"url" validate:"required,url" doc:"Bookmark URL"`
	TabID    *string  `json:"tabId,omitempty" doc:"Legacy single tab to attach to, ignored when tabIds is present"`
	TabIDs   []string `json:"tabIds,omitempty" validate:"omitempty,dive,required" doc:"Tabs to attach to"`
	GroupIDs []string `json:"groupIds,omitempty" validate:"omitempty,dive,required" doc:"Groups to add to"`
}

// CreateBookmarkInput wraps the create bookmark request for Huma.
type CreateBookmarkInput struct {
	Body CreateBookmarkRequest
}

// BookmarkOutput wraps the bookmark response for Huma.
type BookmarkOutput struct {
	Body BookmarkResponse
}

// GetBookmarkInput contains parameters for getting a bookmark.
type GetBookmarkInput struct {
	ID string `path:"id" doc:"Bookmark ID"`
}

// UpdateBookmarkRequest is the request body for updating a bookmark.
// Omitted fields are left unchanged; tabIds and groupIds replace the
// full set when present.
type UpdateBookmarkRequest struct {
	Name     *string   `json:"name,omitempty" validate:"omitempty,min=1,max=255" doc:"Bookmark name"`
	URL      *string   `json:"url,omitempty" validate:"omitempty,url" doc:"Bookmark URL"`
	TabID    *string   `json:"tabId,omitempty" doc:"Legacy single replacement tab, ignored when tabIds is present"`
	TabIDs   *[]string `json:"tabIds,omitempty" doc:"Full replacement tab set"`
	GroupIDs *[]string `json:"groupIds,omitempty" doc:"Full replacement group set"`
}

// UpdateBookmarkInput wraps the update bookmark request for Huma.
type UpdateBookmarkInput struct {
	ID   string `path:"id" doc:"Bookmark ID"`
	Body UpdateBookmarkRequest
}

// IconOutput returns raw favicon bytes.
type IconOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// RefreshIconResponse reports whether an icon was found.
type RefreshIconResponse struct {
	Found bool `json:"found" doc:"Whether an icon was fetched and stored"`
}

// RefreshIconOutput wraps the refresh icon response for Huma.
type RefreshIconOutput struct {
	Body RefreshIconResponse
}

// === Handlers ===

func (s *Server) handleListBookmarks(ctx context.Context, input *ListBookmarksInput) (*ListBookmarksOutput, error) {
	var bookmarks []*domain.Bookmark
	var err error

	switch {
	case input.GroupID != "":
		bookmarks, err = s.services.Bookmark.ListByGroup(ctx, input.GroupID)
	case input.TabID != "":
		bookmarks, err = s.services.Bookmark.ListByTab(ctx, input.TabID)
	default:
		bookmarks, err = s.services.Bookmark.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &ListBookmarksOutput{Body: ListBookmarksResponse{Bookmarks: toBookmarkResponses(bookmarks)}}, nil
}

func (s *Server) handleDeleteAllBookmarks(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Bookmark.DeleteAll(ctx); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "All bookmarks deleted"}}, nil
}

func (s *Server) handleCreateBookmark(ctx context.Context, input *CreateBookmarkInput) (*BookmarkOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	bookmark, err := s.services.Bookmark.Create(ctx, service.CreateParams{
		Name:     input.Body.Name,
		URL:      input.Body.URL,
		TabID:    input.Body.TabID,
		TabIDs:   input.Body.TabIDs,
		GroupIDs: input.Body.GroupIDs,
	})
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{Body: toBookmarkResponse(bookmark)}, nil
}

func (s *Server) handleGetBookmark(ctx context.Context, input *GetBookmarkInput) (*BookmarkOutput, error) {
	bookmark, err := s.services.Bookmark.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{Body: toBookmarkResponse(bookmark)}, nil
}

func (s *Server) handleUpdateBookmark(ctx context.Context, input *UpdateBookmarkInput) (*BookmarkOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	bookmark, err := s.services.Bookmark.Update(ctx, input.ID, service.UpdateParams{
		Name:     input.Body.Name,
		URL:      input.Body.URL,
		TabID:    input.Body.TabID,
		TabIDs:   input.Body.TabIDs,
		GroupIDs: input.Body.GroupIDs,
	})
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{Body: toBookmarkResponse(bookmark)}, nil
}

func (s *Server) handleDeleteBookmark(ctx context.Context, input *GetBookmarkInput) (*MessageOutput, error) {
	if err := s.services.Bookmark.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Bookmark deleted"}}, nil
}

func (s *Server) handleGetBookmarkIcon(ctx context.Context, input *GetBookmarkInput) (*IconOutput, error) {
	data, contentType, err := s.services.Bookmark.GetFavicon(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &IconOutput{ContentType: contentType, Body: data}, nil
}

func (s *Server) handleRefreshBookmarkIcon(ctx context.Context, input *GetBookmarkInput) (*RefreshIconOutput, error) {
	found, err := s.services.Bookmark.RefreshFavicon(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &RefreshIconOutput{Body: RefreshIconResponse{Found: found}}, nil
}
