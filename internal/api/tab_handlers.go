package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTabRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTabs",
		Method:      http.MethodGet,
		Path:        "/api/v1/tabs",
		Summary:     "List tabs",
		Description: "Returns all tabs in creation order",
		Tags:        []string{"Tabs"},
	}, s.handleListTabs)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTab",
		Method:      http.MethodPost,
		Path:        "/api/v1/tabs",
		Summary:     "Create tab",
		Description: "Creates a new tab",
		Tags:        []string{"Tabs"},
	}, s.handleCreateTab)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAllTabs",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tabs",
		Summary:     "Delete all tabs",
		Description: "Deletes every tab, cascading to its groups and exclusive bookmarks",
		Tags:        []string{"Tabs"},
	}, s.handleDeleteAllTabs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTab",
		Method:      http.MethodGet,
		Path:        "/api/v1/tabs/{id}",
		Summary:     "Get tab",
		Description: "Returns a tab by ID",
		Tags:        []string{"Tabs"},
	}, s.handleGetTab)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTab",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tabs/{id}",
		Summary:     "Update tab",
		Description: "Updates a tab's name or color",
		Tags:        []string{"Tabs"},
	}, s.handleUpdateTab)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTab",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tabs/{id}",
		Summary:     "Delete tab",
		Description: "Deletes a tab with its groups and exclusive bookmarks; shared bookmarks are detached",
		Tags:        []string{"Tabs"},
	}, s.handleDeleteTab)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTabGroups",
		Method:      http.MethodGet,
		Path:        "/api/v1/tabs/{id}/groups",
		Summary:     "Get tab groups",
		Description: "Returns the groups of a tab in positional order",
		Tags:        []string{"Tabs"},
	}, s.handleGetTabGroups)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTabBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/tabs/{id}/bookmarks",
		Summary:     "Get tab bookmarks",
		Description: "Returns the bookmarks attached to a tab",
		Tags:        []string{"Tabs"},
	}, s.handleGetTabBookmarks)
}

// === DTOs ===

// ListTabsResponse contains a list of tabs.
type ListTabsResponse struct {
	Tabs []TabResponse `json:"tabs" doc:"List of tabs"`
}

// ListTabsOutput wraps the list tabs response for Huma.
type ListTabsOutput struct {
	Body ListTabsResponse
}

// CreateTabRequest is the request body for creating a tab.
type CreateTabRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255" doc:"Tab name"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color"`
}

// CreateTabInput wraps the create tab request for Huma.
type CreateTabInput struct {
	Body CreateTabRequest
}

// TabOutput wraps the tab response for Huma.
type TabOutput struct {
	Body TabResponse
}

// GetTabInput contains parameters for getting a tab.
type GetTabInput struct {
	ID string `path:"id" doc:"Tab ID"`
}

// UpdateTabRequest is the request body for updating a tab.
type UpdateTabRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" doc:"Tab name"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color"`
}

// UpdateTabInput wraps the update tab request for Huma.
type UpdateTabInput struct {
	ID   string `path:"id" doc:"Tab ID"`
	Body UpdateTabRequest
}

// TabGroupsResponse contains the groups of a tab.
type TabGroupsResponse struct {
	Groups []GroupResponse `json:"groups" doc:"Groups in positional order"`
}

// TabGroupsOutput wraps the tab groups response for Huma.
type TabGroupsOutput struct {
	Body TabGroupsResponse
}

// TabBookmarksResponse contains the bookmarks of a tab.
type TabBookmarksResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks" doc:"Bookmarks attached to the tab"`
}

// TabBookmarksOutput wraps the tab bookmarks response for Huma.
type TabBookmarksOutput struct {
	Body TabBookmarksResponse
}

// === Handlers ===

func (s *Server) handleListTabs(ctx context.Context, _ *struct{}) (*ListTabsOutput, error) {
	tabs, err := s.services.Tab.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TabResponse, len(tabs))
	for i, t := range tabs {
		resp[i] = toTabResponse(t)
	}

	return &ListTabsOutput{Body: ListTabsResponse{Tabs: resp}}, nil
}

func (s *Server) handleCreateTab(ctx context.Context, input *CreateTabInput) (*TabOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	tab, err := s.services.Tab.Create(ctx, input.Body.Name, input.Body.Color)
	if err != nil {
		return nil, err
	}

	return &TabOutput{Body: toTabResponse(tab)}, nil
}

func (s *Server) handleGetTab(ctx context.Context, input *GetTabInput) (*TabOutput, error) {
	tab, err := s.services.Tab.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TabOutput{Body: toTabResponse(tab)}, nil
}

func (s *Server) handleUpdateTab(ctx context.Context, input *UpdateTabInput) (*TabOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	tab, err := s.services.Tab.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	name := tab.Name
	color := tab.Color
	if input.Body.Name != nil {
		name = *input.Body.Name
	}
	if input.Body.Color != nil {
		color = *input.Body.Color
	}

	updated, err := s.services.Tab.Update(ctx, input.ID, name, color)
	if err != nil {
		return nil, err
	}

	return &TabOutput{Body: toTabResponse(updated)}, nil
}

func (s *Server) handleDeleteTab(ctx context.Context, input *GetTabInput) (*MessageOutput, error) {
	if err := s.services.Tab.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tab deleted"}}, nil
}

func (s *Server) handleDeleteAllTabs(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Tab.DeleteAll(ctx); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "All tabs deleted"}}, nil
}

func (s *Server) handleGetTabGroups(ctx context.Context, input *GetTabInput) (*TabGroupsOutput, error) {
	if _, err := s.services.Tab.Get(ctx, input.ID); err != nil {
		return nil, err
	}

	groups, err := s.services.Group.ListByScope(ctx, &input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]GroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}

	return &TabGroupsOutput{Body: TabGroupsResponse{Groups: resp}}, nil
}

func (s *Server) handleGetTabBookmarks(ctx context.Context, input *GetTabInput) (*TabBookmarksOutput, error) {
	bookmarks, err := s.services.Bookmark.ListByTab(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TabBookmarksOutput{Body: TabBookmarksResponse{Bookmarks: toBookmarkResponses(bookmarks)}}, nil
}
