package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tabmarks/tabmarks-server/internal/domain"
)

func (s *Server) registerGroupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGroups",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups",
		Summary:     "List groups",
		Description: "Returns all groups, optionally filtered to a tab scope or to top-level groups",
		Tags:        []string{"Groups"},
	}, s.handleListGroups)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAllGroups",
		Method:      http.MethodDelete,
		Path:        "/api/v1/groups",
		Summary:     "Delete all groups",
		Description: "Deletes every group; bookmarks survive with empty group sets",
		Tags:        []string{"Groups"},
	}, s.handleDeleteAllGroups)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups",
		Summary:     "Create group",
		Description: "Creates a new group at the end of its tab scope",
		Tags:        []string{"Groups"},
	}, s.handleCreateGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGroup",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{id}",
		Summary:     "Get group",
		Description: "Returns a group by ID with its member bookmark IDs",
		Tags:        []string{"Groups"},
	}, s.handleGetGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGroup",
		Method:      http.MethodPatch,
		Path:        "/api/v1/groups/{id}",
		Summary:     "Update group",
		Description: "Updates a group's name or color",
		Tags:        []string{"Groups"},
	}, s.handleUpdateGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGroup",
		Method:      http.MethodDelete,
		Path:        "/api/v1/groups/{id}",
		Summary:     "Delete group",
		Description: "Deletes a group; member bookmarks survive",
		Tags:        []string{"Groups"},
	}, s.handleDeleteGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{id}/reorder",
		Summary:     "Reorder group",
		Description: "Moves a group to a target position within its tab scope",
		Tags:        []string{"Groups"},
	}, s.handleReorderGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{id}/move",
		Summary:     "Move group to another tab",
		Description: "Reparents a group, appending it at the end of the destination tab scope",
		Tags:        []string{"Groups"},
	}, s.handleMoveGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGroupBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{id}/bookmarks",
		Summary:     "Get group bookmarks",
		Description: "Returns the bookmarks of a group in positional order",
		Tags:        []string{"Groups"},
	}, s.handleGetGroupBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBookmarkToGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{id}/bookmarks",
		Summary:     "Add bookmark to group",
		Description: "Appends a bookmark to the end of a group; adding an existing member is a no-op",
		Tags:        []string{"Groups"},
	}, s.handleAddBookmarkToGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBookmarkFromGroup",
		Method:      http.MethodDelete,
		Path:        "/api/v1/groups/{id}/bookmarks/{bookmarkId}",
		Summary:     "Remove bookmark from group",
		Description: "Removes a bookmark from a group; the bookmark survives",
		Tags:        []string{"Groups"},
	}, s.handleRemoveBookmarkFromGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderBookmarkInGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{id}/bookmarks/{bookmarkId}/reorder",
		Summary:     "Reorder bookmark in group",
		Description: "Moves a bookmark to a target position within a group",
		Tags:        []string{"Groups"},
	}, s.handleReorderBookmarkInGroup)
}

// === DTOs ===

// ListGroupsInput contains parameters for listing groups.
type ListGroupsInput struct {
	TabID    string `query:"tabId" doc:"Only return groups scoped to this tab"`
	TopLevel bool   `query:"topLevel" doc:"Only return top-level groups (no parent tab)"`
}

// ListGroupsResponse contains a list of groups.
type ListGroupsResponse struct {
	Groups []GroupResponse `json:"groups" doc:"List of groups"`
}

// ListGroupsOutput wraps the list groups response for Huma.
type ListGroupsOutput struct {
	Body ListGroupsResponse
}

// CreateGroupRequest is the request body for creating a group.
type CreateGroupRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=255" doc:"Group name"`
	Color string  `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color"`
	TabID *string `json:"tabId,omitempty" doc:"Parent tab ID, omit for a top-level group"`
}

// CreateGroupInput wraps the create group request for Huma.
type CreateGroupInput struct {
	Body CreateGroupRequest
}

// GroupOutput wraps the group response for Huma.
type GroupOutput struct {
	Body GroupResponse
}

// GetGroupInput contains parameters for getting a group.
type GetGroupInput struct {
	ID string `path:"id" doc:"Group ID"`
}

// UpdateGroupRequest is the request body for updating a group.
type UpdateGroupRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" doc:"Group name"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color"`
}

// UpdateGroupInput wraps the update group request for Huma.
type UpdateGroupInput struct {
	ID   string `path:"id" doc:"Group ID"`
	Body UpdateGroupRequest
}

// ReorderRequest is the request body for positional moves.
type ReorderRequest struct {
	Position int `json:"position" validate:"gte=0" doc:"Target position, clamped to the end of the scope"`
}

// ReorderGroupInput wraps the reorder group request for Huma.
type ReorderGroupInput struct {
	ID   string `path:"id" doc:"Group ID"`
	Body ReorderRequest
}

// MoveGroupRequest is the request body for reparenting a group.
type MoveGroupRequest struct {
	TabID *string `json:"tabId" doc:"Destination tab ID, null for the top-level scope"`
}

// MoveGroupInput wraps the move group request for Huma.
type MoveGroupInput struct {
	ID   string `path:"id" doc:"Group ID"`
	Body MoveGroupRequest
}

// GroupBookmarksResponse contains the bookmarks of a group.
type GroupBookmarksResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks" doc:"Bookmarks in positional order"`
}

// GroupBookmarksOutput wraps the group bookmarks response for Huma.
type GroupBookmarksOutput struct {
	Body GroupBookmarksResponse
}

// AddGroupBookmarkRequest is the request body for adding a bookmark to a group.
type AddGroupBookmarkRequest struct {
	BookmarkID string `json:"bookmarkId" validate:"required" doc:"Bookmark ID to add"`
}

// AddGroupBookmarkInput wraps the add bookmark request for Huma.
type AddGroupBookmarkInput struct {
	ID   string `path:"id" doc:"Group ID"`
	Body AddGroupBookmarkRequest
}

// GroupBookmarkInput addresses a single membership.
type GroupBookmarkInput struct {
	ID         string `path:"id" doc:"Group ID"`
	BookmarkID string `path:"bookmarkId" doc:"Bookmark ID"`
}

// ReorderGroupBookmarkInput wraps the reorder membership request for Huma.
type ReorderGroupBookmarkInput struct {
	ID         string `path:"id" doc:"Group ID"`
	BookmarkID string `path:"bookmarkId" doc:"Bookmark ID"`
	Body       ReorderRequest
}

// === Handlers ===

func (s *Server) handleListGroups(ctx context.Context, input *ListGroupsInput) (*ListGroupsOutput, error) {
	var groups []*domain.Group
	var err error

	switch {
	case input.TabID != "":
		groups, err = s.services.Group.ListByScope(ctx, &input.TabID)
	case input.TopLevel:
		groups, err = s.services.Group.ListByScope(ctx, nil)
	default:
		groups, err = s.services.Group.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]GroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}

	return &ListGroupsOutput{Body: ListGroupsResponse{Groups: resp}}, nil
}

func (s *Server) handleDeleteAllGroups(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Group.DeleteAll(ctx); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "All groups deleted"}}, nil
}

func (s *Server) handleCreateGroup(ctx context.Context, input *CreateGroupInput) (*GroupOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	group, err := s.services.Group.Create(ctx, input.Body.Name, input.Body.Color, input.Body.TabID)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: toGroupResponse(group)}, nil
}

func (s *Server) handleGetGroup(ctx context.Context, input *GetGroupInput) (*GroupOutput, error) {
	group, err := s.services.Group.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: toGroupResponse(group)}, nil
}

func (s *Server) handleUpdateGroup(ctx context.Context, input *UpdateGroupInput) (*GroupOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	group, err := s.services.Group.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	name := group.Name
	color := group.Color
	if input.Body.Name != nil {
		name = *input.Body.Name
	}
	if input.Body.Color != nil {
		color = *input.Body.Color
	}

	updated, err := s.services.Group.Update(ctx, input.ID, name, color)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: toGroupResponse(updated)}, nil
}

func (s *Server) handleDeleteGroup(ctx context.Context, input *GetGroupInput) (*MessageOutput, error) {
	if err := s.services.Group.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Group deleted"}}, nil
}

func (s *Server) handleReorderGroup(ctx context.Context, input *ReorderGroupInput) (*GroupOutput, error) {
	group, err := s.services.Group.Reorder(ctx, input.ID, input.Body.Position)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: toGroupResponse(group)}, nil
}

func (s *Server) handleMoveGroup(ctx context.Context, input *MoveGroupInput) (*GroupOutput, error) {
	group, err := s.services.Group.Move(ctx, input.ID, input.Body.TabID)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: toGroupResponse(group)}, nil
}

func (s *Server) handleGetGroupBookmarks(ctx context.Context, input *GetGroupInput) (*GroupBookmarksOutput, error) {
	bookmarks, err := s.services.Bookmark.ListByGroup(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GroupBookmarksOutput{Body: GroupBookmarksResponse{Bookmarks: toBookmarkResponses(bookmarks)}}, nil
}

func (s *Server) handleAddBookmarkToGroup(ctx context.Context, input *AddGroupBookmarkInput) (*MessageOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Group.AddBookmark(ctx, input.ID, input.Body.BookmarkID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Bookmark added to group"}}, nil
}

func (s *Server) handleRemoveBookmarkFromGroup(ctx context.Context, input *GroupBookmarkInput) (*MessageOutput, error) {
	if err := s.services.Group.RemoveBookmark(ctx, input.ID, input.BookmarkID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Bookmark removed from group"}}, nil
}

func (s *Server) handleReorderBookmarkInGroup(ctx context.Context, input *ReorderGroupBookmarkInput) (*MessageOutput, error) {
	if err := s.services.Group.ReorderBookmark(ctx, input.ID, input.BookmarkID, input.Body.Position); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Bookmark reordered"}}, nil
}
