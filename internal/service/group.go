package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabmarks/tabmarks-server/internal/domain"
	domainerrors "github.com/tabmarks/tabmarks-server/internal/errors"
	"github.com/tabmarks/tabmarks-server/internal/id"
	"github.com/tabmarks/tabmarks-server/internal/ordering"
	"github.com/tabmarks/tabmarks-server/internal/store"
)

// GroupService orchestrates group operations: scoped ordering,
// membership management, and positional moves.
type GroupService struct {
	store  store.Store
	index  BookmarkIndexer
	logger *slog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(st store.Store, index BookmarkIndexer, logger *slog.Logger) *GroupService {
	return &GroupService{
		store:  st,
		index:  index,
		logger: logger,
	}
}

// Create creates a new group at the end of its scope.
// A nil tabID creates a top-level group forming its own scope.
func (s *GroupService) Create(ctx context.Context, name, color string, tabID *string) (*domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("group name cannot be empty")
	}

	if tabID != nil {
		if _, err := s.store.GetTab(ctx, *tabID); err != nil {
			return nil, err
		}
	}

	groupID, err := id.Generate("grp")
	if err != nil {
		return nil, fmt.Errorf("generate group ID: %w", err)
	}

	// New groups always append to their scope.
	maxIdx, hasAny, err := s.store.MaxGroupOrderIndex(ctx, tabID)
	if err != nil {
		return nil, fmt.Errorf("max group order index: %w", err)
	}

	now := time.Now()
	group := &domain.Group{
		ID:         groupID,
		Name:       name,
		Color:      color,
		TabID:      tabID,
		OrderIndex: ordering.NextIndex(maxIdx, !hasAny),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("group created",
		"group_id", groupID,
		"name", name,
		"order_index", group.OrderIndex,
	)
	return group, nil
}

// Get retrieves a group by ID.
func (s *GroupService) Get(ctx context.Context, groupID string) (*domain.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// List returns all groups.
func (s *GroupService) List(ctx context.Context) ([]*domain.Group, error) {
	return s.store.ListGroups(ctx)
}

// ListByScope returns the groups of one tab scope in positional order.
func (s *GroupService) ListByScope(ctx context.Context, tabID *string) ([]*domain.Group, error) {
	return s.store.ListGroupsByScope(ctx, tabID)
}

// Update updates a group's name and color.
func (s *GroupService) Update(ctx context.Context, groupID, name, color string) (*domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("group name cannot be empty")
	}

	group.Name = name
	group.Color = color
	group.Touch()

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	s.logger.Info("group updated", "group_id", groupID, "name", name)
	return group, nil
}

// Delete removes a group, severing its bookmark memberships first.
// Bookmarks themselves survive.
func (s *GroupService) Delete(ctx context.Context, groupID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return err
	}

	// Reindex members after the group disappears from their group sets.
	members, err := s.store.ListBookmarksByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list group bookmarks: %w", err)
	}

	if err := s.store.ClearGroupMemberships(ctx, groupID); err != nil {
		return fmt.Errorf("clear group memberships: %w", err)
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	for _, b := range members {
		fresh, err := s.store.GetBookmark(ctx, b.ID)
		if err != nil {
			s.logger.Warn("failed to reload bookmark after group deletion", "bookmark_id", b.ID, "error", err)
			continue
		}
		reindexBookmark(s.index, s.logger, fresh)
	}

	s.logger.Info("group deleted", "group_id", groupID, "members_severed", len(members))
	return nil
}

// DeleteAll removes every group, severing memberships before the group
// rows. Bookmarks survive with empty group sets.
func (s *GroupService) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	for _, g := range groups {
		if err := s.store.ClearGroupMemberships(ctx, g.ID); err != nil {
			return fmt.Errorf("clear memberships of group %s: %w", g.ID, err)
		}
		if err := s.store.DeleteGroup(ctx, g.ID); err != nil {
			return fmt.Errorf("delete group %s: %w", g.ID, err)
		}
	}

	bookmarks, err := s.store.ListBookmarks(ctx)
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}
	for _, b := range bookmarks {
		reindexBookmark(s.index, s.logger, b)
	}

	s.logger.Info("all groups deleted", "count", len(groups))
	return nil
}

// Reorder moves a group to a target position within its scope.
// Negative targets are rejected; targets beyond the end clamp to the
// last position. Every other group in the affected interval shifts by
// one to keep positions contiguous.
func (s *GroupService) Reorder(ctx context.Context, groupID string, target int) (*domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if target < 0 {
		return nil, domainerrors.Validation("target position cannot be negative")
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountGroupsInScope(ctx, group.TabID)
	if err != nil {
		return nil, fmt.Errorf("count groups in scope: %w", err)
	}

	clamped := ordering.ClampTarget(target, count)
	plan, moved := ordering.PlanMove(group.OrderIndex, clamped)
	if !moved {
		return group, nil
	}

	if err := s.store.ShiftGroupOrders(ctx, group.TabID, plan.Lo, plan.Hi, plan.Delta); err != nil {
		return nil, fmt.Errorf("shift group orders: %w", err)
	}
	if err := s.store.SetGroupOrderIndex(ctx, groupID, clamped); err != nil {
		return nil, fmt.Errorf("set group order index: %w", err)
	}

	group.OrderIndex = clamped
	s.logger.Info("group reordered", "group_id", groupID, "target", clamped)
	return group, nil
}

// Move reparents a group into another tab scope. The group is appended
// at the end of the destination scope and the gap it leaves behind is
// closed. Moving a group to its current scope is a no-op.
func (s *GroupService) Move(ctx context.Context, groupID string, tabID *string) (*domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.SameScope(tabID) {
		return group, nil
	}

	if tabID != nil {
		if _, err := s.store.GetTab(ctx, *tabID); err != nil {
			return nil, err
		}
	}

	// Close the gap left behind in the old scope.
	maxOld, hasAny, err := s.store.MaxGroupOrderIndex(ctx, group.TabID)
	if err != nil {
		return nil, fmt.Errorf("max group order index: %w", err)
	}
	if hasAny && group.OrderIndex < maxOld {
		if err := s.store.ShiftGroupOrders(ctx, group.TabID, group.OrderIndex+1, maxOld, -1); err != nil {
			return nil, fmt.Errorf("shift group orders: %w", err)
		}
	}

	maxNew, hasAnyNew, err := s.store.MaxGroupOrderIndex(ctx, tabID)
	if err != nil {
		return nil, fmt.Errorf("max group order index: %w", err)
	}

	group.TabID = tabID
	group.OrderIndex = ordering.NextIndex(maxNew, !hasAnyNew)
	group.Touch()
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	s.logger.Info("group moved", "group_id", groupID, "order_index", group.OrderIndex)
	return group, nil
}

// AddBookmark appends a bookmark to the end of a group.
// Adding a bookmark that is already in the group is a no-op.
func (s *GroupService) AddBookmark(ctx context.Context, groupID, bookmarkID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return err
	}
	bookmark, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return err
	}

	maxIdx, hasAny, err := s.store.MaxMembershipOrderIndex(ctx, groupID)
	if err != nil {
		return fmt.Errorf("max membership order index: %w", err)
	}

	err = s.store.AddMembership(ctx, domain.Membership{
		BookmarkID: bookmarkID,
		GroupID:    groupID,
		OrderIndex: ordering.NextIndex(maxIdx, !hasAny),
	})
	if domainerrors.Is(err, store.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("add membership: %w", err)
	}

	bookmark.Memberships = append(bookmark.Memberships, domain.Membership{
		BookmarkID: bookmarkID,
		GroupID:    groupID,
	})
	reindexBookmark(s.index, s.logger, bookmark)

	s.logger.Info("bookmark added to group", "group_id", groupID, "bookmark_id", bookmarkID)
	return nil
}

// RemoveBookmark removes a bookmark from a group.
func (s *GroupService) RemoveBookmark(ctx context.Context, groupID, bookmarkID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.RemoveMembership(ctx, bookmarkID, groupID); err != nil {
		return err
	}

	if bookmark, err := s.store.GetBookmark(ctx, bookmarkID); err == nil {
		reindexBookmark(s.index, s.logger, bookmark)
	}

	s.logger.Info("bookmark removed from group", "group_id", groupID, "bookmark_id", bookmarkID)
	return nil
}

// ReorderBookmark moves a bookmark to a target position within a group.
// The same interval-shift rules apply as for group reordering.
func (s *GroupService) ReorderBookmark(ctx context.Context, groupID, bookmarkID string, target int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if target < 0 {
		return domainerrors.Validation("target position cannot be negative")
	}

	membership, err := s.store.GetMembership(ctx, bookmarkID, groupID)
	if err != nil {
		return err
	}

	count, err := s.store.CountMemberships(ctx, groupID)
	if err != nil {
		return fmt.Errorf("count memberships: %w", err)
	}

	clamped := ordering.ClampTarget(target, count)
	plan, moved := ordering.PlanMove(membership.OrderIndex, clamped)
	if !moved {
		return nil
	}

	if err := s.store.ShiftMembershipOrders(ctx, groupID, plan.Lo, plan.Hi, plan.Delta); err != nil {
		return fmt.Errorf("shift membership orders: %w", err)
	}
	if err := s.store.SetMembershipOrderIndex(ctx, bookmarkID, groupID, clamped); err != nil {
		return fmt.Errorf("set membership order index: %w", err)
	}

	s.logger.Info("bookmark reordered in group",
		"group_id", groupID,
		"bookmark_id", bookmarkID,
		"target", clamped,
	)
	return nil
}
