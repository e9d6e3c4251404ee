package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabmarks/tabmarks-server/internal/domain"
	domainerrors "github.com/tabmarks/tabmarks-server/internal/errors"
	"github.com/tabmarks/tabmarks-server/internal/id"
	"github.com/tabmarks/tabmarks-server/internal/store"
)

// TabService orchestrates tab operations, including the cascade that
// runs when a tab is deleted.
type TabService struct {
	store  store.Store
	index  BookmarkIndexer
	logger *slog.Logger
}

// NewTabService creates a new tab service.
func NewTabService(st store.Store, index BookmarkIndexer, logger *slog.Logger) *TabService {
	return &TabService{
		store:  st,
		index:  index,
		logger: logger,
	}
}

// Create creates a new tab.
func (s *TabService) Create(ctx context.Context, name, color string) (*domain.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("tab name cannot be empty")
	}

	tabID, err := id.Generate("tab")
	if err != nil {
		return nil, fmt.Errorf("generate tab ID: %w", err)
	}

	now := time.Now()
	tab := &domain.Tab{
		ID:        tabID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTab(ctx, tab); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("tab name %q already in use", name)
		}
		return nil, fmt.Errorf("create tab: %w", err)
	}

	s.logger.Info("tab created", "tab_id", tabID, "name", name)
	return tab, nil
}

// Get retrieves a tab by ID.
func (s *TabService) Get(ctx context.Context, tabID string) (*domain.Tab, error) {
	return s.store.GetTab(ctx, tabID)
}

// List returns all tabs.
func (s *TabService) List(ctx context.Context) ([]*domain.Tab, error) {
	return s.store.ListTabs(ctx)
}

// Update updates a tab's name and color.
func (s *TabService) Update(ctx context.Context, tabID, name, color string) (*domain.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tab, err := s.store.GetTab(ctx, tabID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("tab name cannot be empty")
	}

	tab.Name = name
	tab.Color = color
	tab.Touch()

	if err := s.store.UpdateTab(ctx, tab); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("tab name %q already in use", name)
		}
		return nil, fmt.Errorf("update tab: %w", err)
	}

	s.logger.Info("tab updated", "tab_id", tabID, "name", name)
	return tab, nil
}

// Delete removes a tab and everything scoped to it:
//
//  1. Groups inside the tab are deleted, severing their bookmark
//     memberships first.
//  2. Bookmarks whose legacy tab pointer references the tab are deleted.
//  3. Bookmarks attached through the many-to-many tab set are detached
//     and their legacy pointer reconciled against the surviving set.
func (s *TabService) Delete(ctx context.Context, tabID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.GetTab(ctx, tabID); err != nil {
		return err
	}

	// 1. Delete groups scoped to this tab.
	groups, err := s.store.ListGroupsByScope(ctx, &tabID)
	if err != nil {
		return fmt.Errorf("list groups in tab: %w", err)
	}
	for _, g := range groups {
		if err := s.store.ClearGroupMemberships(ctx, g.ID); err != nil {
			return fmt.Errorf("clear memberships of group %s: %w", g.ID, err)
		}
		if err := s.store.DeleteGroup(ctx, g.ID); err != nil {
			return fmt.Errorf("delete group %s: %w", g.ID, err)
		}
	}

	// 2. Delete bookmarks that live in this tab via the legacy pointer.
	legacyIDs, err := s.store.ListBookmarkIDsByLegacyTab(ctx, tabID)
	if err != nil {
		return fmt.Errorf("list legacy bookmarks: %w", err)
	}
	for _, bookmarkID := range legacyIDs {
		if err := s.store.DeleteBookmark(ctx, bookmarkID); err != nil {
			return fmt.Errorf("delete bookmark %s: %w", bookmarkID, err)
		}
		unindexBookmark(s.index, s.logger, bookmarkID)
	}

	// 3. Detach surviving bookmarks that reference the tab only through
	// the many-to-many set, reconciling their legacy pointer.
	attached, err := s.store.ListBookmarksByTab(ctx, tabID)
	if err != nil {
		return fmt.Errorf("list attached bookmarks: %w", err)
	}
	for _, b := range attached {
		remaining := make([]string, 0, len(b.TabIDs))
		for _, tid := range b.TabIDs {
			if tid != tabID {
				remaining = append(remaining, tid)
			}
		}

		primary, ordered := domain.ReconcileTabs(b.TabID, remaining)
		if err := s.store.ReplaceBookmarkTabs(ctx, b.ID, ordered); err != nil {
			return fmt.Errorf("replace tabs of bookmark %s: %w", b.ID, err)
		}

		b.TabID = primary
		b.TabIDs = ordered
		b.Touch()
		if err := s.store.UpdateBookmark(ctx, b); err != nil {
			return fmt.Errorf("update bookmark %s: %w", b.ID, err)
		}
		reindexBookmark(s.index, s.logger, b)
	}

	if err := s.store.DeleteTab(ctx, tabID); err != nil {
		return fmt.Errorf("delete tab: %w", err)
	}

	s.logger.Info("tab deleted",
		"tab_id", tabID,
		"groups_removed", len(groups),
		"bookmarks_removed", len(legacyIDs),
		"bookmarks_detached", len(attached),
	)
	return nil
}

// DeleteAll removes every tab, running the per-tab cascade for each one.
// Bookmarks outside all tabs and groups outside any tab are untouched.
func (s *TabService) DeleteAll(ctx context.Context) error {
	tabs, err := s.store.ListTabs(ctx)
	if err != nil {
		return fmt.Errorf("list tabs: %w", err)
	}

	for _, t := range tabs {
		if err := s.Delete(ctx, t.ID); err != nil {
			return fmt.Errorf("delete tab %s: %w", t.ID, err)
		}
	}

	s.logger.Info("all tabs deleted", "count", len(tabs))
	return nil
}
