package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/tabmarks/tabmarks-server/internal/domain"
	domainerrors "github.com/tabmarks/tabmarks-server/internal/errors"
	"github.com/tabmarks/tabmarks-server/internal/id"
	"github.com/tabmarks/tabmarks-server/internal/ordering"
	"github.com/tabmarks/tabmarks-server/internal/store"
)

// BookmarkService orchestrates bookmark operations: multi-tab
// attachment with legacy pointer reconciliation, group membership
// diffing, favicon fetching, and search indexing.
type BookmarkService struct {
	store   store.Store
	index   BookmarkIndexer
	fetcher IconFetcher
	logger  *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
// fetcher may be nil to disable favicon fetching.
func NewBookmarkService(st store.Store, index BookmarkIndexer, fetcher IconFetcher, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		store:   st,
		index:   index,
		fetcher: fetcher,
		logger:  logger,
	}
}

// CreateParams holds the inputs for creating a bookmark.
// TabID is the legacy single-tab input, honored only when TabIDs is
// absent; it resolves to a one-element tab set, or none if the tab is
// gone.
type CreateParams struct {
	Name     string
	URL      string
	TabID    *string
	TabIDs   []string
	GroupIDs []string
}

// UpdateParams holds the inputs for updating a bookmark.
// Nil pointer fields are left unchanged. TabIDs wins over the legacy
// TabID when both are present.
type UpdateParams struct {
	Name     *string
	URL      *string
	TabID    *string
	TabIDs   *[]string
	GroupIDs *[]string
}

// resolveLegacyTab turns a legacy single-tab pointer into a tab set.
// A tab that no longer exists yields an empty set rather than an error.
func (s *BookmarkService) resolveLegacyTab(ctx context.Context, tabID string) ([]string, error) {
	if _, err := s.store.GetTab(ctx, tabID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	return []string{tabID}, nil
}

// Create creates a bookmark, attaches it to the given tabs and groups,
// and fetches its favicon best effort.
func (s *BookmarkService) Create(ctx context.Context, params CreateParams) (*domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if params.Name == "" {
		return nil, domainerrors.Validation("bookmark name cannot be empty")
	}
	if err := validateURL(params.URL); err != nil {
		return nil, err
	}

	tabSet := params.TabIDs
	if tabSet == nil && params.TabID != nil {
		resolved, err := s.resolveLegacyTab(ctx, *params.TabID)
		if err != nil {
			return nil, err
		}
		tabSet = resolved
	} else {
		for _, tabID := range tabSet {
			if _, err := s.store.GetTab(ctx, tabID); err != nil {
				return nil, err
			}
		}
	}

	bookmarkID, err := id.Generate("bmk")
	if err != nil {
		return nil, fmt.Errorf("generate bookmark ID: %w", err)
	}

	primary, ordered := domain.ReconcileTabs(nil, tabSet)

	// Each target group gets the bookmark appended at its end.
	memberships := make([]domain.Membership, 0, len(params.GroupIDs))
	for _, groupID := range params.GroupIDs {
		if _, err := s.store.GetGroup(ctx, groupID); err != nil {
			return nil, err
		}
		maxIdx, hasAny, err := s.store.MaxMembershipOrderIndex(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("max membership order index: %w", err)
		}
		memberships = append(memberships, domain.Membership{
			BookmarkID: bookmarkID,
			GroupID:    groupID,
			OrderIndex: ordering.NextIndex(maxIdx, !hasAny),
		})
	}

	now := time.Now()
	bookmark := &domain.Bookmark{
		ID:          bookmarkID,
		Name:        params.Name,
		URL:         params.URL,
		TabID:       primary,
		TabIDs:      ordered,
		Memberships: memberships,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateBookmark(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}

	s.fetchFavicon(ctx, bookmark)
	reindexBookmark(s.index, s.logger, bookmark)

	s.logger.Info("bookmark created",
		"bookmark_id", bookmarkID,
		"name", params.Name,
		"tabs", len(ordered),
		"groups", len(memberships),
	)
	return bookmark, nil
}

// Get retrieves a bookmark by ID.
func (s *BookmarkService) Get(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	return s.store.GetBookmark(ctx, bookmarkID)
}

// List returns all bookmarks.
func (s *BookmarkService) List(ctx context.Context) ([]*domain.Bookmark, error) {
	return s.store.ListBookmarks(ctx)
}

// ListByGroup returns the bookmarks of a group in positional order.
func (s *BookmarkService) ListByGroup(ctx context.Context, groupID string) ([]*domain.Bookmark, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListBookmarksByGroup(ctx, groupID)
}

// ListByTab returns the bookmarks attached to a tab.
func (s *BookmarkService) ListByTab(ctx context.Context, tabID string) ([]*domain.Bookmark, error) {
	if _, err := s.store.GetTab(ctx, tabID); err != nil {
		return nil, err
	}
	return s.store.ListBookmarksByTab(ctx, tabID)
}

// Update applies a partial update to a bookmark.
//
// When the tab set changes, the legacy tab pointer is reconciled: it
// survives if still in the set, otherwise it falls to the first tab of
// the new set, or nil when the set is empty.
//
// When the group set changes, memberships are diffed: removed groups
// lose the bookmark, added groups gain it at their end, and positions
// in unchanged groups are untouched.
func (s *BookmarkService) Update(ctx context.Context, bookmarkID string, params UpdateParams) (*domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bookmark, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}

	urlChanged := false
	if params.Name != nil {
		if *params.Name == "" {
			return nil, domainerrors.Validation("bookmark name cannot be empty")
		}
		bookmark.Name = *params.Name
	}
	if params.URL != nil {
		if err := validateURL(*params.URL); err != nil {
			return nil, err
		}
		urlChanged = bookmark.URL != *params.URL
		bookmark.URL = *params.URL
	}

	var newTabSet []string
	tabsChanged := false
	switch {
	case params.TabIDs != nil:
		for _, tabID := range *params.TabIDs {
			if _, err := s.store.GetTab(ctx, tabID); err != nil {
				return nil, err
			}
		}
		newTabSet = *params.TabIDs
		tabsChanged = true
	case params.TabID != nil:
		resolved, err := s.resolveLegacyTab(ctx, *params.TabID)
		if err != nil {
			return nil, err
		}
		newTabSet = resolved
		tabsChanged = true
	}

	if tabsChanged {
		primary, ordered := domain.ReconcileTabs(bookmark.TabID, newTabSet)
		if err := s.store.ReplaceBookmarkTabs(ctx, bookmarkID, ordered); err != nil {
			return nil, fmt.Errorf("replace bookmark tabs: %w", err)
		}
		bookmark.TabID = primary
		bookmark.TabIDs = ordered
	}

	if params.GroupIDs != nil {
		toAdd, toRemove := ordering.DiffIDs(bookmark.GroupIDs(), *params.GroupIDs)

		for _, groupID := range toRemove {
			if err := s.store.RemoveMembership(ctx, bookmarkID, groupID); err != nil {
				return nil, fmt.Errorf("remove membership %s: %w", groupID, err)
			}
		}
		for _, groupID := range toAdd {
			if _, err := s.store.GetGroup(ctx, groupID); err != nil {
				return nil, err
			}
			maxIdx, hasAny, err := s.store.MaxMembershipOrderIndex(ctx, groupID)
			if err != nil {
				return nil, fmt.Errorf("max membership order index: %w", err)
			}
			err = s.store.AddMembership(ctx, domain.Membership{
				BookmarkID: bookmarkID,
				GroupID:    groupID,
				OrderIndex: ordering.NextIndex(maxIdx, !hasAny),
			})
			if err != nil {
				return nil, fmt.Errorf("add membership %s: %w", groupID, err)
			}
		}
	}

	bookmark.Touch()
	if err := s.store.UpdateBookmark(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("update bookmark: %w", err)
	}

	// Reload to pick up the final membership state.
	bookmark, err = s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, fmt.Errorf("reload bookmark: %w", err)
	}

	if urlChanged {
		s.fetchFavicon(ctx, bookmark)
	}
	reindexBookmark(s.index, s.logger, bookmark)

	s.logger.Info("bookmark updated", "bookmark_id", bookmarkID)
	return bookmark, nil
}

// Delete removes a bookmark. Join rows in tabs and groups are removed
// with it; tabs and groups themselves survive.
func (s *BookmarkService) Delete(ctx context.Context, bookmarkID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteBookmark(ctx, bookmarkID); err != nil {
		return err
	}

	unindexBookmark(s.index, s.logger, bookmarkID)

	s.logger.Info("bookmark deleted", "bookmark_id", bookmarkID)
	return nil
}

// DeleteAll removes every bookmark and its join rows. Tabs and groups
// survive empty.
func (s *BookmarkService) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bookmarks, err := s.store.ListBookmarks(ctx)
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}

	for _, b := range bookmarks {
		if err := s.store.DeleteBookmark(ctx, b.ID); err != nil {
			return fmt.Errorf("delete bookmark %s: %w", b.ID, err)
		}
		unindexBookmark(s.index, s.logger, b.ID)
	}

	s.logger.Info("all bookmarks deleted", "count", len(bookmarks))
	return nil
}

// GetFavicon returns the stored favicon bytes and content type.
func (s *BookmarkService) GetFavicon(ctx context.Context, bookmarkID string) ([]byte, string, error) {
	return s.store.GetFavicon(ctx, bookmarkID)
}

// RefreshFavicon re-fetches and stores the favicon for a bookmark.
// Returns whether an icon was found.
func (s *BookmarkService) RefreshFavicon(ctx context.Context, bookmarkID string) (bool, error) {
	bookmark, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return false, err
	}
	return s.fetchFavicon(ctx, bookmark), nil
}

// fetchFavicon fetches and stores a bookmark's favicon, best effort.
func (s *BookmarkService) fetchFavicon(ctx context.Context, bookmark *domain.Bookmark) bool {
	if s.fetcher == nil {
		return false
	}

	icon, ok := s.fetcher.Fetch(ctx, bookmark.URL)
	if !ok {
		return false
	}

	if err := s.store.SetFavicon(ctx, bookmark.ID, icon.Data, icon.ContentType); err != nil {
		s.logger.Warn("failed to store favicon", "bookmark_id", bookmark.ID, "error", err)
		return false
	}

	bookmark.HasFavicon = true
	return true
}

// validateURL checks that a bookmark URL is absolute http(s).
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return domainerrors.Validationf("invalid url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domainerrors.Validation("url must use http or https")
	}
	if u.Host == "" {
		return domainerrors.Validation("url must be absolute")
	}
	return nil
}
