// Package store defines the persistence interface for the TabMarks server.
package store

import (
	"context"

	"github.com/tabmarks/tabmarks-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Tabs
	CreateTab(ctx context.Context, tab *domain.Tab) error
	GetTab(ctx context.Context, id string) (*domain.Tab, error)
	UpdateTab(ctx context.Context, tab *domain.Tab) error
	DeleteTab(ctx context.Context, id string) error
	ListTabs(ctx context.Context) ([]*domain.Tab, error)

	// Groups
	CreateGroup(ctx context.Context, group *domain.Group) error
	GetGroup(ctx context.Context, id string) (*domain.Group, error)
	UpdateGroup(ctx context.Context, group *domain.Group) error
	DeleteGroup(ctx context.Context, id string) error
	ListGroups(ctx context.Context) ([]*domain.Group, error)
	ListGroupsByScope(ctx context.Context, tabID *string) ([]*domain.Group, error)
	CountGroupsInScope(ctx context.Context, tabID *string) (int, error)
	MaxGroupOrderIndex(ctx context.Context, tabID *string) (int, bool, error)
	ShiftGroupOrders(ctx context.Context, tabID *string, lo, hi, delta int) error
	SetGroupOrderIndex(ctx context.Context, groupID string, orderIndex int) error
	ClearGroupMemberships(ctx context.Context, groupID string) error

	// Bookmarks
	CreateBookmark(ctx context.Context, bookmark *domain.Bookmark) error
	GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error)
	UpdateBookmark(ctx context.Context, bookmark *domain.Bookmark) error
	DeleteBookmark(ctx context.Context, id string) error
	ListBookmarks(ctx context.Context) ([]*domain.Bookmark, error)
	ListBookmarksByGroup(ctx context.Context, groupID string) ([]*domain.Bookmark, error)
	ListBookmarksByTab(ctx context.Context, tabID string) ([]*domain.Bookmark, error)
	ListBookmarkIDsByLegacyTab(ctx context.Context, tabID string) ([]string, error)
	ReplaceBookmarkTabs(ctx context.Context, bookmarkID string, tabIDs []string) error

	// Group memberships
	AddMembership(ctx context.Context, m domain.Membership) error
	RemoveMembership(ctx context.Context, bookmarkID, groupID string) error
	GetMembership(ctx context.Context, bookmarkID, groupID string) (*domain.Membership, error)
	CountMemberships(ctx context.Context, groupID string) (int, error)
	MaxMembershipOrderIndex(ctx context.Context, groupID string) (int, bool, error)
	ShiftMembershipOrders(ctx context.Context, groupID string, lo, hi, delta int) error
	SetMembershipOrderIndex(ctx context.Context, bookmarkID, groupID string, orderIndex int) error

	// Favicons
	SetFavicon(ctx context.Context, bookmarkID string, data []byte, contentType string) error
	GetFavicon(ctx context.Context, bookmarkID string) ([]byte, string, error)
}
