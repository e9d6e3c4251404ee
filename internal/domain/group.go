package domain

import "time"

// Group is a named, ordered collection of bookmarks inside one tab.
// OrderIndex positions the group among the groups of the same tab scope;
// a nil TabID places the group in the ungrouped (null-tab) scope, which is
// an ordering scope of its own.
type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	TabID      *string   `json:"tab_id"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// BookmarkIDs is the derived, ordered list of member bookmarks.
	// Loaded from the join table; never written back directly.
	BookmarkIDs []string `json:"bookmark_ids"`
}

// SameScope reports whether the group lives in the given tab scope.
// Two nil tab ids are the same (null-tab) scope.
func (g *Group) SameScope(tabID *string) bool {
	if g.TabID == nil || tabID == nil {
		return g.TabID == nil && tabID == nil
	}
	return *g.TabID == *tabID
}

// Touch updates the UpdatedAt timestamp.
func (g *Group) Touch() {
	g.UpdatedAt = time.Now()
}
