package domain

import (
	"slices"
	"sort"
	"time"
)

// Membership is one bookmark's placement in one group. The pair
// (BookmarkID, GroupID) is unique; OrderIndex positions the bookmark among
// the members of that group. Indexes within a group are totally ordered but
// gaps are permitted.
type Membership struct {
	BookmarkID string `json:"bookmark_id"`
	GroupID    string `json:"group_id"`
	OrderIndex int    `json:"order_index"`
}

// Bookmark is a saved URL. It can belong to any number of tabs and any number
// of groups. TabID is the legacy single-tab pointer kept for older API
// consumers; when set it always names one of the ids in TabIDs, and TabIDs
// keeps the primary tab first.
type Bookmark struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	TabID     *string   `json:"tab_id"`
	TabIDs    []string  `json:"tab_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Memberships holds the bookmark's group placements. The set of groups
	// is derived from it via ProjectGroups, never stored separately.
	Memberships []Membership `json:"memberships"`

	// HasFavicon reports whether favicon bytes are stored for this bookmark.
	// The bytes themselves are loaded separately; they never ride along on
	// list queries.
	HasFavicon bool `json:"has_favicon"`
}

// GroupIDs returns the bookmark's group ids in display order.
func (b *Bookmark) GroupIDs() []string {
	return ProjectGroups(b.Memberships)
}

// GroupOrderIndexes returns the bookmark's per-group order indexes,
// aligned with GroupIDs.
func (b *Bookmark) GroupOrderIndexes() []int {
	sorted := SortMemberships(b.Memberships)
	indexes := make([]int, len(sorted))
	for i, m := range sorted {
		indexes[i] = m.OrderIndex
	}
	return indexes
}

// InTab reports whether the bookmark belongs to the given tab.
func (b *Bookmark) InTab(tabID string) bool {
	return slices.Contains(b.TabIDs, tabID)
}

// Touch updates the UpdatedAt timestamp.
func (b *Bookmark) Touch() {
	b.UpdatedAt = time.Now()
}

// SortMemberships returns a copy of the membership set in display order:
// order index ascending, ties broken by group id so the projection is
// deterministic even when shifts have left equal indexes behind.
func SortMemberships(ms []Membership) []Membership {
	sorted := make([]Membership, len(ms))
	copy(sorted, ms)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].OrderIndex != sorted[j].OrderIndex {
			return sorted[i].OrderIndex < sorted[j].OrderIndex
		}
		return sorted[i].GroupID < sorted[j].GroupID
	})
	return sorted
}

// ProjectGroups projects an ordered group id list from a membership set.
func ProjectGroups(ms []Membership) []string {
	sorted := SortMemberships(ms)
	ids := make([]string, len(sorted))
	for i, m := range sorted {
		ids[i] = m.GroupID
	}
	return ids
}

// ReconcileTabs computes the legacy primary-tab pointer and the stored tab
// ordering after the bookmark's tab set changes to newSet.
//
// The previous primary survives as primary when it is still present in the
// new set, and moves to the front of the ordering. Otherwise the first id of
// the new set becomes primary, or nil when the set is empty. Both views stay
// consistent after every mutation.
func ReconcileTabs(prevPrimary *string, newSet []string) (primary *string, ordered []string) {
	ordered = slices.Clone(newSet)
	if len(ordered) == 0 {
		return nil, []string{}
	}

	if prevPrimary != nil {
		if i := slices.Index(ordered, *prevPrimary); i >= 0 {
			// Keep the primary tab and move it to the front.
			ordered = slices.Delete(ordered, i, i+1)
			ordered = slices.Insert(ordered, 0, *prevPrimary)
			p := *prevPrimary
			return &p, ordered
		}
	}

	p := ordered[0]
	return &p, ordered
}
