// Package search provides full-text bookmark search using Bleve.
// Bookmarks are indexed by name and URL with tab and group filters.
package search

// Document is the bookmark document structure for the Bleve index.
//
// Tab and group IDs are denormalized into each document so search
// results can be filtered without touching the database.
type Document struct {
	// Identity
	ID string `json:"id"`

	// Searchable text
	Name string `json:"name"`
	URL  string `json:"url"`
	Host string `json:"host"` // URL host for exact site filtering

	// Filter fields
	TabIDs   []string `json:"tab_ids,omitempty"`
	GroupIDs []string `json:"group_ids,omitempty"`

	// Timestamps for sorting (Unix millis)
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"name":       d.Name,
		"url":        d.URL,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Host != "" {
		m["host"] = d.Host
	}
	if len(d.TabIDs) > 0 {
		m["tab_ids"] = d.TabIDs
	}
	if len(d.GroupIDs) > 0 {
		m["group_ids"] = d.GroupIDs
	}

	return m
}
