package domain

import "time"

// Tab is the top-level container for groups and bookmarks.
// Tab names are unique across the instance; there is no ownership model.
type Tab struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"` // Optional UI accent color
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tab) Touch() {
	t.UpdatedAt = time.Now()
}
