package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tabmarks/tabmarks-server/internal/domain"
	"github.com/tabmarks/tabmarks-server/internal/store"
)

// bookmarkColumns is the ordered list of columns selected in bookmark queries.
// Must match the scan order in scanBookmark.
const bookmarkColumns = `id, created_at, updated_at, name, url, tab_id, favicon IS NOT NULL`

// scanBookmark scans a sql.Row (or sql.Rows via its Scan method) into a domain.Bookmark.
func scanBookmark(scanner interface{ Scan(dest ...any) error }) (*domain.Bookmark, error) {
	var b domain.Bookmark

	var (
		createdAt string
		updatedAt string
		tabID     sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Name,
		&b.URL,
		&tabID,
		&b.HasFavicon,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if tabID.Valid {
		b.TabID = &tabID.String
	}

	return &b, nil
}

// loadBookmarkTabIDs loads the ordered tab IDs for a bookmark from bookmark_tabs.
func (s *Store) loadBookmarkTabIDs(ctx context.Context, bookmarkID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tab_id FROM bookmark_tabs WHERE bookmark_id = ? ORDER BY position, tab_id`, bookmarkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tabIDs []string
	for rows.Next() {
		var tabID string
		if err := rows.Scan(&tabID); err != nil {
			return nil, err
		}
		tabIDs = append(tabIDs, tabID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tabIDs, nil
}

// loadBookmarkMemberships loads the group memberships of a bookmark.
func (s *Store) loadBookmarkMemberships(ctx context.Context, bookmarkID string) ([]domain.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT bookmark_id, group_id, order_index FROM bookmark_groups
		 WHERE bookmark_id = ? ORDER BY group_id`, bookmarkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.BookmarkID, &m.GroupID, &m.OrderIndex); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}

// loadBookmarkAssociations fills TabIDs and Memberships on a bookmark.
func (s *Store) loadBookmarkAssociations(ctx context.Context, b *domain.Bookmark) error {
	var err error
	b.TabIDs, err = s.loadBookmarkTabIDs(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("load bookmark tab ids: %w", err)
	}
	b.Memberships, err = s.loadBookmarkMemberships(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("load bookmark memberships: %w", err)
	}
	return nil
}

// CreateBookmark inserts a new bookmark with its tab and group associations.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateBookmark(ctx context.Context, bookmark *domain.Bookmark) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookmarks (id, created_at, updated_at, name, url, tab_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		bookmark.ID,
		formatTime(bookmark.CreatedAt),
		formatTime(bookmark.UpdatedAt),
		bookmark.Name,
		bookmark.URL,
		nullableString(bookmark.TabID),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("tab not found")
		}
		return err
	}

	// Insert bookmark_tabs for each TabID with position based on index.
	for i, tabID := range bookmark.TabIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bookmark_tabs (bookmark_id, tab_id, position)
			VALUES (?, ?, ?)`,
			bookmark.ID, tabID, i,
		)
		if err != nil {
			return fmt.Errorf("insert bookmark_tab %s: %w", tabID, err)
		}
	}

	// Insert bookmark_groups for each membership.
	for _, m := range bookmark.Memberships {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bookmark_groups (bookmark_id, group_id, order_index)
			VALUES (?, ?, ?)`,
			bookmark.ID, m.GroupID, m.OrderIndex,
		)
		if err != nil {
			return fmt.Errorf("insert bookmark_group %s: %w", m.GroupID, err)
		}
	}

	return tx.Commit()
}

// GetBookmark retrieves a bookmark by ID, including tab IDs and group memberships.
// Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, id)

	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadBookmarkAssociations(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBookmark updates a bookmark row. Tab and group associations are
// maintained through ReplaceBookmarkTabs and the membership operations.
// Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) UpdateBookmark(ctx context.Context, bookmark *domain.Bookmark) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE bookmarks SET
			created_at = ?,
			updated_at = ?,
			name = ?,
			url = ?,
			tab_id = ?
		WHERE id = ?`,
		formatTime(bookmark.CreatedAt),
		formatTime(bookmark.UpdatedAt),
		bookmark.Name,
		bookmark.URL,
		nullableString(bookmark.TabID),
		bookmark.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("tab not found")
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteBookmark performs a hard delete on a bookmark.
// The ON DELETE CASCADE on bookmark_tabs and bookmark_groups removes
// its associations.
// Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListBookmarks returns all bookmarks ordered by creation time.
// Associations are loaded for each bookmark.
func (s *Store) ListBookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectBookmarks(ctx, rows)
}

// ListBookmarksByGroup returns the bookmarks of a group ordered by their
// position within the group.
func (s *Store) ListBookmarksByGroup(ctx context.Context, groupID string) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixedBookmarkColumns+`
		FROM bookmarks b
		JOIN bookmark_groups bg ON bg.bookmark_id = b.id
		WHERE bg.group_id = ?
		ORDER BY bg.order_index, b.id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectBookmarks(ctx, rows)
}

// ListBookmarksByTab returns the bookmarks attached to a tab through the
// bookmark_tabs join, ordered by creation time.
func (s *Store) ListBookmarksByTab(ctx context.Context, tabID string) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixedBookmarkColumns+`
		FROM bookmarks b
		JOIN bookmark_tabs bt ON bt.bookmark_id = b.id
		WHERE bt.tab_id = ?
		ORDER BY b.created_at, b.id`, tabID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectBookmarks(ctx, rows)
}

// prefixedBookmarkColumns qualifies bookmarkColumns for joined queries.
const prefixedBookmarkColumns = `b.id, b.created_at, b.updated_at, b.name, b.url, b.tab_id, b.favicon IS NOT NULL`

// collectBookmarks drains a bookmark result set and loads associations for each row.
func (s *Store) collectBookmarks(ctx context.Context, rows *sql.Rows) ([]*domain.Bookmark, error) {
	var bookmarks []*domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range bookmarks {
		if err := s.loadBookmarkAssociations(ctx, b); err != nil {
			return nil, err
		}
	}

	return bookmarks, nil
}

// ListBookmarkIDsByLegacyTab returns the IDs of bookmarks whose legacy
// tab pointer references the given tab.
func (s *Store) ListBookmarkIDsByLegacyTab(ctx context.Context, tabID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM bookmarks WHERE tab_id = ? ORDER BY id`, tabID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplaceBookmarkTabs replaces the tab set of a bookmark in a transaction:
// delete existing rows, then re-insert in the given order.
func (s *Store) ReplaceBookmarkTabs(ctx context.Context, bookmarkID string, tabIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bookmark_tabs WHERE bookmark_id = ?`, bookmarkID); err != nil {
		return err
	}

	for i, tabID := range tabIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bookmark_tabs (bookmark_id, tab_id, position)
			VALUES (?, ?, ?)`,
			bookmarkID, tabID, i,
		)
		if err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return store.ErrNotFound.WithMessage("tab not found")
			}
			return fmt.Errorf("insert bookmark_tab %s: %w", tabID, err)
		}
	}

	return tx.Commit()
}

// AddMembership adds a bookmark to a group at the given position.
// Returns store.ErrAlreadyExists if the bookmark is already in the group.
func (s *Store) AddMembership(ctx context.Context, m domain.Membership) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmark_groups (bookmark_id, group_id, order_index)
		VALUES (?, ?, ?)`,
		m.BookmarkID, m.GroupID, m.OrderIndex,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("bookmark or group not found")
		}
		return err
	}
	return nil
}

// RemoveMembership removes a bookmark from a group.
// Returns store.ErrNotFound if the membership does not exist.
func (s *Store) RemoveMembership(ctx context.Context, bookmarkID, groupID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmark_groups WHERE bookmark_id = ? AND group_id = ?`,
		bookmarkID, groupID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetMembership retrieves a single bookmark-group membership.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetMembership(ctx context.Context, bookmarkID, groupID string) (*domain.Membership, error) {
	var m domain.Membership
	err := s.db.QueryRowContext(ctx,
		`SELECT bookmark_id, group_id, order_index FROM bookmark_groups
		 WHERE bookmark_id = ? AND group_id = ?`,
		bookmarkID, groupID,
	).Scan(&m.BookmarkID, &m.GroupID, &m.OrderIndex)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountMemberships returns the number of bookmarks in a group.
func (s *Store) CountMemberships(ctx context.Context, groupID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmark_groups WHERE group_id = ?`, groupID).Scan(&count)
	return count, err
}

// MaxMembershipOrderIndex returns the highest order_index within a group.
// The bool is false when the group holds no bookmarks.
func (s *Store) MaxMembershipOrderIndex(ctx context.Context, groupID string) (int, bool, error) {
	var maxOrder sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(order_index) FROM bookmark_groups WHERE group_id = ?`, groupID).Scan(&maxOrder)
	if err != nil {
		return 0, false, err
	}
	if !maxOrder.Valid {
		return 0, false, nil
	}
	return int(maxOrder.Int64), true, nil
}

// ShiftMembershipOrders adds delta to the order_index of every membership in
// the group whose order_index lies in the closed interval [lo, hi].
func (s *Store) ShiftMembershipOrders(ctx context.Context, groupID string, lo, hi, delta int) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE bookmark_groups SET order_index = order_index + %d
		WHERE group_id = ? AND order_index >= ? AND order_index <= ?`, delta),
		groupID, lo, hi,
	)
	return err
}

// SetMembershipOrderIndex sets the order_index of a single membership.
// Returns store.ErrNotFound if the membership does not exist.
func (s *Store) SetMembershipOrderIndex(ctx context.Context, bookmarkID, groupID string, orderIndex int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE bookmark_groups SET order_index = ? WHERE bookmark_id = ? AND group_id = ?`,
		orderIndex, bookmarkID, groupID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetFavicon stores favicon bytes for a bookmark.
// Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) SetFavicon(ctx context.Context, bookmarkID string, data []byte, contentType string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET favicon = ?, favicon_type = ? WHERE id = ?`,
		data, nullString(contentType), bookmarkID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetFavicon retrieves favicon bytes and content type for a bookmark.
// Returns store.ErrNotFound if the bookmark does not exist or has no favicon.
func (s *Store) GetFavicon(ctx context.Context, bookmarkID string) ([]byte, string, error) {
	var (
		data        []byte
		contentType sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT favicon, favicon_type FROM bookmarks WHERE id = ?`, bookmarkID,
	).Scan(&data, &contentType)
	if err == sql.ErrNoRows {
		return nil, "", store.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", store.ErrNotFound.WithMessage("bookmark has no favicon")
	}
	return data, contentType.String, nil
}
