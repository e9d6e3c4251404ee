package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tabmarks/tabmarks-server/internal/domain"
	"github.com/tabmarks/tabmarks-server/internal/store"
)

// groupColumns is the ordered list of columns selected in group queries.
// Must match the scan order in scanGroup.
const groupColumns = `id, created_at, updated_at, name, color, tab_id, order_index`

// scanGroup scans a sql.Row (or sql.Rows via its Scan method) into a domain.Group.
func scanGroup(scanner interface{ Scan(dest ...any) error }) (*domain.Group, error) {
	var g domain.Group

	var (
		createdAt string
		updatedAt string
		color     sql.NullString
		tabID     sql.NullString
	)

	err := scanner.Scan(
		&g.ID,
		&createdAt,
		&updatedAt,
		&g.Name,
		&color,
		&tabID,
		&g.OrderIndex,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if color.Valid {
		g.Color = color.String
	}
	if tabID.Valid {
		g.TabID = &tabID.String
	}

	return &g, nil
}

// groupScope returns the WHERE fragment and args matching a tab scope.
// A nil tabID selects top-level groups (those without a parent tab).
func groupScope(tabID *string) (string, []any) {
	if tabID == nil {
		return "tab_id IS NULL", nil
	}
	return "tab_id = ?", []any{*tabID}
}

// loadGroupBookmarkIDs loads the ordered bookmark IDs for a group from bookmark_groups.
func (s *Store) loadGroupBookmarkIDs(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT bookmark_id FROM bookmark_groups WHERE group_id = ? ORDER BY order_index, bookmark_id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarkIDs []string
	for rows.Next() {
		var bookmarkID string
		if err := rows.Scan(&bookmarkID); err != nil {
			return nil, err
		}
		bookmarkIDs = append(bookmarkIDs, bookmarkID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookmarkIDs, nil
}

// CreateGroup inserts a new group.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, created_at, updated_at, name, color, tab_id, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID,
		formatTime(group.CreatedAt),
		formatTime(group.UpdatedAt),
		group.Name,
		nullString(group.Color),
		nullableString(group.TabID),
		group.OrderIndex,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("parent tab not found")
		}
		return err
	}
	return nil
}

// GetGroup retrieves a group by ID, including its ordered bookmark IDs.
// Returns store.ErrNotFound if the group does not exist.
func (s *Store) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = ?`, id)

	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	g.BookmarkIDs, err = s.loadGroupBookmarkIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load group bookmark ids: %w", err)
	}

	return g, nil
}

// UpdateGroup updates a group row.
// Returns store.ErrNotFound if the group does not exist.
func (s *Store) UpdateGroup(ctx context.Context, group *domain.Group) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE groups SET
			created_at = ?,
			updated_at = ?,
			name = ?,
			color = ?,
			tab_id = ?,
			order_index = ?
		WHERE id = ?`,
		formatTime(group.CreatedAt),
		formatTime(group.UpdatedAt),
		group.Name,
		nullString(group.Color),
		nullableString(group.TabID),
		group.OrderIndex,
		group.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("parent tab not found")
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

// DeleteGroup performs a hard delete on a group.
// The ON DELETE CASCADE on bookmark_groups removes its memberships.
// Returns store.ErrNotFound if the group does not exist.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
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

// ListGroups returns all groups ordered by scope and position.
// Bookmark IDs are loaded for each group.
func (s *Store) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM groups ORDER BY tab_id, order_index, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectGroups(ctx, rows)
}

// ListGroupsByScope returns the groups in a tab scope ordered by position.
// A nil tabID selects top-level groups.
func (s *Store) ListGroupsByScope(ctx context.Context, tabID *string) ([]*domain.Group, error) {
	clause, args := groupScope(tabID)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE `+clause+` ORDER BY order_index, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectGroups(ctx, rows)
}

// collectGroups drains a group result set and loads bookmark IDs for each row.
func (s *Store) collectGroups(ctx context.Context, rows *sql.Rows) ([]*domain.Group, error) {
	var groups []*domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		var err error
		g.BookmarkIDs, err = s.loadGroupBookmarkIDs(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("load group bookmark ids for %s: %w", g.ID, err)
		}
	}

	return groups, nil
}

// CountGroupsInScope returns the number of groups in a tab scope.
func (s *Store) CountGroupsInScope(ctx context.Context, tabID *string) (int, error) {
	clause, args := groupScope(tabID)
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM groups WHERE `+clause, args...).Scan(&count)
	return count, err
}

// MaxGroupOrderIndex returns the highest order_index in a tab scope.
// The bool is false when the scope holds no groups.
func (s *Store) MaxGroupOrderIndex(ctx context.Context, tabID *string) (int, bool, error) {
	clause, args := groupScope(tabID)
	var maxOrder sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(order_index) FROM groups WHERE `+clause, args...).Scan(&maxOrder)
	if err != nil {
		return 0, false, err
	}
	if !maxOrder.Valid {
		return 0, false, nil
	}
	return int(maxOrder.Int64), true, nil
}

// ShiftGroupOrders adds delta to the order_index of every group in the scope
// whose order_index lies in the closed interval [lo, hi].
func (s *Store) ShiftGroupOrders(ctx context.Context, tabID *string, lo, hi, delta int) error {
	clause, args := groupScope(tabID)
	args = append(args, lo, hi)
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE groups SET order_index = order_index + %d
		WHERE %s AND order_index >= ? AND order_index <= ?`, delta, clause),
		args...,
	)
	return err
}

// SetGroupOrderIndex sets the order_index of a single group.
// Returns store.ErrNotFound if the group does not exist.
func (s *Store) SetGroupOrderIndex(ctx context.Context, groupID string, orderIndex int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE groups SET order_index = ? WHERE id = ?`, orderIndex, groupID)
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

// ClearGroupMemberships removes all bookmark memberships of a group.
func (s *Store) ClearGroupMemberships(ctx context.Context, groupID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmark_groups WHERE group_id = ?`, groupID)
	return err
}
