package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tabmarks/tabmarks-server/internal/domain"
	"github.com/tabmarks/tabmarks-server/internal/store"
)

// tabColumns is the ordered list of columns selected in tab queries.
// Must match the scan order in scanTab.
const tabColumns = `id, created_at, updated_at, name, color`

// scanTab scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tab.
func scanTab(scanner interface{ Scan(dest ...any) error }) (*domain.Tab, error) {
	var t domain.Tab

	var (
		createdAt string
		updatedAt string
		color     sql.NullString
	)

	err := scanner.Scan(
		&t.ID,
		&createdAt,
		&updatedAt,
		&t.Name,
		&color,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if color.Valid {
		t.Color = color.String
	}

	return &t, nil
}

// CreateTab inserts a new tab.
// Returns store.ErrAlreadyExists on duplicate ID or name.
func (s *Store) CreateTab(ctx context.Context, tab *domain.Tab) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tabs (id, created_at, updated_at, name, color)
		VALUES (?, ?, ?, ?, ?)`,
		tab.ID,
		formatTime(tab.CreatedAt),
		formatTime(tab.UpdatedAt),
		tab.Name,
		nullString(tab.Color),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetTab retrieves a tab by ID.
// Returns store.ErrNotFound if the tab does not exist.
func (s *Store) GetTab(ctx context.Context, id string) (*domain.Tab, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tabColumns+` FROM tabs WHERE id = ?`, id)

	t, err := scanTab(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTab updates a tab row.
// Returns store.ErrNotFound if the tab does not exist,
// store.ErrAlreadyExists if the new name collides with another tab.
func (s *Store) UpdateTab(ctx context.Context, tab *domain.Tab) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tabs SET
			created_at = ?,
			updated_at = ?,
			name = ?,
			color = ?
		WHERE id = ?`,
		formatTime(tab.CreatedAt),
		formatTime(tab.UpdatedAt),
		tab.Name,
		nullString(tab.Color),
		tab.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
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

// DeleteTab deletes the tab row only. Dependent rows are the caller's
// responsibility; tab deletion is orchestrated at the service layer.
// Returns store.ErrNotFound if the tab does not exist.
func (s *Store) DeleteTab(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tabs WHERE id = ?`, id)
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

// ListTabs returns all tabs ordered by creation time.
func (s *Store) ListTabs(ctx context.Context) ([]*domain.Tab, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tabColumns+` FROM tabs ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tabs []*domain.Tab
	for rows.Next() {
		t, err := scanTab(rows)
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tabs, nil
}
