package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// PutGroup creates the group or replaces its member list.
func (s *SQLiteStore) PutGroup(ctx context.Context, group *models.Group) error {
	if group.Name == "" {
		return fmt.Errorf("group name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, "SELECT created_at FROM groups WHERE name = ?", group.Name).Scan(&group.CreatedAt)
	switch {
	case err == sql.ErrNoRows:
		group.CreatedAt = time.Now().Unix()
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO groups (name, created_at) VALUES (?, ?)",
			group.Name, group.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	// Replace members
	if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_name = ?", group.Name); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	for _, member := range group.Members {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_name, name) VALUES (?, ?)",
			group.Name, member,
		); err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListGroups returns all groups with their members, sorted by name.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, created_at FROM groups ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	byName := make(map[string]*models.Group)
	for rows.Next() {
		g := &models.Group{Members: []string{}}
		if err := rows.Scan(&g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
		byName[g.Name] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	memberRows, err := s.db.QueryContext(ctx,
		"SELECT group_name, name FROM group_members ORDER BY group_name, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var groupName, name string
		if err := memberRows.Scan(&groupName, &name); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		if g, ok := byName[groupName]; ok {
			g.Members = append(g.Members, name)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return groups, nil
}

// DeleteGroup removes a group and its memberships.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The pragma only applies to the first pooled connection, so members are
	// removed explicitly rather than through the cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_name = ?", name); err != nil {
		return fmt.Errorf("failed to delete group members: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", name, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
