package postgres

import (
	"context"
	"fmt"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
)

func (s *Store) GetWorkspace(ctx context.Context, id int) (models.Workspace, error) {
	var w models.Workspace
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, description, created_by, created_on
		FROM workspace WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Slug, &w.Description, &w.CreatedBy, &w.CreatedOn)
	if err != nil {
		return models.Workspace{}, mapErr(err)
	}
	return w, nil
}

func (s *Store) ListMemberWorkspaces(ctx context.Context, memberID int) ([]models.Workspace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id, w.name, w.slug, w.description, w.created_by, w.created_on
		FROM workspace w
		JOIN workspace_member wm ON wm.workspace_id = w.id
		WHERE wm.member_id = $1
		ORDER BY w.id`, memberID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Workspace
	for rows.Next() {
		var w models.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.Slug, &w.Description, &w.CreatedBy, &w.CreatedOn); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) IsWorkspaceMember(ctx context.Context, workspaceID, memberID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM workspace_member WHERE workspace_id = $1 AND member_id = $2
		)`, workspaceID, memberID).Scan(&exists)
	if err != nil {
		return false, mapErr(err)
	}
	return exists, nil
}

// AddWorkspaceMembers grants workspace membership to every named member
// in one transaction. Unknown usernames and existing memberships are
// skipped; the count of rows actually added is returned.
func (s *Store) AddWorkspaceMembers(ctx context.Context, workspaceID int, usernames []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, mapErr(err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM workspace WHERE id = $1)", workspaceID).Scan(&exists); err != nil {
		return 0, mapErr(err)
	}
	if !exists {
		return 0, fmt.Errorf("workspace %d: %w", workspaceID, apperr.ErrNotFound)
	}

	added := 0
	for _, username := range usernames {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO workspace_member (workspace_id, member_id)
			SELECT $1, m.id FROM member m WHERE m.username = $2
			ON CONFLICT DO NOTHING`, workspaceID, username)
		if err != nil {
			return 0, mapErr(err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, mapErr(err)
	}
	return added, nil
}
