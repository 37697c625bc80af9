package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/store"
)

func (s *Store) CreateBoard(ctx context.Context, b models.Board, creatorID int) (models.Board, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Board{}, mapErr(err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO board (workspace_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id`, b.WorkspaceID, b.Title, b.Description).Scan(&b.ID)
	if err != nil {
		return models.Board{}, mapErr(err)
	}

	// The creator administers the board they created.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO board_member (board_id, member_id, role)
		VALUES ($1, $2, $3)`, b.ID, creatorID, models.RoleAdmin)
	if err != nil {
		return models.Board{}, mapErr(err)
	}

	if err := tx.Commit(); err != nil {
		return models.Board{}, mapErr(err)
	}
	return b, nil
}

func (s *Store) GetBoard(ctx context.Context, workspaceID, boardID int) (models.Board, error) {
	var b models.Board
	err := s.db.QueryRowContext(ctx, `
		SELECT id, workspace_id, title, description
		FROM board WHERE id = $1 AND workspace_id = $2`, boardID, workspaceID).
		Scan(&b.ID, &b.WorkspaceID, &b.Title, &b.Description)
	if err != nil {
		return models.Board{}, fmt.Errorf("board %d in workspace %d: %w", boardID, workspaceID, mapErr(err))
	}
	return b, nil
}

func (s *Store) ListVisibleBoards(ctx context.Context, workspaceID, memberID int) ([]models.Board, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.workspace_id, b.title, b.description
		FROM board b
		JOIN board_member bm ON bm.board_id = b.id
		WHERE b.workspace_id = $1 AND bm.member_id = $2
		ORDER BY b.id`, workspaceID, memberID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.WorkspaceID, &b.Title, &b.Description); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) BoardRole(ctx context.Context, boardID, memberID int) (string, error) {
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT role FROM board_member WHERE board_id = $1 AND member_id = $2`,
		boardID, memberID).Scan(&role)
	if err != nil {
		if errors.Is(mapErr(err), apperr.ErrNotFound) {
			return "", nil
		}
		return "", mapErr(err)
	}
	return role, nil
}

func (s *Store) UpdateBoard(ctx context.Context, workspaceID, boardID int, patch store.BoardPatch) (models.Board, error) {
	sets := []string{}
	args := []any{}
	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, "title = $"+itoa(len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		sets = append(sets, "description = $"+itoa(len(args)))
	}
	if len(sets) == 0 {
		return s.GetBoard(ctx, workspaceID, boardID)
	}

	args = append(args, boardID, workspaceID)
	var b models.Board
	err := s.db.QueryRowContext(ctx,
		"UPDATE board SET "+strings.Join(sets, ", ")+
			" WHERE id = $"+itoa(len(args)-1)+" AND workspace_id = $"+itoa(len(args))+
			" RETURNING id, workspace_id, title, description",
		args...).Scan(&b.ID, &b.WorkspaceID, &b.Title, &b.Description)
	if err != nil {
		return models.Board{}, fmt.Errorf("board %d in workspace %d: %w", boardID, workspaceID, mapErr(err))
	}
	return b, nil
}

// DeleteBoard removes the board and everything scoped under it in one
// transaction: comments, task category links, tasks, memberships.
func (s *Store) DeleteBoard(ctx context.Context, workspaceID, boardID int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	queries := []string{
		`DELETE FROM comment WHERE task_id IN (SELECT id FROM task WHERE board_id = $1)`,
		`DELETE FROM task_category WHERE task_id IN (SELECT id FROM task WHERE board_id = $1)`,
		`DELETE FROM task WHERE board_id = $1`,
		`DELETE FROM board_member WHERE board_id = $1`,
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q, boardID); err != nil {
			return mapErr(err)
		}
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM board WHERE id = $1 AND workspace_id = $2", boardID, workspaceID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("board %d in workspace %d: %w", boardID, workspaceID, apperr.ErrNotFound)
	}

	return mapErr(tx.Commit())
}
