package postgres

import (
	"context"
	"fmt"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
)

const commentSelect = `
	SELECT c.id, c.task_id, m.username, c.content, c.created_at, c.updated_at
	FROM comment c
	JOIN member m ON m.id = c.author_id`

func scanComment(row interface{ Scan(...any) error }) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.TaskID, &c.Author, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Comment{}, mapErr(err)
	}
	return c, nil
}

func (s *Store) CreateComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comment (task_id, author_id, content)
		VALUES ($1, (SELECT id FROM member WHERE username = $2), $3)
		RETURNING id`, c.TaskID, c.Author, c.Content).Scan(&id)
	if err != nil {
		return models.Comment{}, mapErr(err)
	}
	return s.GetComment(ctx, c.TaskID, id)
}

func (s *Store) GetComment(ctx context.Context, taskID, commentID int) (models.Comment, error) {
	row := s.db.QueryRowContext(ctx, commentSelect+" WHERE c.id = $1 AND c.task_id = $2", commentID, taskID)
	c, err := scanComment(row)
	if err != nil {
		return models.Comment{}, fmt.Errorf("comment %d on task %d: %w", commentID, taskID, err)
	}
	return c, nil
}

func (s *Store) ListComments(ctx context.Context, taskID int) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, commentSelect+" WHERE c.task_id = $1 ORDER BY c.id", taskID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateComment(ctx context.Context, taskID, commentID int, content string) (models.Comment, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE comment SET content = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND task_id = $3`, content, commentID, taskID)
	if err != nil {
		return models.Comment{}, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Comment{}, fmt.Errorf("comment %d on task %d: %w", commentID, taskID, apperr.ErrNotFound)
	}
	return s.GetComment(ctx, taskID, commentID)
}

// DeleteComment is permanent; deleting the same id again reports
// not-found rather than idempotent success.
func (s *Store) DeleteComment(ctx context.Context, taskID, commentID int) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM comment WHERE id = $1 AND task_id = $2", commentID, taskID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("comment %d on task %d: %w", commentID, taskID, apperr.ErrNotFound)
	}
	return nil
}
