package postgres

import (
	"context"
	"fmt"
	"strings"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/store"
)

const taskSelect = `
	SELECT t.id, t.board_id, t.title, t.description, t.points,
	       ts.name, tp.level,
	       creator.username,
	       assignee.username,
	       t.due_date, t.created_on
	FROM task t
	JOIN task_status ts ON ts.id = t.status_id
	JOIN task_priority tp ON tp.id = t.priority_id
	JOIN member creator ON creator.id = t.created_by
	LEFT JOIN member assignee ON assignee.id = t.assigned_to`

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.BoardID, &t.Title, &t.Description, &t.Points,
		&t.Status, &t.Priority, &t.Creator, &t.Assignee, &t.DueDate, &t.CreatedOn)
	if err != nil {
		return models.Task{}, mapErr(err)
	}
	return t, nil
}

func (s *Store) CreateTask(ctx context.Context, t models.Task, statusID, priorityID int) (models.Task, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO task (board_id, title, description, points, status_id, priority_id, created_by, assigned_to, due_date)
		VALUES ($1, $2, $3, $4, $5, $6,
		        (SELECT id FROM member WHERE username = $7),
		        (SELECT id FROM member WHERE username = $8),
		        $9)
		RETURNING id`,
		t.BoardID, t.Title, t.Description, t.Points, statusID, priorityID,
		t.Creator, t.Assignee, t.DueDate).Scan(&id)
	if err != nil {
		return models.Task{}, mapErr(err)
	}
	return s.GetTask(ctx, t.BoardID, id)
}

func (s *Store) GetTask(ctx context.Context, boardID, taskID int) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, taskSelect+" WHERE t.id = $1 AND t.board_id = $2", taskID, boardID)
	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, fmt.Errorf("task %d on board %d: %w", taskID, boardID, err)
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, boardID int) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, taskSelect+" WHERE t.board_id = $1 ORDER BY t.id", boardID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, boardID, taskID int, patch store.TaskPatch) (models.Task, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+itoa(len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Points != nil {
		add("points", *patch.Points)
	}
	if patch.StatusID != nil {
		add("status_id", *patch.StatusID)
	}
	if patch.PriorityID != nil {
		add("priority_id", *patch.PriorityID)
	}
	if patch.Assignee != nil {
		args = append(args, *patch.Assignee)
		sets = append(sets, "assigned_to = (SELECT id FROM member WHERE username = $"+itoa(len(args))+")")
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if len(sets) == 0 {
		return s.GetTask(ctx, boardID, taskID)
	}

	args = append(args, taskID, boardID)
	res, err := s.db.ExecContext(ctx,
		"UPDATE task SET "+strings.Join(sets, ", ")+
			" WHERE id = $"+itoa(len(args)-1)+" AND board_id = $"+itoa(len(args)),
		args...)
	if err != nil {
		return models.Task{}, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Task{}, fmt.Errorf("task %d on board %d: %w", taskID, boardID, apperr.ErrNotFound)
	}
	return s.GetTask(ctx, boardID, taskID)
}

// DeleteTask removes the task together with its comments and category
// links in one transaction.
func (s *Store) DeleteTask(ctx context.Context, boardID, taskID int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comment WHERE task_id = $1", taskID); err != nil {
		return mapErr(err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM task_category WHERE task_id = $1", taskID); err != nil {
		return mapErr(err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM task WHERE id = $1 AND board_id = $2", taskID, boardID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %d on board %d: %w", taskID, boardID, apperr.ErrNotFound)
	}

	return mapErr(tx.Commit())
}

func (s *Store) TaskExists(ctx context.Context, boardID, taskID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM task WHERE id = $1 AND board_id = $2)",
		taskID, boardID).Scan(&exists)
	if err != nil {
		return false, mapErr(err)
	}
	return exists, nil
}

// SetTaskCategories replaces the task's category set transactionally.
// Unknown category ids trip the foreign key and surface as a validation
// error.
func (s *Store) SetTaskCategories(ctx context.Context, boardID, taskID int, categoryIDs []int) error {
	ok, err := s.TaskExists(ctx, boardID, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %d on board %d: %w", taskID, boardID, apperr.ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_category WHERE task_id = $1", taskID); err != nil {
		return mapErr(err)
	}
	for _, catID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO task_category (task_id, category_id) VALUES ($1, $2)", taskID, catID); err != nil {
			return mapErr(err)
		}
	}

	return mapErr(tx.Commit())
}

func (s *Store) ListTaskCategories(ctx context.Context, taskID int) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.value, c.color
		FROM category c
		JOIN task_category tc ON tc.category_id = c.id
		WHERE tc.task_id = $1
		ORDER BY c.id`, taskID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Value, &c.Color); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
