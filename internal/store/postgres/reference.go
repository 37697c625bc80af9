package postgres

import (
	"context"
	"fmt"
	"strings"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
)

func (s *Store) ListStatuses(ctx context.Context) ([]models.TaskStatus, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, color FROM task_status ORDER BY id")
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.TaskStatus
	for rows.Next() {
		var st models.TaskStatus
		if err := rows.Scan(&st.ID, &st.Name, &st.Color); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) ListPriorities(ctx context.Context) ([]models.TaskPriority, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, level, color FROM task_priority ORDER BY id")
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.TaskPriority
	for rows.Next() {
		var p models.TaskPriority
		if err := rows.Scan(&p.ID, &p.Level, &p.Color); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) StatusID(ctx context.Context, name string) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx, "SELECT id FROM task_status WHERE name = $1", name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("status %q: %w", name, mapErr(err))
	}
	return id, nil
}

func (s *Store) PriorityID(ctx context.Context, level string) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx, "SELECT id FROM task_priority WHERE level = $1", level).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("priority %q: %w", level, mapErr(err))
	}
	return id, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, value, color FROM category ORDER BY id")
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

func (s *Store) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO category (value, color) VALUES ($1, $2) RETURNING id",
		c.Value, c.Color).Scan(&c.ID)
	if err != nil {
		return models.Category{}, mapErr(err)
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id int, value, color *string) (models.Category, error) {
	sets := []string{}
	args := []any{}
	if value != nil {
		args = append(args, *value)
		sets = append(sets, "value = $"+itoa(len(args)))
	}
	if color != nil {
		args = append(args, *color)
		sets = append(sets, "color = $"+itoa(len(args)))
	}
	if len(sets) == 0 {
		var c models.Category
		err := s.db.QueryRowContext(ctx,
			"SELECT id, value, color FROM category WHERE id = $1", id).Scan(&c.ID, &c.Value, &c.Color)
		if err != nil {
			return models.Category{}, fmt.Errorf("category %d: %w", id, mapErr(err))
		}
		return c, nil
	}

	args = append(args, id)
	var c models.Category
	err := s.db.QueryRowContext(ctx,
		"UPDATE category SET "+strings.Join(sets, ", ")+
			" WHERE id = $"+itoa(len(args))+" RETURNING id, value, color",
		args...).Scan(&c.ID, &c.Value, &c.Color)
	if err != nil {
		return models.Category{}, fmt.Errorf("category %d: %w", id, mapErr(err))
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_category WHERE category_id = $1", id); err != nil {
		return mapErr(err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM category WHERE id = $1", id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d: %w", id, apperr.ErrNotFound)
	}
	return mapErr(tx.Commit())
}
