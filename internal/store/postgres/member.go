package postgres

import (
	"context"
	"strconv"
	"strings"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/store"
)

const memberColumns = "id, username, email, first_name, last_name, handle, password_hash, is_admin, status, created_at, updated_at"

func scanMember(row interface{ Scan(...any) error }) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.Username, &m.Email, &m.FirstName, &m.LastName, &m.Handle,
		&m.PasswordHash, &m.IsAdmin, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return models.Member{}, mapErr(err)
	}
	return m, nil
}

func (s *Store) CreateMember(ctx context.Context, m models.Member) (models.Member, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO member (username, email, first_name, last_name, handle, password_hash, is_admin, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+memberColumns,
		m.Username, m.Email, m.FirstName, m.LastName, m.Handle, m.PasswordHash, m.IsAdmin, m.Status)
	return scanMember(row)
}

func (s *Store) GetMemberByID(ctx context.Context, id int) (models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM member WHERE id = $1", id)
	return scanMember(row)
}

func (s *Store) GetMemberByUsername(ctx context.Context, username string) (models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM member WHERE username = $1", username)
	return scanMember(row)
}

func (s *Store) UpdateMember(ctx context.Context, id int, patch store.MemberPatch) (models.Member, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+itoa(len(args)))
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Handle != nil {
		add("handle", *patch.Handle)
	}
	if patch.NewPassword != nil {
		add("password_hash", *patch.NewPassword)
	}

	args = append(args, id)
	row := s.db.QueryRowContext(ctx,
		"UPDATE member SET "+strings.Join(sets, ", ")+" WHERE id = $"+itoa(len(args))+" RETURNING "+memberColumns,
		args...)
	return scanMember(row)
}

func (s *Store) UpdateMemberStatus(ctx context.Context, id int, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE member SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", status, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMember(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = $1", id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func itoa(n int) string { return strconv.Itoa(n) }
