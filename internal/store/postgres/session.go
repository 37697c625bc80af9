package postgres

import (
	"context"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
)

func (s *Store) CreateSession(ctx context.Context, sess models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (token, member_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`,
		sess.Token, sess.MemberID, sess.CreatedAt, sess.ExpiresAt)
	return mapErr(err)
}

func (s *Store) GetSession(ctx context.Context, token string) (models.Session, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT token, member_id, created_at, expires_at
		FROM session WHERE token = $1`, token).
		Scan(&sess.Token, &sess.MemberID, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		return models.Session{}, mapErr(err)
	}
	return sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE token = $1", token)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
