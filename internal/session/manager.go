// Package session issues, validates and revokes the opaque bearer
// tokens every authenticated request carries.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/store"
	"taskmaster/pkg/crypto"
	"taskmaster/pkg/logger"
)

// Manager owns the session lifecycle. Hasher parameters and the session
// lifetime are fixed at construction; the manager keeps no other state,
// so it is safe for concurrent use.
type Manager struct {
	members  store.MemberStore
	sessions store.SessionStore
	lifetime time.Duration
	params   crypto.Argon2Params

	now func() time.Time
}

func NewManager(members store.MemberStore, sessions store.SessionStore, lifetime time.Duration) *Manager {
	return &Manager{
		members:  members,
		sessions: sessions,
		lifetime: lifetime,
		params:   crypto.DefaultArgon2Params(),
		now:      time.Now,
	}
}

// HashPassword hashes a plaintext password with the manager's
// parameters. The plaintext is never stored or logged.
func (m *Manager) HashPassword(password string) (string, error) {
	return crypto.HashPassword(password, m.params)
}

// Login verifies the credentials and creates a session expiring after
// the configured lifetime. Unknown username, wrong password and a
// suspended account all produce the same ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, username, password string) (string, models.Member, error) {
	member, err := m.members.GetMemberByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			logger.SecurityLogger.Warn("Login for unknown username", zap.String("username", username))
			return "", models.Member{}, apperr.ErrInvalidCredentials
		}
		return "", models.Member{}, fmt.Errorf("login lookup: %w", err)
	}

	ok, err := crypto.VerifyPassword(password, member.PasswordHash)
	if err != nil || !ok {
		logger.SecurityLogger.Warn("Password mismatch", zap.String("username", username))
		return "", models.Member{}, apperr.ErrInvalidCredentials
	}

	if member.Status != models.MemberActive {
		logger.SecurityLogger.Warn("Login for suspended member", zap.Int("member_id", member.ID))
		return "", models.Member{}, apperr.ErrInvalidCredentials
	}

	token, err := crypto.NewSessionToken()
	if err != nil {
		return "", models.Member{}, fmt.Errorf("generate session token: %w", err)
	}

	now := m.now()
	sess := models.Session{
		Token:     token,
		MemberID:  member.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime),
	}
	if err := m.sessions.CreateSession(ctx, sess); err != nil {
		return "", models.Member{}, fmt.Errorf("create session: %w", err)
	}

	logger.AuditLogger.Info("Login success", zap.Int("member_id", member.ID))
	return token, member, nil
}

// Authenticate resolves a bearer token to a live member id. Every
// failure mode collapses into ErrUnauthenticated so a caller cannot
// distinguish an expired token from a forged one.
func (m *Manager) Authenticate(ctx context.Context, token string) (int, error) {
	if token == "" {
		return 0, apperr.ErrUnauthenticated
	}

	sess, err := m.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return 0, apperr.ErrUnauthenticated
		}
		return 0, fmt.Errorf("session lookup: %w", err)
	}

	if !m.now().Before(sess.ExpiresAt) {
		// Expired sessions are dropped eagerly; the error stays generic.
		_ = m.sessions.DeleteSession(ctx, token)
		return 0, apperr.ErrUnauthenticated
	}

	member, err := m.members.GetMemberByID(ctx, sess.MemberID)
	if err != nil || member.Status != models.MemberActive {
		return 0, apperr.ErrUnauthenticated
	}

	return member.ID, nil
}

// Logout revokes the session. Revoking an already-invalid token is not
// an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	err := m.sessions.DeleteSession(ctx, token)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
