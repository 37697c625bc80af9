package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/store/memory"
	"taskmaster/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitTestLoggers()
	os.Exit(m.Run())
}

func newTestManager(t *testing.T) (*Manager, *memory.Store, models.Member) {
	t.Helper()
	st := memory.New()
	mgr := NewManager(st, st, 30*time.Minute)

	hash, err := mgr.HashPassword("correct-horse")
	require.NoError(t, err)
	member, err := st.CreateMember(context.Background(), models.Member{
		Username:     "alice",
		Email:        "alice@example.com",
		FirstName:    "Alice",
		Handle:       "@alice",
		PasswordHash: hash,
		Status:       models.MemberActive,
	})
	require.NoError(t, err)
	return mgr, st, member
}

func TestLoginSuccess(t *testing.T) {
	mgr, st, member := newTestManager(t)
	ctx := context.Background()

	token, got, err := mgr.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, member.ID, got.ID)

	sess, err := st.GetSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, sess.MemberID)
	assert.True(t, sess.ExpiresAt.After(sess.CreatedAt))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	mgr, st, member := newTestManager(t)
	ctx := context.Background()

	_, _, err := mgr.Login(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, _, err = mgr.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	require.NoError(t, st.UpdateMemberStatus(ctx, member.ID, models.MemberSuspended))
	_, _, err = mgr.Login(ctx, "alice", "correct-horse")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	mgr, _, member := newTestManager(t)
	ctx := context.Background()

	token, _, err := mgr.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	id, err := mgr.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, id)

	_, err = mgr.Authenticate(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = mgr.Authenticate(ctx, "forged-token")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	mgr, st, _ := newTestManager(t)
	ctx := context.Background()

	token, _, err := mgr.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	// Move the clock past the lifetime.
	mgr.now = func() time.Time { return time.Now().Add(31 * time.Minute) }

	_, err = mgr.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	// The expired session is dropped eagerly.
	_, err = st.GetSession(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAuthenticateSuspendedMember(t *testing.T) {
	mgr, st, member := newTestManager(t)
	ctx := context.Background()

	token, _, err := mgr.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, st.UpdateMemberStatus(ctx, member.ID, models.MemberSuspended))
	_, err = mgr.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	token, _, err := mgr.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(ctx, token))
	_, err = mgr.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	// Revoking again is not an error.
	require.NoError(t, mgr.Logout(ctx, token))
}
