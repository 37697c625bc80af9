package authz

import (
	"context"
	"os"
	"testing"

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

func TestRequireWorkspaceMember(t *testing.T) {
	st := memory.New()
	engine := NewEngine(st, st)
	ctx := context.Background()

	ws := st.SeedWorkspace("engineering", "engineering", 1)
	st.SeedWorkspaceMember(ws.ID, 1)

	require.NoError(t, engine.RequireWorkspaceMember(ctx, 1, ws.ID))

	// Existing workspace, no membership row.
	err := engine.RequireWorkspaceMember(ctx, 2, ws.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Missing workspace wins over the membership check.
	err = engine.RequireWorkspaceMember(ctx, 1, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRequireBoardMember(t *testing.T) {
	st := memory.New()
	engine := NewEngine(st, st)
	ctx := context.Background()

	ws := st.SeedWorkspace("engineering", "engineering", 1)
	board := st.SeedBoard(ws.ID, "Sprint 12")
	st.SeedBoardMember(board.ID, 1, models.RoleAdmin)
	st.SeedBoardMember(board.ID, 2, models.RoleMember)

	role, err := engine.RequireBoardMember(ctx, 1, ws.ID, board.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	role, err = engine.RequireBoardMember(ctx, 2, ws.ID, board.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, role)

	// Workspace member without a board membership row.
	st.SeedWorkspaceMember(ws.ID, 3)
	_, err = engine.RequireBoardMember(ctx, 3, ws.ID, board.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Board absent from the workspace: 404 even for a non-member.
	_, err = engine.RequireBoardMember(ctx, 3, ws.ID, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Board exists but under another workspace id.
	other := st.SeedWorkspace("sales", "sales", 1)
	_, err = engine.RequireBoardMember(ctx, 1, other.ID, board.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRequireBoardAdmin(t *testing.T) {
	st := memory.New()
	engine := NewEngine(st, st)
	ctx := context.Background()

	ws := st.SeedWorkspace("engineering", "engineering", 1)
	board := st.SeedBoard(ws.ID, "Sprint 12")
	st.SeedBoardMember(board.ID, 1, models.RoleAdmin)
	st.SeedBoardMember(board.ID, 2, models.RoleMember)

	require.NoError(t, engine.RequireBoardAdmin(ctx, 1, ws.ID, board.ID))

	// Plain membership is not enough.
	err := engine.RequireBoardAdmin(ctx, 2, ws.ID, board.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Non-members fail the membership gate first.
	err = engine.RequireBoardAdmin(ctx, 3, ws.ID, board.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = engine.RequireBoardAdmin(ctx, 1, ws.ID, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
