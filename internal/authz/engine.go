// Package authz is the authorization gate every resource handler calls
// before touching the store. Checks are nested and fail closed: an
// outer denial short-circuits the inner checks.
package authz

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/store"
	"taskmaster/pkg/logger"
)

type Engine struct {
	workspaces store.WorkspaceStore
	boards     store.BoardStore
}

func NewEngine(workspaces store.WorkspaceStore, boards store.BoardStore) *Engine {
	return &Engine{workspaces: workspaces, boards: boards}
}

// RequireWorkspaceMember grants workspace-scoped reads such as listing
// boards. A missing workspace is ErrNotFound; an existing workspace the
// member does not belong to is ErrForbidden.
func (e *Engine) RequireWorkspaceMember(ctx context.Context, memberID, workspaceID int) error {
	if _, err := e.workspaces.GetWorkspace(ctx, workspaceID); err != nil {
		return err
	}

	ok, err := e.workspaces.IsWorkspaceMember(ctx, workspaceID, memberID)
	if err != nil {
		return fmt.Errorf("workspace membership lookup: %w", err)
	}
	if !ok {
		logger.SecurityLogger.Warn("Workspace access denied",
			zap.Int("member_id", memberID), zap.Int("workspace_id", workspaceID))
		return fmt.Errorf("not a member of this workspace: %w", apperr.ErrForbidden)
	}
	return nil
}

// RequireBoardMember grants board-scoped actions: board read, task and
// comment list/create/update/delete. Existence is decided before
// membership, so a board id that is not inside the workspace reports
// ErrNotFound while an existing board without a membership row reports
// ErrForbidden. Returns the member's role for callers that need it.
func (e *Engine) RequireBoardMember(ctx context.Context, memberID, workspaceID, boardID int) (string, error) {
	if _, err := e.boards.GetBoard(ctx, workspaceID, boardID); err != nil {
		return "", err
	}

	role, err := e.boards.BoardRole(ctx, boardID, memberID)
	if err != nil {
		return "", fmt.Errorf("board role lookup: %w", err)
	}
	if role == "" {
		logger.SecurityLogger.Warn("Board access denied",
			zap.Int("member_id", memberID), zap.Int("board_id", boardID))
		return "", fmt.Errorf("not a member of this board: %w", apperr.ErrForbidden)
	}
	return role, nil
}

// RequireBoardAdmin gates mutations of board identity (title and
// description updates, board delete). Only the board admin role
// qualifies; workspace access alone is not sufficient.
func (e *Engine) RequireBoardAdmin(ctx context.Context, memberID, workspaceID, boardID int) error {
	role, err := e.RequireBoardMember(ctx, memberID, workspaceID, boardID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		logger.SecurityLogger.Warn("Board admin role required",
			zap.Int("member_id", memberID), zap.Int("board_id", boardID), zap.String("role", role))
		return fmt.Errorf("requires board admin role: %w", apperr.ErrForbidden)
	}
	return nil
}
