package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/models"
	"taskmaster/pkg/logger"
)

// MyWorkspaces lists every workspace the caller belongs to together
// with the boards inside it the caller may actually see. Boards the
// caller holds no board membership on are filtered out even inside an
// accessible workspace.
func (h *Handler) MyWorkspaces(c *fiber.Ctx) error {
	memberID := h.memberID(c)
	ctx := c.UserContext()

	workspaces, err := h.store.ListMemberWorkspaces(ctx, memberID)
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]models.WorkspaceBoards, 0, len(workspaces))
	for _, ws := range workspaces {
		boards, err := h.store.ListVisibleBoards(ctx, ws.ID, memberID)
		if err != nil {
			return h.fail(c, err)
		}
		if boards == nil {
			boards = []models.Board{}
		}
		out = append(out, models.WorkspaceBoards{Workspace: ws, Boards: boards})
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"member_id":  memberID,
		"workspaces": out,
	})
}

// WorkspaceBoards lists the caller's visible boards in one workspace.
// Requires workspace membership.
func (h *Handler) WorkspaceBoards(c *fiber.Ctx) error {
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return h.badRequest(c, "Invalid workspace ID")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if err := h.authz.RequireWorkspaceMember(ctx, memberID, workspaceID); err != nil {
		return h.fail(c, err)
	}

	boards, err := h.store.ListVisibleBoards(ctx, workspaceID, memberID)
	if err != nil {
		return h.fail(c, err)
	}
	if boards == nil {
		boards = []models.Board{}
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"workspace_id": workspaceID,
		"boards":       boards,
	})
}

// AddWorkspaceMembers grants workspace membership to a list of
// usernames. The caller must be a member of the workspace themselves.
func (h *Handler) AddWorkspaceMembers(c *fiber.Ctx) error {
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return h.badRequest(c, "Invalid workspace ID")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	type BulkUsernamesRequest struct {
		Usernames []string `json:"usernames" validate:"required,min=1"`
	}

	var req BulkUsernamesRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	if err := h.authz.RequireWorkspaceMember(ctx, memberID, workspaceID); err != nil {
		return h.fail(c, err)
	}

	added, err := h.store.AddWorkspaceMembers(ctx, workspaceID, req.Usernames)
	if err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Workspace members added",
		zap.Int("workspace_id", workspaceID), zap.Int("added", added))
	return c.JSON(fiber.Map{
		"status":       "success",
		"workspace_id": workspaceID,
		"added":        added,
	})
}
