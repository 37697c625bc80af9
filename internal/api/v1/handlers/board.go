package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/models"
	"taskmaster/internal/store"
	"taskmaster/pkg/logger"
)

func boardCacheKey(boardID int) string {
	return fmt.Sprintf("board:%d", boardID)
}

// CreateBoard adds a board to a workspace. Any workspace member may
// create boards; the creator is granted the board admin role.
func (h *Handler) CreateBoard(c *fiber.Ctx) error {
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return h.badRequest(c, "Invalid workspace ID")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	type CreateBoardRequest struct {
		Name        string  `json:"name" validate:"required"`
		Description *string `json:"description"`
	}

	var req CreateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create board", zap.Error(err))
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	if err := h.authz.RequireWorkspaceMember(ctx, memberID, workspaceID); err != nil {
		return h.fail(c, err)
	}

	board, err := h.store.CreateBoard(ctx, models.Board{
		WorkspaceID: workspaceID,
		Title:       req.Name,
		Description: req.Description,
	}, memberID)
	if err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Board created",
		zap.Int("board_id", board.ID), zap.Int("workspace_id", workspaceID), zap.Int("member_id", memberID))
	return c.JSON(fiber.Map{
		"status": "success",
		"board":  board,
	})
}

// GetBoard returns board details to board members. A board id outside
// the workspace is 404; an existing board without membership is 403.
func (h *Handler) GetBoard(c *fiber.Ctx) error {
	workspaceID, boardID, err := h.boardParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	var board models.Board
	if !h.cache.Get(ctx, boardCacheKey(boardID), &board) {
		board, err = h.store.GetBoard(ctx, workspaceID, boardID)
		if err != nil {
			return h.fail(c, err)
		}
		h.cache.Set(ctx, boardCacheKey(boardID), board)
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"workspace_id": workspaceID,
		"board":        board,
	})
}

// UpdateBoard mutates board identity and therefore requires the board
// admin role; workspace access alone is not enough.
func (h *Handler) UpdateBoard(c *fiber.Ctx) error {
	workspaceID, boardID, err := h.boardParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	type UpdateBoardRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}

	var req UpdateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}

	if err := h.authz.RequireBoardAdmin(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	board, err := h.store.UpdateBoard(ctx, workspaceID, boardID, store.BoardPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return h.fail(c, err)
	}
	h.cache.Del(ctx, boardCacheKey(boardID))

	logger.AuditLogger.Info("Board updated", zap.Int("board_id", boardID), zap.Int("member_id", memberID))
	return c.JSON(fiber.Map{
		"status": "success",
		"board":  board,
	})
}

// DeleteBoard is permanent; a second delete of the same id answers 404.
func (h *Handler) DeleteBoard(c *fiber.Ctx) error {
	workspaceID, boardID, err := h.boardParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if err := h.authz.RequireBoardAdmin(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	if err := h.store.DeleteBoard(ctx, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}
	h.cache.Del(ctx, boardCacheKey(boardID))

	logger.AuditLogger.Info("Board deleted", zap.Int("board_id", boardID), zap.Int("member_id", memberID))
	return c.JSON(fiber.Map{
		"status": "success",
	})
}

func (h *Handler) boardParams(c *fiber.Ctx) (workspaceID, boardID int, err error) {
	workspaceID, err = c.ParamsInt("wid")
	if err != nil {
		return 0, 0, err
	}
	boardID, err = c.ParamsInt("bid")
	if err != nil {
		return 0, 0, err
	}
	return workspaceID, boardID, nil
}
