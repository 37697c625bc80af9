package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	ws "taskmaster/internal/websocket"
	"taskmaster/pkg/logger"
)

// ListComments returns a task's comments, oldest first.
func (h *Handler) ListComments(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, err := h.taskParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}
	if ok, err := h.store.TaskExists(ctx, boardID, taskID); err != nil {
		return h.fail(c, err)
	} else if !ok {
		return h.fail(c, fmt.Errorf("task %d: %w", taskID, apperr.ErrNotFound))
	}

	comments, err := h.store.ListComments(ctx, taskID)
	if err != nil {
		return h.fail(c, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"task_id":  taskID,
		"total":    len(comments),
		"comments": comments,
	})
}

// CreateComment adds a comment to a task. The task lookup runs before
// the membership gate, so a missing task answers 404 even to
// non-members.
func (h *Handler) CreateComment(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, err := h.taskParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	type CreateCommentRequest struct {
		Content string `json:"content" validate:"required"`
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	if ok, err := h.store.TaskExists(ctx, boardID, taskID); err != nil {
		return h.fail(c, err)
	} else if !ok {
		return h.fail(c, fmt.Errorf("task %d: %w", taskID, apperr.ErrNotFound))
	}
	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	author, err := h.actorUsername(c)
	if err != nil {
		return h.fail(c, err)
	}

	comment, err := h.store.CreateComment(ctx, models.Comment{
		TaskID:  taskID,
		Author:  author,
		Content: req.Content,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.hub.Publish(ws.Event{BoardID: boardID, Kind: "comment_created", Actor: author, Payload: comment})
	logger.AuditLogger.Info("Comment created", zap.Int("comment_id", comment.ID), zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"status":  "success",
		"comment": comment,
	})
}

func (h *Handler) GetComment(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, commentID, err := h.commentParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	comment, err := h.store.GetComment(ctx, taskID, commentID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"comment": comment,
	})
}

func (h *Handler) UpdateComment(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, commentID, err := h.commentParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	type UpdateCommentRequest struct {
		Content string `json:"content" validate:"required"`
	}

	var req UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	comment, err := h.store.UpdateComment(ctx, taskID, commentID, req.Content)
	if err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Comment updated", zap.Int("comment_id", commentID))
	return c.JSON(fiber.Map{
		"status":  "success",
		"comment": comment,
	})
}

// DeleteComment removes the comment; a second call answers 404.
func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, commentID, err := h.commentParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	if err := h.store.DeleteComment(ctx, taskID, commentID); err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Comment deleted", zap.Int("comment_id", commentID))
	return c.JSON(fiber.Map{
		"status": "success",
	})
}

func (h *Handler) commentParams(c *fiber.Ctx) (workspaceID, boardID, taskID, commentID int, err error) {
	workspaceID, boardID, taskID, err = h.taskParams(c)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	commentID, err = c.ParamsInt("cid")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return workspaceID, boardID, taskID, commentID, nil
}
