package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/store"
	ws "taskmaster/internal/websocket"
	"taskmaster/pkg/logger"
)

const dueDateLayout = "2006-01-02"

func taskCacheKey(taskID int) string {
	return fmt.Sprintf("task:%d", taskID)
}

// resolveStatus maps a status name to its reference row id. Unknown
// names are a validation error, not a silent insert.
func (h *Handler) resolveStatus(c *fiber.Ctx, name string) (int, error) {
	id, err := h.store.StatusID(c.UserContext(), name)
	if err != nil {
		return 0, fmt.Errorf("unknown status %q: %w", name, apperr.ErrValidation)
	}
	return id, nil
}

func (h *Handler) resolvePriority(c *fiber.Ctx, level string) (int, error) {
	id, err := h.store.PriorityID(c.UserContext(), level)
	if err != nil {
		return 0, fmt.Errorf("unknown priority %q: %w", level, apperr.ErrValidation)
	}
	return id, nil
}

// ListTasks returns every task on a board the caller is a member of.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	workspaceID, boardID, err := h.boardParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	tasks, err := h.store.ListTasks(ctx, boardID)
	if err != nil {
		return h.fail(c, err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"workspace_id": workspaceID,
		"board_id":     boardID,
		"total":        len(tasks),
		"tasks":        tasks,
	})
}

// CreateTask adds a task to the board. Plain board membership is
// enough; status and priority must name existing reference rows.
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	workspaceID, boardID, err := h.boardParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	type CreateTaskRequest struct {
		Title       string  `json:"title" validate:"required"`
		Description string  `json:"description"`
		Points      int     `json:"points" validate:"gte=0"`
		Status      string  `json:"status" validate:"required"`
		Priority    string  `json:"priority" validate:"required"`
		Assignee    *string `json:"assignee"`
		DueDate     *string `json:"dueDate"`
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	statusID, err := h.resolveStatus(c, req.Status)
	if err != nil {
		return h.fail(c, err)
	}
	priorityID, err := h.resolvePriority(c, req.Priority)
	if err != nil {
		return h.fail(c, err)
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			return h.validationError(c, fmt.Errorf("dueDate must be YYYY-MM-DD: %w", apperr.ErrValidation))
		}
		dueDate = &parsed
	}

	creator, err := h.actorUsername(c)
	if err != nil {
		return h.fail(c, err)
	}

	task, err := h.store.CreateTask(ctx, models.Task{
		BoardID:     boardID,
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Status:      req.Status,
		Priority:    req.Priority,
		Creator:     creator,
		Assignee:    req.Assignee,
		DueDate:     dueDate,
	}, statusID, priorityID)
	if err != nil {
		return h.fail(c, err)
	}

	h.hub.Publish(ws.Event{BoardID: boardID, Kind: "task_created", Actor: creator, Payload: task})
	logger.AuditLogger.Info("Task created", zap.Int("task_id", task.ID), zap.Int("board_id", boardID))
	return c.JSON(fiber.Map{
		"status":       "success",
		"workspace_id": workspaceID,
		"board_id":     boardID,
		"task":         task,
	})
}

// GetTask returns one task (with its categories) to board members.
func (h *Handler) GetTask(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, err := h.taskParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	var task models.Task
	if !h.cache.Get(ctx, taskCacheKey(taskID), &task) || task.BoardID != boardID {
		task, err = h.store.GetTask(ctx, boardID, taskID)
		if err != nil {
			return h.fail(c, err)
		}
		h.cache.Set(ctx, taskCacheKey(taskID), task)
	}

	categories, err := h.store.ListTaskCategories(ctx, taskID)
	if err != nil {
		return h.fail(c, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"workspace_id": workspaceID,
		"board_id":     boardID,
		"task":         task,
		"categories":   categories,
	})
}

// UpdateTask changes only the supplied fields.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, err := h.taskParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Points      *int    `json:"points" validate:"omitempty,gte=0"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
		Assignee    *string `json:"assignee"`
		DueDate     *string `json:"dueDate"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Assignee:    req.Assignee,
	}
	if req.Status != nil {
		statusID, err := h.resolveStatus(c, *req.Status)
		if err != nil {
			return h.fail(c, err)
		}
		patch.StatusID = &statusID
	}
	if req.Priority != nil {
		priorityID, err := h.resolvePriority(c, *req.Priority)
		if err != nil {
			return h.fail(c, err)
		}
		patch.PriorityID = &priorityID
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			return h.validationError(c, fmt.Errorf("dueDate must be YYYY-MM-DD: %w", apperr.ErrValidation))
		}
		patch.DueDate = &parsed
	}

	task, err := h.store.UpdateTask(ctx, boardID, taskID, patch)
	if err != nil {
		return h.fail(c, err)
	}
	h.cache.Del(ctx, taskCacheKey(taskID))

	actor, _ := h.actorUsername(c)
	h.hub.Publish(ws.Event{BoardID: boardID, Kind: "task_updated", Actor: actor, Payload: task})
	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"status": "success",
		"task":   task,
	})
}

// DeleteTask removes the task and its comments; repeating the call
// answers 404.
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, err := h.taskParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	if err := h.store.DeleteTask(ctx, boardID, taskID); err != nil {
		return h.fail(c, err)
	}
	h.cache.Del(ctx, taskCacheKey(taskID))

	actor, _ := h.actorUsername(c)
	h.hub.Publish(ws.Event{BoardID: boardID, Kind: "task_deleted", Actor: actor, Payload: fiber.Map{"id": taskID}})
	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"status": "success",
	})
}

// SetTaskCategories replaces the task's category set.
func (h *Handler) SetTaskCategories(c *fiber.Ctx) error {
	workspaceID, boardID, taskID, err := h.taskParams(c)
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}
	memberID := h.memberID(c)
	ctx := c.UserContext()

	type BulkCategoryIDsRequest struct {
		CategoryIDs []int `json:"category_ids" validate:"required"`
	}

	var req BulkCategoryIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	if _, err := h.authz.RequireBoardMember(ctx, memberID, workspaceID, boardID); err != nil {
		return h.fail(c, err)
	}

	if err := h.store.SetTaskCategories(ctx, boardID, taskID, req.CategoryIDs); err != nil {
		return h.fail(c, err)
	}
	h.cache.Del(ctx, taskCacheKey(taskID))

	return c.JSON(fiber.Map{
		"status":  "success",
		"task_id": taskID,
	})
}

func (h *Handler) taskParams(c *fiber.Ctx) (workspaceID, boardID, taskID int, err error) {
	workspaceID, boardID, err = h.boardParams(c)
	if err != nil {
		return 0, 0, 0, err
	}
	taskID, err = c.ParamsInt("tid")
	if err != nil {
		return 0, 0, 0, err
	}
	return workspaceID, boardID, taskID, nil
}
