package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/models"
	"taskmaster/pkg/logger"
)

// ListStatuses returns the task status enumeration. No session needed;
// the values drive board column rendering.
func (h *Handler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.store.ListStatuses(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	if statuses == nil {
		statuses = []models.TaskStatus{}
	}
	return c.JSON(fiber.Map{
		"status":   "success",
		"statuses": statuses,
	})
}

func (h *Handler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.store.ListPriorities(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	if priorities == nil {
		priorities = []models.TaskPriority{}
	}
	return c.JSON(fiber.Map{
		"status":          "success",
		"task_priorities": priorities,
	})
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.store.ListCategories(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return c.JSON(fiber.Map{
		"status":     "success",
		"categories": categories,
	})
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	type CreateCategoryRequest struct {
		Value string `json:"value" validate:"required"`
		Color string `json:"color" validate:"required"`
	}

	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	category, err := h.store.CreateCategory(c.UserContext(), models.Category{
		Value: req.Value,
		Color: req.Color,
	})
	if err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Category created", zap.Int("category_id", category.ID))
	return c.JSON(fiber.Map{
		"status":   "success",
		"category": category,
	})
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}

	type UpdateCategoryRequest struct {
		Value *string `json:"value"`
		Color *string `json:"color"`
	}

	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}

	category, err := h.store.UpdateCategory(c.UserContext(), id, req.Value, req.Color)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"category": category,
	})
}

// DeleteCategory also detaches the category from any tasks carrying it.
func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.badRequest(c, "Invalid path parameters")
	}

	if err := h.store.DeleteCategory(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Category deleted", zap.Int("category_id", id))
	return c.JSON(fiber.Map{
		"status": "success",
	})
}
