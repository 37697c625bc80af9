package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/apperr"
	"taskmaster/internal/authz"
	"taskmaster/internal/cache"
	"taskmaster/internal/middleware"
	"taskmaster/internal/session"
	"taskmaster/internal/store"
	ws "taskmaster/internal/websocket"
	"taskmaster/pkg/logger"
)

// Handler carries every dependency the endpoints need. All fields are
// set once at startup and read-only afterwards.
type Handler struct {
	store    store.Store
	sessions *session.Manager
	authz    *authz.Engine
	validate *validator.Validate
	cache    *cache.Cache
	hub      *ws.Hub
}

func NewHandler(st store.Store, sessions *session.Manager, engine *authz.Engine, c *cache.Cache, hub *ws.Hub) *Handler {
	return &Handler{
		store:    st,
		sessions: sessions,
		authz:    engine,
		validate: validator.New(),
		cache:    c,
		hub:      hub,
	}
}

// Sessions exposes the manager for middleware wiring.
func (h *Handler) Sessions() *session.Manager { return h.sessions }

func (h *Handler) memberID(c *fiber.Ctx) int {
	return c.Locals(middleware.MemberIDKey).(int)
}

// actorUsername resolves the authenticated member's username for
// creator/author attribution.
func (h *Handler) actorUsername(c *fiber.Ctx) (string, error) {
	m, err := h.store.GetMemberByID(c.UserContext(), h.memberID(c))
	if err != nil {
		return "", err
	}
	return m.Username, nil
}

// fail maps a service error to the HTTP taxonomy. Internal errors are
// logged and replaced with a generic body so nothing leaks.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	if status == fiber.StatusInternalServerError {
		logger.ErrorLogger.Error("Request failed",
			zap.String("method", c.Method()), zap.String("url", c.OriginalURL()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"detail": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"detail": err.Error()})
}

func (h *Handler) badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msg})
}

func (h *Handler) validationError(c *fiber.Ctx, err error) error {
	logger.AuditLogger.Warn("Validation error",
		zap.String("url", c.OriginalURL()), zap.Error(err))
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"detail": err.Error(),
	})
}
