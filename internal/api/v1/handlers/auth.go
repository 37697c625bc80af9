package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/apperr"
	"taskmaster/internal/middleware"
	"taskmaster/pkg/logger"
)

// Login verifies credentials and answers with a session key plus a
// member summary. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (h *Handler) Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	token, member, err := h.sessions.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid credentials",
			})
		}
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Login successful.",
		"session_key": token,
		"member_id":   member.ID,
		"username":    member.Username,
		"email":       member.Email,
		"is_admin":    member.IsAdmin,
		"status":      member.Status,
	})
}

// Logout revokes the presented session; afterwards the same token no
// longer authenticates.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token := c.Locals(middleware.TokenKey).(string)
	if err := h.sessions.Logout(c.UserContext(), token); err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Logout", zap.Int("member_id", h.memberID(c)))
	return c.JSON(fiber.Map{"message": "Logged out."})
}
