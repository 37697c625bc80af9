package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/models"
	"taskmaster/internal/store"
	"taskmaster/pkg/logger"
)

// AddMember registers a new member. Duplicate usernames are settled by
// the unique constraint and answered with 409.
func (h *Handler) AddMember(c *fiber.Ctx) error {
	type AddMemberRequest struct {
		FirstName string  `json:"first_name" validate:"required"`
		LastName  *string `json:"last_name"`
		Email     string  `json:"email" validate:"omitempty,email"`
		Username  string  `json:"username" validate:"required,excludesall=@ "`
		Handle    string  `json:"handle" validate:"required,startswith=@"`
		Password  string  `json:"password" validate:"required"`
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in add member", zap.Error(err))
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	hash, err := h.sessions.HashPassword(req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	member, err := h.store.CreateMember(c.UserContext(), models.Member{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Handle:       req.Handle,
		PasswordHash: hash,
		Status:       models.MemberActive,
	})
	if err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Member registered", zap.Int("member_id", member.ID))
	return c.JSON(fiber.Map{
		"message":   "Member created.",
		"member_id": member.ID,
	})
}

// EditMember applies a partial update; absent fields stay unchanged.
func (h *Handler) EditMember(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		return h.badRequest(c, "Invalid member ID")
	}

	type EditMemberRequest struct {
		FirstName   *string `json:"first_name"`
		LastName    *string `json:"last_name"`
		Email       *string `json:"email" validate:"omitempty,email"`
		Username    *string `json:"username"`
		Handle      *string `json:"handle" validate:"omitempty,startswith=@"`
		NewPassword *string `json:"new_password"`
	}

	var req EditMemberRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in edit member", zap.Error(err))
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	patch := store.MemberPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Handle:    req.Handle,
	}
	if req.NewPassword != nil {
		hash, err := h.sessions.HashPassword(*req.NewPassword)
		if err != nil {
			return h.fail(c, err)
		}
		patch.NewPassword = &hash
	}

	member, err := h.store.UpdateMember(c.UserContext(), targetID, patch)
	if err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Member updated", zap.Int("member_id", targetID))
	return c.JSON(fiber.Map{
		"message": "Member updated.",
		"member":  member,
	})
}

// UpdateMemberStatus flips a member between active and suspended.
// Suspended members cannot log in and their sessions stop
// authenticating.
func (h *Handler) UpdateMemberStatus(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		return h.badRequest(c, "Invalid member ID")
	}

	type StatusRequest struct {
		Status string `json:"status" validate:"required,oneof=active suspended"`
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	if err := h.store.UpdateMemberStatus(c.UserContext(), targetID, req.Status); err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Member status changed",
		zap.Int("member_id", targetID), zap.String("status", req.Status))
	return c.JSON(fiber.Map{"message": "Member status updated."})
}

// DeleteMember removes the member row. Repeating the call answers 404.
func (h *Handler) DeleteMember(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		return h.badRequest(c, "Invalid member ID")
	}

	if err := h.store.DeleteMember(c.UserContext(), targetID); err != nil {
		return h.fail(c, err)
	}

	logger.AuditLogger.Info("Member deleted", zap.Int("member_id", targetID))
	return c.JSON(fiber.Map{"message": "Member deleted."})
}
