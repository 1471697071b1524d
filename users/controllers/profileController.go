package controllers

import (
	"strings"

	"movein-backend/config"
	"movein-backend/middleware"
	"movein-backend/users/repositories"
	"movein-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProfileController struct {
	UserRepo repositories.UserRepository
}

// GetCurrentUser returns the session context resolved by ProtectedRoute.
func (pc *ProfileController) GetCurrentUser(c *fiber.Ctx) error {
	payload, _ := middleware.CurrentUser(c)
	profile, ok := middleware.CurrentProfile(c)
	if !ok || payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Current user retrieved",
		"data": fiber.Map{
			"id":       payload.UserID,
			"email":    payload.Email,
			"role":     profile.Role,
			"is_admin": profile.IsAdmin(),
			"profile":  profile,
			"home":     services.HomeRoute(profile),
		},
	})
}

func (pc *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "Authentication required",
		})
	}

	type UpdateRequest struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}

	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if msg := services.ValidateProfileFields(name, phone); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   msg,
		})
	}

	updated, err := pc.UserRepo.UpdateNamePhone(profile.ID, name, phone)
	if err != nil {
		config.Logger.Error("Failed to update profile", zap.String("user_id", profile.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update profile",
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated",
		"data":    updated,
	})
}

// ListTenants feeds the admin's "create card on behalf of" picker.
func (pc *ProfileController) ListTenants(c *fiber.Ctx) error {
	tenants, err := pc.UserRepo.ListTenants()
	if err != nil {
		config.Logger.Error("Failed to list tenants", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to load tenants",
			"error":   "An internal server error occurred.",
		})
	}

	summaries := make([]interface{}, 0, len(tenants))
	for i := range tenants {
		summaries = append(summaries, tenants[i].Summary())
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tenants retrieved",
		"data":    summaries,
	})
}
