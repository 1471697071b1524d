package controllers

import (
	"errors"
	"strings"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/middleware"
	"movein-backend/moveincards/repositories"
	"movein-backend/moveincards/services"
	userRepositories "movein-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminList fetches every card and narrows it with the status, search and room filters.
func (mc *MoveInCardController) AdminList(c *fiber.Ctx) error {
	var filter services.CardFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid filter",
			"error":   err.Error(),
		})
	}

	cards, err := mc.Repo.ListAll()
	if err != nil {
		config.Logger.Error("Failed to list move-in cards", zap.Error(err))
		return internalError(c, "Failed to load move-in cards")
	}

	filtered := services.FilterCards(cards, filter)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Move-in cards retrieved",
		"data": fiber.Map{
			"cards":  filtered,
			"total":  len(filtered),
			"counts": services.CountByStatus(cards, filter),
		},
	})
}

// AdminCreate files a card on behalf of a tenant.
func (mc *MoveInCardController) AdminCreate(c *fiber.Ctx) error {
	admin, _ := middleware.CurrentProfile(c)

	type AdminCardRequest struct {
		UserID string `json:"user_id"`
		services.CardForm
	}

	var req AdminCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"data":    fiber.Map{"field": "user_id"},
			"error":   "Select the tenant this card belongs to.",
		})
	}

	tenant, err := mc.UserRepo.GetProfileByID(userID)
	if err != nil {
		if errors.Is(err, userRepositories.ErrNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Validation failed",
				"data":    fiber.Map{"field": "user_id"},
				"error":   "Tenant not found.",
			})
		}
		config.Logger.Error("Failed to fetch tenant profile", zap.String("user_id", userID.String()), zap.Error(err))
		return internalError(c, "Failed to create move-in card")
	}
	if tenant.IsAdmin() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"data":    fiber.Map{"field": "user_id"},
			"error":   "Cards can only be filed for tenants.",
		})
	}

	card, err := services.BuildCard(tenant.ID, req.CardForm)
	if err != nil {
		return validationFailed(c, err)
	}

	created, err := mc.Repo.Create(card)
	if err != nil {
		config.Logger.Error("Failed to create move-in card on behalf of tenant",
			zap.String("user_id", tenant.ID.String()),
			zap.String("admin_id", admin.ID.String()),
			zap.Error(err),
		)
		return internalError(c, "Failed to create move-in card")
	}
	created.Profile = tenant
	mc.reindex(created)

	config.Logger.Info("Move-in card created by admin",
		zap.String("card_id", created.ID.String()),
		zap.String("admin_id", admin.ID.String()),
	)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Move-in card created",
		"data":    created,
	})
}

// AdminUpdate edits any card. Decided cards are editable only when the
// deployment allows edits after a decision.
func (mc *MoveInCardController) AdminUpdate(c *fiber.Ctx) error {
	id, ok := parseCardID(c)
	if !ok {
		return invalidID(c)
	}

	var form services.CardForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}

	card, err := mc.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		config.Logger.Error("Failed to fetch move-in card for admin update", zap.String("card_id", id.String()), zap.Error(err))
		return internalError(c, "Failed to update move-in card")
	}
	if err := services.CanAdminEdit(card.Status, mc.AllowEditAfterDecision); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Decided move-in cards cannot be edited",
			"error":   "edit_locked",
		})
	}

	return mc.applyUpdate(c, card, form)
}

func (mc *MoveInCardController) Approve(c *fiber.Ctx) error {
	return mc.decide(c, models.CardApproved)
}

func (mc *MoveInCardController) Reject(c *fiber.Ctx) error {
	return mc.decide(c, models.CardRejected)
}

// decide writes status and notes together. Repeating a decision overwrites both.
func (mc *MoveInCardController) decide(c *fiber.Ctx, target models.CardStatus) error {
	admin, _ := middleware.CurrentProfile(c)

	id, ok := parseCardID(c)
	if !ok {
		return invalidID(c)
	}

	type DecisionRequest struct {
		Notes string `json:"notes"`
	}
	var req DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request",
				"error":   "Invalid request format.",
			})
		}
	}

	notes, err := services.NormalizeNotes(req.Notes)
	if err != nil {
		return validationFailed(c, err)
	}

	card, err := mc.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		config.Logger.Error("Failed to fetch move-in card for decision", zap.String("card_id", id.String()), zap.Error(err))
		return internalError(c, "Failed to update move-in card status")
	}

	if err := services.Decide(card.Status, target); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Status change not allowed",
			"error":   err.Error(),
		})
	}

	updated, err := mc.Repo.UpdateDecision(id, target, notes)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		config.Logger.Error("Failed to record move-in card decision",
			zap.String("card_id", id.String()),
			zap.String("status", string(target)),
			zap.Error(err),
		)
		return internalError(c, "Failed to update move-in card status")
	}
	mc.reindex(updated)

	if mc.Notifier != nil {
		if err := mc.Notifier.CardDecided(c.Context(), updated); err != nil {
			config.Logger.Warn("Failed to send card decision notification", zap.String("card_id", id.String()), zap.Error(err))
		}
	}

	config.Logger.Info("Move-in card decided",
		zap.String("card_id", id.String()),
		zap.String("status", string(target)),
		zap.String("admin_id", admin.ID.String()),
	)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Move-in card " + string(target),
		"data":    updated,
	})
}

// DeleteSummary is what the confirmation dialog shows before a hard delete.
func (mc *MoveInCardController) DeleteSummary(c *fiber.Ctx) error {
	id, ok := parseCardID(c)
	if !ok {
		return invalidID(c)
	}

	card, err := mc.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		config.Logger.Error("Failed to fetch move-in card summary", zap.String("card_id", id.String()), zap.Error(err))
		return internalError(c, "Failed to load move-in card")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Move-in card summary retrieved",
		"data": fiber.Map{
			"id":            card.ID,
			"company_name":  card.CompanyName,
			"business_type": card.BusinessType,
			"status":        card.Status,
			"owner":         card.Profile.Summary(),
		},
	})
}

func (mc *MoveInCardController) Delete(c *fiber.Ctx) error {
	admin, _ := middleware.CurrentProfile(c)

	id, ok := parseCardID(c)
	if !ok {
		return invalidID(c)
	}

	if err := mc.Repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		config.Logger.Error("Failed to delete move-in card", zap.String("card_id", id.String()), zap.Error(err))
		return internalError(c, "Failed to delete move-in card")
	}

	if mc.Search != nil {
		if err := mc.Search.DeleteCard(id.String()); err != nil {
			config.Logger.Warn("Failed to remove move-in card from index", zap.String("card_id", id.String()), zap.Error(err))
		}
	}

	config.Logger.Info("Move-in card deleted", zap.String("card_id", id.String()), zap.String("admin_id", admin.ID.String()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Move-in card deleted",
	})
}
