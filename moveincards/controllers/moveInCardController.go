package controllers

import (
	"errors"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/middleware"
	"movein-backend/moveincards/repositories"
	"movein-backend/moveincards/services"
	"movein-backend/notifications"
	userRepositories "movein-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CardIndexer keeps the search index in step with card writes.
type CardIndexer interface {
	IndexCard(card models.MoveInCard) error
	DeleteCard(cardID string) error
}

type MoveInCardController struct {
	Repo                   repositories.MoveInCardRepository
	UserRepo               userRepositories.UserRepository
	Notifier               notifications.Notifier
	Search                 CardIndexer
	AllowEditAfterDecision bool
	ExportDir              string
}

func (mc *MoveInCardController) reindex(card *models.MoveInCard) {
	if mc.Search == nil || card == nil {
		return
	}
	if err := mc.Search.IndexCard(*card); err != nil {
		config.Logger.Warn("Failed to index move-in card", zap.String("card_id", card.ID.String()), zap.Error(err))
	}
}

func parseCardID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid move-in card ID",
		"error":   "Invalid ID format",
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Move-in card not found or you do not have permission to view it",
		"error":   "not_found",
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"data":    fiber.Map{"field": verr.Field},
			"error":   verr.Error(),
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"error":   err.Error(),
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   "An internal server error occurred.",
	})
}

// Submit is the final step of the tenant wizard. The owner's profile contact
// fields are synced first, then the card is inserted as pending. The two writes
// are sequential and not atomic.
func (mc *MoveInCardController) Submit(c *fiber.Ctx) error {
	profile, _ := middleware.CurrentProfile(c)

	var form services.CardForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}

	card, err := services.BuildCard(profile.ID, form)
	if err != nil {
		return validationFailed(c, err)
	}

	contact := &models.Profile{
		ID:    profile.ID,
		Name:  card.ContactPerson,
		Email: card.ContactEmail,
		Phone: card.ContactPhone,
		Role:  profile.Role,
	}
	if err := mc.UserRepo.UpsertContact(contact); err != nil {
		config.Logger.Error("Failed to sync profile before card submission", zap.String("user_id", profile.ID.String()), zap.Error(err))
		return internalError(c, "Failed to submit move-in card")
	}

	created, err := mc.Repo.Create(card)
	if err != nil {
		config.Logger.Error("Failed to create move-in card", zap.String("user_id", profile.ID.String()), zap.Error(err))
		return internalError(c, "Failed to submit move-in card")
	}
	created.Profile = contact
	mc.reindex(created)

	config.Logger.Info("Move-in card submitted", zap.String("card_id", created.ID.String()), zap.String("user_id", profile.ID.String()))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Move-in card submitted",
		"data": fiber.Map{
			"card":     created,
			"redirect": "/dashboard",
		},
	})
}

// ValidateStep reports whether the wizard may move on from the given step.
func (mc *MoveInCardController) ValidateStep(c *fiber.Ctx) error {
	type StepRequest struct {
		Step int               `json:"step"`
		Form services.CardForm `json:"form"`
	}

	var req StepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}
	if req.Step < services.FirstStep || req.Step > services.LastStep {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   "step must be between 1 and 4",
		})
	}

	w := &services.Wizard{Step: req.Step, Form: req.Form}
	valid := services.StepValid(req.Step, req.Form)
	w.Next()

	missing := services.MissingFields(req.Step, req.Form)
	if missing == nil {
		missing = []string{}
	}
	data := fiber.Map{
		"valid":        valid,
		"missing":      missing,
		"current_step": req.Step,
		"next_step":    w.Step,
		"can_submit":   w.CanSubmit(),
	}
	if req.Step == services.LastStep {
		if err := services.ValidateForSubmit(req.Form); err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				data["submit_error"] = fiber.Map{"field": verr.Field, "message": verr.Message}
			}
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Step validated",
		"data":    data,
	})
}

func (mc *MoveInCardController) ListMine(c *fiber.Ctx) error {
	profile, _ := middleware.CurrentProfile(c)

	cards, err := mc.Repo.ListByUser(profile.ID)
	if err != nil {
		config.Logger.Error("Failed to list own move-in cards", zap.String("user_id", profile.ID.String()), zap.Error(err))
		return internalError(c, "Failed to load move-in cards")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Move-in cards retrieved",
		"data":    cards,
	})
}

func (mc *MoveInCardController) Exists(c *fiber.Ctx) error {
	profile, _ := middleware.CurrentProfile(c)

	has, err := mc.Repo.HasCardForUser(profile.ID)
	if err != nil {
		config.Logger.Error("Failed to check move-in card existence", zap.String("user_id", profile.ID.String()), zap.Error(err))
		return internalError(c, "Failed to load move-in cards")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Move-in card status retrieved",
		"data":    fiber.Map{"exists": has},
	})
}

// loadVisible fetches a card the caller owns, or any card for admins.
// Anything else looks exactly like a missing card.
func (mc *MoveInCardController) loadVisible(c *fiber.Ctx, id uuid.UUID) (*models.MoveInCard, bool, error) {
	profile, _ := middleware.CurrentProfile(c)

	card, err := mc.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, notFound(c)
		}
		config.Logger.Error("Failed to fetch move-in card", zap.String("card_id", id.String()), zap.Error(err))
		return nil, false, internalError(c, "Failed to load move-in card")
	}
	if card.UserID != profile.ID && !profile.IsAdmin() {
		config.Logger.Warn("Move-in card access denied",
			zap.String("card_id", id.String()),
			zap.String("user_id", profile.ID.String()),
		)
		return nil, false, notFound(c)
	}
	return card, true, nil
}

func (mc *MoveInCardController) Get(c *fiber.Ctx) error {
	id, ok := parseCardID(c)
	if !ok {
		return invalidID(c)
	}
	card, ok, err := mc.loadVisible(c, id)
	if !ok {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Move-in card retrieved",
		"data":    card,
	})
}

// Update lets the owner change their own card while it is still pending.
func (mc *MoveInCardController) Update(c *fiber.Ctx) error {
	profile, _ := middleware.CurrentProfile(c)

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
		config.Logger.Error("Failed to fetch move-in card for update", zap.String("card_id", id.String()), zap.Error(err))
		return internalError(c, "Failed to update move-in card")
	}
	if card.UserID != profile.ID {
		return notFound(c)
	}
	if err := services.CanTenantEdit(card.Status); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Only pending move-in cards can be edited",
			"error":   "edit_locked",
		})
	}

	return mc.applyUpdate(c, card, form)
}

func (mc *MoveInCardController) applyUpdate(c *fiber.Ctx, card *models.MoveInCard, form services.CardForm) error {
	if err := services.ApplyForm(card, form); err != nil {
		return validationFailed(c, err)
	}

	updated, err := mc.Repo.Update(card)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		config.Logger.Error("Failed to update move-in card", zap.String("card_id", card.ID.String()), zap.Error(err))
		return internalError(c, "Failed to update move-in card")
	}
	mc.reindex(updated)

	config.Logger.Info("Move-in card updated", zap.String("card_id", updated.ID.String()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Move-in card updated",
		"data":    updated,
	})
}
