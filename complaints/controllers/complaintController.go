package controllers

import (
	"errors"
	"strings"
	"time"

	"movein-backend/complaints/repositories"
	"movein-backend/complaints/services"
	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/middleware"
	"movein-backend/notifications"
	userRepositories "movein-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const statusAll = "all"

type ComplaintController struct {
	Repo     repositories.ComplaintRepository
	UserRepo userRepositories.UserRepository
	Notifier notifications.Notifier
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Complaint not found",
		"error":   "not_found",
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   "An internal server error occurred.",
	})
}

func parseComplaintID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid complaint ID",
		"error":   "Invalid ID format",
	})
}

func invalidStatus(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid status",
		"error":   "status must be all, pending, in_progress, resolved or closed",
	})
}

func transitionRejected(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error":   "invalid_transition",
	})
}

// statusFilter reads ?status=. Empty and "all" both mean no filter.
func statusFilter(c *fiber.Ctx) (models.ComplaintStatus, bool) {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" || raw == statusAll {
		return "", true
	}
	status := models.ComplaintStatus(raw)
	return status, status.Valid()
}

// enrich joins submitter and responder identities with a single profile lookup.
func (cc *ComplaintController) enrich(complaints []models.Complaint, viewerID uuid.UUID) ([]services.ComplaintView, error) {
	profiles, err := cc.UserRepo.GetProfilesByIDs(services.ReferencedProfileIDs(complaints))
	if err != nil {
		return nil, err
	}
	return services.Enrich(complaints, profiles, viewerID), nil
}

func (cc *ComplaintController) respondWithOne(c *fiber.Ctx, status int, message string, complaint *models.Complaint, viewerID uuid.UUID) error {
	views, err := cc.enrich([]models.Complaint{*complaint}, viewerID)
	if err != nil {
		config.Logger.Error("Failed to load complaint identities", zap.String("complaint_id", complaint.ID.String()), zap.Error(err))
		return internalError(c, "Failed to load complaint")
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    views[0],
	})
}

func (cc *ComplaintController) Submit(c *fiber.Ctx) error {
	profile, _ := middleware.CurrentProfile(c)

	var in services.ComplaintInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}
	if verr := services.ValidateComplaint(&in); verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"data":    verr,
			"error":   verr.Error(),
		})
	}

	complaint, err := cc.Repo.Create(services.BuildComplaint(profile.ID, in))
	if err != nil {
		config.Logger.Error("Failed to create complaint", zap.String("user_id", profile.ID.String()), zap.Error(err))
		return internalError(c, "Failed to submit complaint")
	}

	config.Logger.Info("Complaint submitted",
		zap.String("complaint_id", complaint.ID.String()),
		zap.String("category", string(complaint.Category)),
		zap.Bool("anonymous", complaint.IsAnonymous),
	)
	return cc.respondWithOne(c, fiber.StatusCreated, "Complaint submitted", complaint, profile.ID)
}

func (cc *ComplaintController) list(c *fiber.Ctx, filter repositories.ComplaintFilter, viewerID uuid.UUID) error {
	status, ok := statusFilter(c)
	if !ok {
		return invalidStatus(c)
	}
	filter.Status = status

	complaints, err := cc.Repo.List(filter)
	if err != nil {
		config.Logger.Error("Failed to list complaints", zap.Error(err))
		return internalError(c, "Failed to load complaints")
	}
	views, err := cc.enrich(complaints, viewerID)
	if err != nil {
		config.Logger.Error("Failed to load complaint identities", zap.Error(err))
		return internalError(c, "Failed to load complaints")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Complaints retrieved",
		"data":    views,
	})
}

// ListMine lists the caller's own complaints regardless of role.
func (cc *ComplaintController) ListMine(c *fiber.Ctx) error {
	profile, _ := middleware.CurrentProfile(c)
	return cc.list(c, repositories.ComplaintFilter{UserID: &profile.ID}, profile.ID)
}

func (cc *ComplaintController) AdminList(c *fiber.Ctx) error {
	profile, _ := middleware.CurrentProfile(c)
	return cc.list(c, repositories.ComplaintFilter{}, profile.ID)
}

// Get returns a complaint to its submitter or an admin.
func (cc *ComplaintController) Get(c *fiber.Ctx) error {
	profile, _ := middleware.CurrentProfile(c)
	id, ok := parseComplaintID(c)
	if !ok {
		return invalidID(c)
	}

	complaint, err := cc.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		config.Logger.Error("Failed to fetch complaint", zap.String("complaint_id", id.String()), zap.Error(err))
		return internalError(c, "Failed to load complaint")
	}

	if complaint.UserID != profile.ID && !profile.IsAdmin() {
		config.Logger.Warn("Complaint access denied",
			zap.String("complaint_id", id.String()),
			zap.String("user_id", profile.ID.String()),
		)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You do not have access to this complaint",
			"error":   "access_denied",
		})
	}

	return cc.respondWithOne(c, fiber.StatusOK, "Complaint retrieved", complaint, profile.ID)
}

// checkTransition fetches a complaint and checks that it may move to status.
func (cc *ComplaintController) checkTransition(id uuid.UUID, status models.ComplaintStatus) error {
	current, err := cc.Repo.GetByID(id)
	if err != nil {
		return err
	}
	return services.CanTransition(current.Status, status)
}

func (cc *ComplaintController) changeFailed(c *fiber.Ctx, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFound(c)
	case errors.Is(err, services.ErrInvalidTransition):
		return transitionRejected(c, err)
	}
	config.Logger.Error("Failed to update complaint", zap.String("complaint_id", id.String()), zap.Error(err))
	return internalError(c, "Failed to update complaint")
}

// Respond sets the status, the responding admin and the response date in one
// write. An empty response keeps the stored response text.
func (cc *ComplaintController) Respond(c *fiber.Ctx) error {
	admin, _ := middleware.CurrentProfile(c)
	id, ok := parseComplaintID(c)
	if !ok {
		return invalidID(c)
	}

	var req struct {
		Status   models.ComplaintStatus `json:"status"`
		Response string                 `json:"response"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}
	if !req.Status.Valid() {
		return invalidStatus(c)
	}

	if err := cc.checkTransition(id, req.Status); err != nil {
		return cc.changeFailed(c, id, err)
	}

	complaint, err := cc.Repo.Respond(id, admin.ID, req.Status, strings.TrimSpace(req.Response), time.Now())
	if err != nil {
		return cc.changeFailed(c, id, err)
	}
	cc.notifySubmitter(c, complaint)

	config.Logger.Info("Complaint answered",
		zap.String("complaint_id", id.String()),
		zap.String("admin_id", admin.ID.String()),
		zap.String("status", string(complaint.Status)),
	)
	return cc.respondWithOne(c, fiber.StatusOK, "Response saved", complaint, admin.ID)
}

func (cc *ComplaintController) notifySubmitter(c *fiber.Ctx, complaint *models.Complaint) {
	if cc.Notifier == nil {
		return
	}
	recipient, err := cc.UserRepo.GetProfileByID(complaint.UserID)
	if err != nil {
		config.Logger.Warn("Complaint submitter not found for notification", zap.String("complaint_id", complaint.ID.String()), zap.Error(err))
		return
	}
	if err := cc.Notifier.ComplaintAnswered(c.Context(), complaint, recipient); err != nil {
		config.Logger.Warn("Failed to notify complaint submitter", zap.String("complaint_id", complaint.ID.String()), zap.Error(err))
	}
}

// UpdateStatus changes only the status, without touching the response.
func (cc *ComplaintController) UpdateStatus(c *fiber.Ctx) error {
	admin, _ := middleware.CurrentProfile(c)
	id, ok := parseComplaintID(c)
	if !ok {
		return invalidID(c)
	}

	var req struct {
		Status models.ComplaintStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || !req.Status.Valid() {
		return invalidStatus(c)
	}

	if err := cc.checkTransition(id, req.Status); err != nil {
		return cc.changeFailed(c, id, err)
	}
	complaint, err := cc.Repo.UpdateStatus(id, req.Status)
	if err != nil {
		return cc.changeFailed(c, id, err)
	}

	config.Logger.Info("Complaint status changed", zap.String("complaint_id", id.String()), zap.String("status", string(req.Status)))
	return cc.respondWithOne(c, fiber.StatusOK, "Status updated", complaint, admin.ID)
}

func (cc *ComplaintController) Delete(c *fiber.Ctx) error {
	id, ok := parseComplaintID(c)
	if !ok {
		return invalidID(c)
	}

	if err := cc.Repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		config.Logger.Error("Failed to delete complaint", zap.String("complaint_id", id.String()), zap.Error(err))
		return internalError(c, "Failed to delete complaint")
	}

	config.Logger.Info("Complaint deleted", zap.String("complaint_id", id.String()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Complaint deleted",
	})
}
