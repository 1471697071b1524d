package controllers

import (
	"errors"
	"strings"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/middleware"
	"movein-backend/notices/repositories"
	"movein-backend/notices/services"
	"movein-backend/notifications"
	"movein-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxPublicLimit = 100

// NoticeIndexer keeps the notice search index current.
type NoticeIndexer interface {
	IndexNotice(notice models.Notice) error
	DeleteNotice(noticeID string) error
}

type NoticeController struct {
	Repo     repositories.NoticeRepository
	Notifier notifications.Notifier
	Search   NoticeIndexer
}

func (nc *NoticeController) reindex(notice *models.Notice) {
	if nc.Search == nil {
		return
	}
	if err := nc.Search.IndexNotice(*notice); err != nil {
		config.Logger.Warn("Failed to index notice", zap.String("notice_id", notice.ID.String()), zap.Error(err))
	}
}

func (nc *NoticeController) announce(c *fiber.Ctx, notice *models.Notice) {
	if nc.Notifier == nil || !notice.IsPublished {
		return
	}
	if err := nc.Notifier.NoticePublished(c.Context(), notice); err != nil {
		config.Logger.Warn("Failed to announce notice", zap.String("notice_id", notice.ID.String()), zap.Error(err))
	}
}

func noticeNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Notice not found",
		"error":   "not_found",
	})
}

func noticeInternalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   "An internal server error occurred.",
	})
}

func parseNoticeID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func invalidNoticeID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid notice ID",
		"error":   "Invalid ID format",
	})
}

// ListPublished is the public notice board.
func (nc *NoticeController) ListPublished(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 || limit > maxPublicLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid limit",
			"error":   "limit must be between 0 and 100",
		})
	}

	notices, err := nc.Repo.ListPublished(limit)
	if err != nil {
		config.Logger.Error("Failed to list published notices", zap.Error(err))
		return noticeInternalError(c, "Failed to load notices")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notices retrieved",
		"data":    notices,
	})
}

// GetPublished counts the view first and then reads the notice.
func (nc *NoticeController) GetPublished(c *fiber.Ctx) error {
	id, ok := parseNoticeID(c)
	if !ok {
		return invalidNoticeID(c)
	}

	if err := nc.Repo.IncrementViewCount(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return noticeNotFound(c)
		}
		config.Logger.Warn("Failed to increment notice view count", zap.String("notice_id", id.String()), zap.Error(err))
	}

	notice, err := nc.Repo.GetPublishedByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return noticeNotFound(c)
		}
		config.Logger.Error("Failed to fetch notice", zap.String("notice_id", id.String()), zap.Error(err))
		return noticeInternalError(c, "Failed to load notice")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notice retrieved",
		"data":    notice,
	})
}

// AdminList shows drafts too, paginated.
func (nc *NoticeController) AdminList(c *fiber.Ctx) error {
	params, err := pagination.Parse(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid pagination parameters",
			"error":   err.Error(),
		})
	}

	notices, total, err := nc.Repo.ListAll(params.Offset(), params.PageSize)
	if err != nil {
		config.Logger.Error("Failed to list notices for admin", zap.Error(err))
		return noticeInternalError(c, "Failed to load notices")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notices retrieved",
		"data":    pagination.New(c, notices, total, params),
	})
}

func (nc *NoticeController) AdminGet(c *fiber.Ctx) error {
	id, ok := parseNoticeID(c)
	if !ok {
		return invalidNoticeID(c)
	}

	notice, err := nc.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return noticeNotFound(c)
		}
		config.Logger.Error("Failed to fetch notice", zap.String("notice_id", id.String()), zap.Error(err))
		return noticeInternalError(c, "Failed to load notice")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notice retrieved",
		"data":    notice,
	})
}

func parseNoticeInput(c *fiber.Ctx) (services.NoticeInput, string) {
	var in services.NoticeInput
	if err := c.BodyParser(&in); err != nil {
		return in, "Invalid request format."
	}
	return in, services.ValidateNotice(in)
}

func (nc *NoticeController) Create(c *fiber.Ctx) error {
	author, _ := middleware.CurrentProfile(c)

	in, msg := parseNoticeInput(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   msg,
		})
	}

	notice, err := nc.Repo.Create(&models.Notice{
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		AuthorID:    author.ID,
		IsImportant: in.IsImportant,
		IsPublished: in.Published(),
	})
	if err != nil {
		config.Logger.Error("Failed to create notice", zap.String("author_id", author.ID.String()), zap.Error(err))
		return noticeInternalError(c, "Failed to create notice")
	}
	nc.reindex(notice)
	nc.announce(c, notice)

	config.Logger.Info("Notice created", zap.String("notice_id", notice.ID.String()), zap.Bool("published", notice.IsPublished))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Notice created",
		"data":    notice,
	})
}

func (nc *NoticeController) Update(c *fiber.Ctx) error {
	id, ok := parseNoticeID(c)
	if !ok {
		return invalidNoticeID(c)
	}

	in, msg := parseNoticeInput(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   msg,
		})
	}

	existing, err := nc.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return noticeNotFound(c)
		}
		config.Logger.Error("Failed to fetch notice for update", zap.String("notice_id", id.String()), zap.Error(err))
		return noticeInternalError(c, "Failed to update notice")
	}
	wasPublished := existing.IsPublished

	existing.Title = strings.TrimSpace(in.Title)
	existing.Content = in.Content
	existing.IsImportant = in.IsImportant
	if in.IsPublished != nil {
		existing.IsPublished = *in.IsPublished
	}

	notice, err := nc.Repo.Update(existing)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return noticeNotFound(c)
		}
		config.Logger.Error("Failed to update notice", zap.String("notice_id", id.String()), zap.Error(err))
		return noticeInternalError(c, "Failed to update notice")
	}
	nc.reindex(notice)
	if !wasPublished {
		nc.announce(c, notice)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notice updated",
		"data":    notice,
	})
}

func (nc *NoticeController) Delete(c *fiber.Ctx) error {
	id, ok := parseNoticeID(c)
	if !ok {
		return invalidNoticeID(c)
	}

	if err := nc.Repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return noticeNotFound(c)
		}
		config.Logger.Error("Failed to delete notice", zap.String("notice_id", id.String()), zap.Error(err))
		return noticeInternalError(c, "Failed to delete notice")
	}
	if nc.Search != nil {
		if err := nc.Search.DeleteNotice(id.String()); err != nil {
			config.Logger.Warn("Failed to remove notice from index", zap.String("notice_id", id.String()), zap.Error(err))
		}
	}

	config.Logger.Info("Notice deleted", zap.String("notice_id", id.String()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notice deleted",
	})
}

func (nc *NoticeController) ToggleImportant(c *fiber.Ctx) error {
	id, ok := parseNoticeID(c)
	if !ok {
		return invalidNoticeID(c)
	}

	notice, err := nc.Repo.ToggleImportant(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return noticeNotFound(c)
		}
		config.Logger.Error("Failed to toggle notice importance", zap.String("notice_id", id.String()), zap.Error(err))
		return noticeInternalError(c, "Failed to update notice")
	}
	nc.reindex(notice)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notice updated",
		"data":    notice,
	})
}

func (nc *NoticeController) TogglePublished(c *fiber.Ctx) error {
	id, ok := parseNoticeID(c)
	if !ok {
		return invalidNoticeID(c)
	}

	notice, err := nc.Repo.TogglePublished(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return noticeNotFound(c)
		}
		config.Logger.Error("Failed to toggle notice publication", zap.String("notice_id", id.String()), zap.Error(err))
		return noticeInternalError(c, "Failed to update notice")
	}
	nc.reindex(notice)
	nc.announce(c, notice)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notice updated",
		"data":    notice,
	})
}
