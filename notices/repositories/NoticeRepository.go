package repositories

import (
	"errors"
	"fmt"

	"movein-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("notice not found")

const listOrder = "is_important DESC, created_at DESC"

type NoticeRepository interface {
	Create(notice *models.Notice) (*models.Notice, error)
	GetByID(id uuid.UUID) (*models.Notice, error)
	GetPublishedByID(id uuid.UUID) (*models.Notice, error)
	ListPublished(limit int) ([]models.Notice, error)
	ListAll(offset, limit int) ([]models.Notice, int64, error)
	Update(notice *models.Notice) (*models.Notice, error)
	Delete(id uuid.UUID) error
	ToggleImportant(id uuid.UUID) (*models.Notice, error)
	TogglePublished(id uuid.UUID) (*models.Notice, error)
	IncrementViewCount(id uuid.UUID) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(notice *models.Notice) (*models.Notice, error) {
	if err := r.db.Omit(clause.Associations).Create(notice).Error; err != nil {
		return nil, fmt.Errorf("failed to create notice: %w", err)
	}
	return r.GetByID(notice.ID)
}

func (r *noticeRepository) first(query *gorm.DB) (*models.Notice, error) {
	var notice models.Notice
	if err := query.Preload("Author").First(&notice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch notice: %w", err)
	}
	return &notice, nil
}

func (r *noticeRepository) GetByID(id uuid.UUID) (*models.Notice, error) {
	return r.first(r.db.Where("id = ?", id))
}

func (r *noticeRepository) GetPublishedByID(id uuid.UUID) (*models.Notice, error) {
	return r.first(r.db.Where("id = ? AND is_published = ?", id, true))
}

// ListPublished returns published notices, important first then newest. limit <= 0 means no limit.
func (r *noticeRepository) ListPublished(limit int) ([]models.Notice, error) {
	query := r.db.Preload("Author").Where("is_published = ?", true).Order(listOrder)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notices []models.Notice
	if err := query.Find(&notices).Error; err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	return notices, nil
}

// ListAll includes drafts and uses the same ordering as the public list.
func (r *noticeRepository) ListAll(offset, limit int) ([]models.Notice, int64, error) {
	var total int64
	if err := r.db.Model(&models.Notice{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notices: %w", err)
	}

	var notices []models.Notice
	if err := r.db.Preload("Author").Order(listOrder).Offset(offset).Limit(limit).Find(&notices).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notices: %w", err)
	}
	return notices, total, nil
}

func (r *noticeRepository) Update(notice *models.Notice) (*models.Notice, error) {
	res := r.db.Model(notice).Omit(clause.Associations).
		Select("title", "content", "is_important", "is_published").
		Updates(notice)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update notice: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(notice.ID)
}

func (r *noticeRepository) Delete(id uuid.UUID) error {
	res := r.db.Where("id = ?", id).Delete(&models.Notice{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete notice: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *noticeRepository) toggle(id uuid.UUID, column string) (*models.Notice, error) {
	res := r.db.Model(&models.Notice{}).Where("id = ?", id).
		Update(column, gorm.Expr("NOT "+column))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to toggle %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}

// ToggleImportant flips is_important. Other notices are not touched.
func (r *noticeRepository) ToggleImportant(id uuid.UUID) (*models.Notice, error) {
	return r.toggle(id, "is_important")
}

func (r *noticeRepository) TogglePublished(id uuid.UUID) (*models.Notice, error) {
	return r.toggle(id, "is_published")
}

// IncrementViewCount adds one view to a published notice in a single statement.
// Every call counts; viewers are not de-duplicated.
func (r *noticeRepository) IncrementViewCount(id uuid.UUID) error {
	res := r.db.Model(&models.Notice{}).
		Where("id = ? AND is_published = ?", id, true).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment view count: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
