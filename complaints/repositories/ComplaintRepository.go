package repositories

import (
	"errors"
	"fmt"
	"time"

	"movein-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("complaint not found")

// ComplaintFilter narrows List. A nil UserID lists every submitter; an empty
// Status lists every status.
type ComplaintFilter struct {
	UserID *uuid.UUID
	Status models.ComplaintStatus
}

type ComplaintRepository interface {
	Create(complaint *models.Complaint) (*models.Complaint, error)
	GetByID(id uuid.UUID) (*models.Complaint, error)
	List(filter ComplaintFilter) ([]models.Complaint, error)
	Respond(id, adminID uuid.UUID, status models.ComplaintStatus, response string, at time.Time) (*models.Complaint, error)
	UpdateStatus(id uuid.UUID, status models.ComplaintStatus) (*models.Complaint, error)
	Delete(id uuid.UUID) error
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(complaint *models.Complaint) (*models.Complaint, error) {
	if err := r.db.Create(complaint).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	return r.GetByID(complaint.ID)
}

func (r *complaintRepository) GetByID(id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.Where("id = ?", id).First(&complaint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch complaint: %w", err)
	}
	return &complaint, nil
}

func (r *complaintRepository) List(filter ComplaintFilter) ([]models.Complaint, error) {
	query := r.db.Model(&models.Complaint{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// Respond records an admin response. Status, admin and response date are
// always written; the response text only when it is non-empty, so an empty
// submission keeps whatever was answered before.
func (r *complaintRepository) Respond(id, adminID uuid.UUID, status models.ComplaintStatus, response string, at time.Time) (*models.Complaint, error) {
	updates := map[string]interface{}{
		"status":        status,
		"admin_id":      adminID,
		"response_date": at,
		"updated_at":    at,
	}
	if response != "" {
		updates["admin_response"] = response
	}

	res := r.db.Model(&models.Complaint{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to respond to complaint: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *complaintRepository) UpdateStatus(id uuid.UUID, status models.ComplaintStatus) (*models.Complaint, error) {
	res := r.db.Model(&models.Complaint{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update complaint status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *complaintRepository) Delete(id uuid.UUID) error {
	res := r.db.Where("id = ?", id).Delete(&models.Complaint{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete complaint: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
