package repositories

import (
	"errors"
	"fmt"
	"time"

	"movein-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("move-in card not found")

// editableColumns are the wizard fields. Status and notes only change through UpdateDecision.
var editableColumns = []string{
	"company_name", "business_type", "tenant_type",
	"floor_number", "room_number", "move_in_date",
	"contact_person", "contact_phone", "contact_email",
	"employee_count", "parking_needed", "parking_count", "vehicle_numbers",
	"special_requests",
}

type MoveInCardRepository interface {
	Create(card *models.MoveInCard) (*models.MoveInCard, error)
	GetByID(id uuid.UUID) (*models.MoveInCard, error)
	ListByUser(userID uuid.UUID) ([]models.MoveInCard, error)
	ListAll() ([]models.MoveInCard, error)
	HasCardForUser(userID uuid.UUID) (bool, error)
	Update(card *models.MoveInCard) (*models.MoveInCard, error)
	UpdateDecision(id uuid.UUID, status models.CardStatus, notes *string) (*models.MoveInCard, error)
	Delete(id uuid.UUID) error
}

type moveInCardRepository struct {
	db *gorm.DB
}

func NewMoveInCardRepository(db *gorm.DB) MoveInCardRepository {
	return &moveInCardRepository{db: db}
}

func (r *moveInCardRepository) Create(card *models.MoveInCard) (*models.MoveInCard, error) {
	if err := r.db.Omit(clause.Associations).Create(card).Error; err != nil {
		return nil, fmt.Errorf("failed to create move-in card: %w", err)
	}
	return card, nil
}

// GetByID loads the card with its owner's profile.
func (r *moveInCardRepository) GetByID(id uuid.UUID) (*models.MoveInCard, error) {
	var card models.MoveInCard
	if err := r.db.Preload("Profile").Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch move-in card: %w", err)
	}
	return &card, nil
}

func (r *moveInCardRepository) ListByUser(userID uuid.UUID) ([]models.MoveInCard, error) {
	var cards []models.MoveInCard
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list move-in cards: %w", err)
	}
	return cards, nil
}

// ListAll returns every card with owner profiles, newest first.
func (r *moveInCardRepository) ListAll() ([]models.MoveInCard, error) {
	var cards []models.MoveInCard
	if err := r.db.Preload("Profile").Order("created_at DESC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list move-in cards: %w", err)
	}
	return cards, nil
}

func (r *moveInCardRepository) HasCardForUser(userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&models.MoveInCard{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count move-in cards: %w", err)
	}
	return count > 0, nil
}

// Update writes the wizard fields of card.
func (r *moveInCardRepository) Update(card *models.MoveInCard) (*models.MoveInCard, error) {
	res := r.db.Model(card).Omit(clause.Associations).Select(editableColumns).Updates(card)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update move-in card: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(card.ID)
}

// UpdateDecision sets status and notes in one statement. A nil note clears the column.
func (r *moveInCardRepository) UpdateDecision(id uuid.UUID, status models.CardStatus, notes *string) (*models.MoveInCard, error) {
	var noteValue interface{}
	if notes != nil {
		noteValue = *notes
	}

	res := r.db.Model(&models.MoveInCard{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"admin_notes": noteValue,
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update move-in card status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *moveInCardRepository) Delete(id uuid.UUID) error {
	res := r.db.Where("id = ?", id).Delete(&models.MoveInCard{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete move-in card: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
