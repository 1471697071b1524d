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

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

type UserRepository interface {
	CreateAccount(account *models.Account) (*models.Account, error)
	GetAccountByID(id uuid.UUID) (*models.Account, error)
	GetAccountByEmail(email string) (*models.Account, error)
	MarkEmailVerified(id uuid.UUID, at time.Time) error
	TouchLastLogin(id uuid.UUID, at time.Time) error

	GetProfileByID(id uuid.UUID) (*models.Profile, error)
	GetProfilesByIDs(ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error)
	CreateProfile(profile *models.Profile) error
	UpsertContact(profile *models.Profile) error
	UpdateNamePhone(id uuid.UUID, name, phone string) (*models.Profile, error)
	ListTenants() ([]models.Profile, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateAccount(account *models.Account) (*models.Account, error) {
	existing, err := r.GetAccountByEmail(account.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := r.db.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (r *userRepository) GetAccountByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return &account, nil
}

func (r *userRepository) GetAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("email = ?", models.NormalizeEmail(email)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch account by email: %w", err)
	}
	return &account, nil
}

func (r *userRepository) MarkEmailVerified(id uuid.UUID, at time.Time) error {
	res := r.db.Model(&models.Account{}).Where("id = ?", id).Update("email_verified_at", at)
	if res.Error != nil {
		return fmt.Errorf("failed to mark email verified: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) TouchLastLogin(id uuid.UUID, at time.Time) error {
	return r.db.Model(&models.Account{}).Where("id = ?", id).Update("last_login_at", at).Error
}

func (r *userRepository) GetProfileByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

// GetProfilesByIDs loads every requested profile in one query, keyed by id.
// Missing ids are simply absent from the map.
func (r *userRepository) GetProfilesByIDs(ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	out := make(map[uuid.UUID]*models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var profiles []models.Profile
	if err := r.db.Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	for i := range profiles {
		out[profiles[i].ID] = &profiles[i]
	}
	return out, nil
}

func (r *userRepository) CreateProfile(profile *models.Profile) error {
	if profile.Role == "" {
		profile.Role = models.UserRole
	}
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// UpsertContact writes name, email and phone keyed by id. An existing role is kept;
// a new profile gets the user role.
func (r *userRepository) UpsertContact(profile *models.Profile) error {
	if profile.Role == "" {
		profile.Role = models.UserRole
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateNamePhone(id uuid.UUID, name, phone string) (*models.Profile, error) {
	res := r.db.Model(&models.Profile{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":  name,
		"phone": phone,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetProfileByID(id)
}

// ListTenants returns non-admin profiles ordered by name.
func (r *userRepository) ListTenants() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Where("role <> ?", models.AdminRole).Order("name asc").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return profiles, nil
}
