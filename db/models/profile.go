package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	UserRole  Role = "user"
	AdminRole Role = "admin"
)

func (r Role) Valid() bool {
	return r == UserRole || r == AdminRole
}

// Account is the sign-in identity. Its ID is shared with the Profile created for it.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	// Metadata captured at registration, used to backfill the profile.
	Name  string `json:"name"`
	Phone string `json:"phone"`

	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Email = NormalizeEmail(a.Email)
	return nil
}

func (a *Account) IsVerified() bool {
	return a.EmailVerifiedAt != nil
}

// Profile is the application-level view of a user. Role is the only authority
// for administrative access.
type Profile struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name  string    `gorm:"not null;default:''" json:"name"`
	Email string    `gorm:"index;not null" json:"email"`
	Phone string    `gorm:"not null;default:''" json:"phone"`
	Role  Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == AdminRole
}

// ProfileSummary is the identity shape joined onto cards, notices and complaints.
type ProfileSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

func (p *Profile) Summary() *ProfileSummary {
	if p == nil {
		return nil
	}
	return &ProfileSummary{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
