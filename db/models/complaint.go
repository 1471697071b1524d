package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintCategory string

const (
	FacilityCategory   ComplaintCategory = "facility"
	SecurityCategory   ComplaintCategory = "security"
	NoiseCategory      ComplaintCategory = "noise"
	ParkingCategory    ComplaintCategory = "parking"
	ElevatorCategory   ComplaintCategory = "elevator"
	CleaningCategory   ComplaintCategory = "cleaning"
	ManagementCategory ComplaintCategory = "management"
	OtherCategory      ComplaintCategory = "other"
)

var ComplaintCategories = []ComplaintCategory{
	FacilityCategory, SecurityCategory, NoiseCategory, ParkingCategory,
	ElevatorCategory, CleaningCategory, ManagementCategory, OtherCategory,
}

func (c ComplaintCategory) Valid() bool {
	for _, known := range ComplaintCategories {
		if c == known {
			return true
		}
	}
	return false
}

type ComplaintPriority string

const (
	LowPriority    ComplaintPriority = "low"
	NormalPriority ComplaintPriority = "normal"
	HighPriority   ComplaintPriority = "high"
	UrgentPriority ComplaintPriority = "urgent"
)

func (p ComplaintPriority) Valid() bool {
	switch p {
	case LowPriority, NormalPriority, HighPriority, UrgentPriority:
		return true
	}
	return false
}

type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintClosed     ComplaintStatus = "closed"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintClosed:
		return true
	}
	return false
}

// Complaint is a tenant-filed issue. IsAnonymous only affects how the submitter
// is displayed; UserID is always recorded.
type Complaint struct {
	ID       uuid.UUID         `gorm:"type:uuid;primary_key;" json:"id"`
	UserID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title    string            `gorm:"not null" json:"title"`
	Content  string            `gorm:"type:text;not null" json:"content"`
	Category ComplaintCategory `gorm:"type:varchar(20);not null" json:"category"`
	Priority ComplaintPriority `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	Status   ComplaintStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	AdminResponse *string    `gorm:"type:text" json:"admin_response"`
	AdminID       *uuid.UUID `gorm:"type:uuid" json:"admin_id"`
	ResponseDate  *time.Time `json:"response_date"`
	IsAnonymous   bool       `gorm:"not null" json:"is_anonymous"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
