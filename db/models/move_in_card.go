package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TenantType string

const (
	OwnerTenantType  TenantType = "owner"
	TenantTenantType TenantType = "tenant"
	OtherTenantType  TenantType = "other"
)

func (t TenantType) Valid() bool {
	switch t {
	case OwnerTenantType, TenantTenantType, OtherTenantType:
		return true
	}
	return false
}

type CardStatus string

const (
	CardPending  CardStatus = "pending"
	CardApproved CardStatus = "approved"
	CardRejected CardStatus = "rejected"
)

func (s CardStatus) Valid() bool {
	switch s {
	case CardPending, CardApproved, CardRejected:
		return true
	}
	return false
}

// MoveInCard is a tenant's move-in application for a unit in the building.
type MoveInCard struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	// Company
	CompanyName  string     `gorm:"not null" json:"company_name"`
	BusinessType string     `gorm:"not null" json:"business_type"`
	TenantType   TenantType `gorm:"type:varchar(20);not null;default:'tenant'" json:"tenant_type"`

	// Location and schedule
	FloorNumber string   `gorm:"not null" json:"floor_number"`
	RoomNumber  string   `gorm:"not null;index" json:"room_number"`
	MoveInDate  DateOnly `gorm:"type:date;not null" json:"move_in_date"`

	// Contact
	ContactPerson string `gorm:"not null" json:"contact_person"`
	ContactPhone  string `gorm:"not null" json:"contact_phone"`
	ContactEmail  string `gorm:"not null" json:"contact_email"`

	// Extras
	EmployeeCount   int                        `gorm:"not null;default:0" json:"employee_count"`
	ParkingNeeded   bool                       `gorm:"not null" json:"parking_needed"`
	ParkingCount    int                        `gorm:"not null;default:0" json:"parking_count"`
	VehicleNumbers  datatypes.JSONSlice[string] `json:"vehicle_numbers"`
	SpecialRequests *string                    `gorm:"type:text" json:"special_requests"`

	// Review
	Status     CardStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminNotes *string    `gorm:"type:text" json:"admin_notes"`

	Profile *Profile `gorm:"foreignKey:UserID;references:ID" json:"profile,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *MoveInCard) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
