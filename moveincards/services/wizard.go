package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"movein-backend/db/models"
	userServices "movein-backend/users/services"

	"github.com/google/uuid"
)

const (
	FirstStep = 1
	LastStep  = 4

	MaxSpecialRequestsLength = 2000
)

// CardForm is the wizard payload shared by tenant submission, tenant edit and the admin forms.
type CardForm struct {
	CompanyName     string   `json:"company_name"`
	BusinessType    string   `json:"business_type"`
	TenantType      string   `json:"tenant_type"`
	FloorNumber     string   `json:"floor_number"`
	RoomNumber      string   `json:"room_number"`
	MoveInDate      string   `json:"move_in_date"`
	ContactPerson   string   `json:"contact_person"`
	ContactPhone    string   `json:"contact_phone"`
	ContactEmail    string   `json:"contact_email"`
	EmployeeCount   int      `json:"employee_count"`
	ParkingNeeded   bool     `json:"parking_needed"`
	ParkingCount    int      `json:"parking_count"`
	VehicleNumbers  []string `json:"vehicle_numbers"`
	SpecialRequests string   `json:"special_requests"`
}

// ValidationError names the first offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var stepFields = map[int][]string{
	1: {"company_name", "business_type"},
	2: {"floor_number", "room_number", "move_in_date"},
	3: {"contact_person", "contact_phone", "contact_email"},
	4: {},
}

// RequiredFields lists the fields a step needs before the wizard may leave it.
func RequiredFields(step int) []string {
	return stepFields[step]
}

func (f CardForm) value(field string) string {
	switch field {
	case "company_name":
		return f.CompanyName
	case "business_type":
		return f.BusinessType
	case "floor_number":
		return f.FloorNumber
	case "room_number":
		return f.RoomNumber
	case "move_in_date":
		return f.MoveInDate
	case "contact_person":
		return f.ContactPerson
	case "contact_phone":
		return f.ContactPhone
	case "contact_email":
		return f.ContactEmail
	}
	return ""
}

// MissingFields returns the required fields of step that are blank.
func MissingFields(step int, f CardForm) []string {
	var missing []string
	for _, field := range stepFields[step] {
		if strings.TrimSpace(f.value(field)) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

func StepValid(step int, f CardForm) bool {
	if step < FirstStep || step > LastStep {
		return false
	}
	return len(MissingFields(step, f)) == 0
}

// Wizard tracks the active step of the four-step card form.
type Wizard struct {
	Step int
	Form CardForm
}

func NewWizard(form CardForm) *Wizard {
	return &Wizard{Step: FirstStep, Form: form}
}

func (w *Wizard) CanAdvance() bool {
	return w.Step < LastStep && StepValid(w.Step, w.Form)
}

// Next moves forward one step when the active step validates.
func (w *Wizard) Next() bool {
	if !w.CanAdvance() {
		return false
	}
	w.Step++
	return true
}

func (w *Wizard) Previous() bool {
	if w.Step <= FirstStep {
		return false
	}
	w.Step--
	return true
}

// CanSubmit is only true on the last step with every earlier step still valid.
func (w *Wizard) CanSubmit() bool {
	return w.Step == LastStep && ValidateForSubmit(w.Form) == nil
}

// ValidateForSubmit re-checks steps 1-3 and the extras a final submit depends on.
func ValidateForSubmit(f CardForm) error {
	for step := FirstStep; step < LastStep; step++ {
		if missing := MissingFields(step, f); len(missing) > 0 {
			return &ValidationError{Field: missing[0], Message: "is required"}
		}
	}

	if _, err := models.ParseDateOnly(f.MoveInDate); err != nil {
		return &ValidationError{Field: "move_in_date", Message: "must be a date in YYYY-MM-DD format"}
	}
	if !userServices.ValidateEmailFormat(f.ContactEmail) {
		return &ValidationError{Field: "contact_email", Message: "is not a valid email address"}
	}
	if f.TenantType != "" && !models.TenantType(f.TenantType).Valid() {
		return &ValidationError{Field: "tenant_type", Message: "must be one of owner, tenant, other"}
	}
	if f.EmployeeCount < 0 {
		return &ValidationError{Field: "employee_count", Message: "cannot be negative"}
	}
	if f.ParkingNeeded && f.ParkingCount <= 0 {
		return &ValidationError{Field: "parking_count", Message: "must be a positive number when parking is needed"}
	}
	if utf8.RuneCountInString(f.SpecialRequests) > MaxSpecialRequestsLength {
		return &ValidationError{Field: "special_requests", Message: fmt.Sprintf("must be at most %d characters", MaxSpecialRequestsLength)}
	}
	return nil
}

// BuildCard turns a validated form into a new pending card owned by userID.
func BuildCard(userID uuid.UUID, f CardForm) (*models.MoveInCard, error) {
	card := &models.MoveInCard{UserID: userID}
	if err := ApplyForm(card, f); err != nil {
		return nil, err
	}
	card.Status = models.CardPending
	card.AdminNotes = nil
	return card, nil
}

// ApplyForm copies the form onto card. Status and notes are left alone.
func ApplyForm(card *models.MoveInCard, f CardForm) error {
	if err := ValidateForSubmit(f); err != nil {
		return err
	}
	date, _ := models.ParseDateOnly(f.MoveInDate)

	tenantType := models.TenantType(f.TenantType)
	if tenantType == "" {
		tenantType = models.TenantTenantType
	}

	card.CompanyName = strings.TrimSpace(f.CompanyName)
	card.BusinessType = strings.TrimSpace(f.BusinessType)
	card.TenantType = tenantType
	card.FloorNumber = strings.TrimSpace(f.FloorNumber)
	card.RoomNumber = strings.TrimSpace(f.RoomNumber)
	card.MoveInDate = date
	card.ContactPerson = strings.TrimSpace(f.ContactPerson)
	card.ContactPhone = strings.TrimSpace(f.ContactPhone)
	card.ContactEmail = models.NormalizeEmail(f.ContactEmail)
	card.EmployeeCount = f.EmployeeCount
	card.ParkingNeeded = f.ParkingNeeded
	card.ParkingCount, card.VehicleNumbers = NormalizeVehicles(f.ParkingNeeded, f.ParkingCount, f.VehicleNumbers)

	card.SpecialRequests = nil
	if s := strings.TrimSpace(f.SpecialRequests); s != "" {
		card.SpecialRequests = &s
	}
	return nil
}

// FormFromCard is the inverse of ApplyForm, used to prefill edit forms.
func FormFromCard(card *models.MoveInCard) CardForm {
	f := CardForm{
		CompanyName:    card.CompanyName,
		BusinessType:   card.BusinessType,
		TenantType:     string(card.TenantType),
		FloorNumber:    card.FloorNumber,
		RoomNumber:     card.RoomNumber,
		MoveInDate:     card.MoveInDate.String(),
		ContactPerson:  card.ContactPerson,
		ContactPhone:   card.ContactPhone,
		ContactEmail:   card.ContactEmail,
		EmployeeCount:  card.EmployeeCount,
		ParkingNeeded:  card.ParkingNeeded,
		ParkingCount:   card.ParkingCount,
		VehicleNumbers: append([]string(nil), card.VehicleNumbers...),
	}
	if card.SpecialRequests != nil {
		f.SpecialRequests = *card.SpecialRequests
	}
	return f
}
