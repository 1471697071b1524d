package services

import (
	"errors"
	"testing"

	"movein-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeForm() CardForm {
	return CardForm{
		CompanyName:   "Acme",
		BusinessType:  "Software",
		FloorNumber:   "5",
		RoomNumber:    "501",
		MoveInDate:    "2025-03-01",
		ContactPerson: "Kim Minsu",
		ContactPhone:  "010-1234-5678",
		ContactEmail:  "kim@acme.example",
	}
}

func TestWizardNextStaysOnIncompleteStep(t *testing.T) {
	form := completeForm()
	form.CompanyName = ""
	w := NewWizard(form)

	assert.False(t, w.Next())
	assert.Equal(t, 1, w.Step)

	w.Form.CompanyName = "Acme"
	assert.True(t, w.Next())
	assert.Equal(t, 2, w.Step)
}

func TestWizardWalkthrough(t *testing.T) {
	w := NewWizard(completeForm())
	assert.False(t, w.Previous(), "no previous on the first step")
	assert.False(t, w.CanSubmit())

	for i := 0; i < 3; i++ {
		require.True(t, w.Next())
	}
	assert.Equal(t, LastStep, w.Step)
	assert.False(t, w.Next(), "no step after the last")
	assert.True(t, w.CanSubmit())

	assert.True(t, w.Previous())
	assert.Equal(t, 3, w.Step)
	assert.False(t, w.CanSubmit(), "submit only from the last step")
}

func TestWizardSubmitRechecksEarlierSteps(t *testing.T) {
	w := NewWizard(completeForm())
	for w.Next() {
	}
	require.Equal(t, LastStep, w.Step)

	w.Form.ContactEmail = ""
	assert.False(t, w.CanSubmit())
}

func TestStepValid(t *testing.T) {
	empty := CardForm{}
	assert.False(t, StepValid(1, empty))
	assert.False(t, StepValid(2, empty))
	assert.False(t, StepValid(3, empty))
	assert.True(t, StepValid(4, empty), "extras are optional")
	assert.False(t, StepValid(0, completeForm()))
	assert.False(t, StepValid(5, completeForm()))

	blank := completeForm()
	blank.RoomNumber = "   "
	assert.Equal(t, []string{"room_number"}, MissingFields(2, blank))
}

func TestValidateForSubmit(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CardForm)
		field  string
	}{
		{"complete", func(f *CardForm) {}, ""},
		{"missing company", func(f *CardForm) { f.CompanyName = "" }, "company_name"},
		{"missing move in date", func(f *CardForm) { f.MoveInDate = "" }, "move_in_date"},
		{"bad date", func(f *CardForm) { f.MoveInDate = "03/01/2025" }, "move_in_date"},
		{"bad email", func(f *CardForm) { f.ContactEmail = "kim-at-acme" }, "contact_email"},
		{"bad tenant type", func(f *CardForm) { f.TenantType = "landlord" }, "tenant_type"},
		{"negative employees", func(f *CardForm) { f.EmployeeCount = -1 }, "employee_count"},
		{"parking without count", func(f *CardForm) { f.ParkingNeeded = true }, "parking_count"},
		{"parking count ignored when not needed", func(f *CardForm) { f.ParkingCount = -3 }, ""},
		{"parking with count", func(f *CardForm) { f.ParkingNeeded = true; f.ParkingCount = 2 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := completeForm()
			tt.modify(&form)
			err := ValidateForSubmit(form)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBuildCardForcesPending(t *testing.T) {
	userID := uuid.New()
	form := completeForm()
	form.ParkingNeeded = true
	form.ParkingCount = 1
	form.VehicleNumbers = []string{" 12가3456 ", "", "34나5678"}
	form.SpecialRequests = "  "

	card, err := BuildCard(userID, form)
	require.NoError(t, err)
	assert.Equal(t, models.CardPending, card.Status)
	assert.Nil(t, card.AdminNotes)
	assert.Equal(t, userID, card.UserID)
	assert.Equal(t, models.TenantTenantType, card.TenantType)
	assert.Equal(t, "2025-03-01", card.MoveInDate.String())
	assert.Equal(t, []string{"12가3456"}, []string(card.VehicleNumbers))
	assert.Nil(t, card.SpecialRequests)

	back := FormFromCard(card)
	assert.Equal(t, "Acme", back.CompanyName)
	assert.Equal(t, "2025-03-01", back.MoveInDate)
}

func TestNormalizeVehicles(t *testing.T) {
	count, vehicles := NormalizeVehicles(false, 3, []string{"a", "b"})
	assert.Equal(t, 0, count)
	assert.Empty(t, vehicles)

	count, vehicles = NormalizeVehicles(true, 2, []string{"a", " ", "b", "c"})
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"a", "b"}, vehicles)

	count, vehicles = NormalizeVehicles(true, 3, []string{"a"})
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"a"}, vehicles)
}

func TestDecide(t *testing.T) {
	for _, from := range []models.CardStatus{models.CardPending, models.CardApproved, models.CardRejected} {
		assert.NoError(t, Decide(from, models.CardApproved))
		assert.NoError(t, Decide(from, models.CardRejected))

		err := Decide(from, models.CardPending)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		var terr *TransitionError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, from, terr.From)
	}
	assert.ErrorIs(t, Decide(models.CardPending, "archived"), ErrInvalidTransition)
}

func TestEditGuards(t *testing.T) {
	assert.NoError(t, CanTenantEdit(models.CardPending))
	assert.ErrorIs(t, CanTenantEdit(models.CardApproved), ErrEditLocked)
	assert.ErrorIs(t, CanTenantEdit(models.CardRejected), ErrEditLocked)

	assert.NoError(t, CanAdminEdit(models.CardApproved, true))
	assert.ErrorIs(t, CanAdminEdit(models.CardApproved, false), ErrEditLocked)
	assert.NoError(t, CanAdminEdit(models.CardPending, false))
}

func TestNormalizeNotes(t *testing.T) {
	notes, err := NormalizeNotes("   ")
	require.NoError(t, err)
	assert.Nil(t, notes)

	notes, err = NormalizeNotes(" documents ok ")
	require.NoError(t, err)
	require.NotNil(t, notes)
	assert.Equal(t, "documents ok", *notes)

	long := make([]rune, MaxAdminNotesLength+1)
	for i := range long {
		long[i] = '가'
	}
	_, err = NormalizeNotes(string(long))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFilterCardsANDsSearchAndRoom(t *testing.T) {
	cards := []models.MoveInCard{
		{CompanyName: "Acme", RoomNumber: "501", FloorNumber: "5", Status: models.CardPending},
		{CompanyName: "Acme", RoomNumber: "203", FloorNumber: "2", Status: models.CardApproved},
		{CompanyName: "Globex", RoomNumber: "501", FloorNumber: "5", Status: models.CardPending},
	}

	got := FilterCards(cards, CardFilter{Search: "Acme", Room: "501"})
	require.Len(t, got, 1)
	assert.Equal(t, "501", got[0].RoomNumber)
	assert.Equal(t, "Acme", got[0].CompanyName)

	assert.Len(t, FilterCards(cards, CardFilter{Search: "acme"}), 2)
	assert.Len(t, FilterCards(cards, CardFilter{Room: "501"}), 2)
	assert.Len(t, FilterCards(cards, CardFilter{Status: "all"}), 3)
	assert.Len(t, FilterCards(cards, CardFilter{Status: "pending", Search: "acme"}), 1)
	assert.Empty(t, FilterCards(cards, CardFilter{Search: "Acme", Room: "999"}))
}

func TestMatchesSearchFields(t *testing.T) {
	card := &models.MoveInCard{
		CompanyName:   "Acme",
		BusinessType:  "Logistics",
		ContactPerson: "Lee",
		ContactEmail:  "lee@acme.example",
		ContactPhone:  "010-9999-0000",
		FloorNumber:   "12",
		RoomNumber:    "1204",
		Profile:       &models.Profile{Name: "Park Jiwoo", Email: "OWNER@Example.com"},
	}

	for _, q := range []string{"acme", "LOGISTICS", "lee", "9999", "1204", "park", "owner@example"} {
		assert.True(t, MatchesSearch(card, q), q)
	}
	assert.False(t, MatchesSearch(card, "globex"))
	assert.True(t, MatchesSearch(card, ""))

	assert.True(t, MatchesRoom(card, "12"))
	assert.False(t, MatchesRoom(card, "acme"), "room search ignores company")

	card.Profile = nil
	assert.False(t, MatchesSearch(card, "park"))
}

func TestCountByStatus(t *testing.T) {
	cards := []models.MoveInCard{
		{CompanyName: "Acme", Status: models.CardPending},
		{CompanyName: "Acme", Status: models.CardApproved},
		{CompanyName: "Globex", Status: models.CardRejected},
	}
	counts := CountByStatus(cards, CardFilter{Status: "pending", Search: "acme"})
	assert.Equal(t, 2, counts["all"])
	assert.Equal(t, 1, counts["pending"])
	assert.Equal(t, 1, counts["approved"])
	assert.Equal(t, 0, counts["rejected"])
}
