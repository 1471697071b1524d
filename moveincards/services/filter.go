package services

import (
	"strings"

	"movein-backend/db/models"

	"golang.org/x/text/cases"
)

const StatusAll = "all"

// CardFilter narrows the admin list. The three parts are ANDed.
type CardFilter struct {
	Status string `query:"status"`
	Search string `query:"search"`
	Room   string `query:"room"`
}

type matcher struct {
	fold cases.Caser
}

func newMatcher() *matcher {
	return &matcher{fold: cases.Fold()}
}

func (m *matcher) contains(haystack, needle string) bool {
	return strings.Contains(m.fold.String(haystack), needle)
}

func (m *matcher) search(card *models.MoveInCard, needle string) bool {
	if needle == "" {
		return true
	}
	needle = m.fold.String(needle)
	fields := []string{
		card.CompanyName,
		card.ContactPerson,
		card.ContactEmail,
		card.ContactPhone,
		card.BusinessType,
		card.FloorNumber,
		card.RoomNumber,
	}
	if card.Profile != nil {
		fields = append(fields, card.Profile.Name, card.Profile.Email)
	}
	for _, f := range fields {
		if m.contains(f, needle) {
			return true
		}
	}
	return false
}

func (m *matcher) room(card *models.MoveInCard, needle string) bool {
	if needle == "" {
		return true
	}
	needle = m.fold.String(needle)
	return m.contains(card.RoomNumber, needle) || m.contains(card.FloorNumber, needle)
}

func MatchesStatus(card *models.MoveInCard, status string) bool {
	status = strings.TrimSpace(status)
	return status == "" || status == StatusAll || string(card.Status) == status
}

// MatchesSearch is a case-insensitive substring test over the company, contact,
// business type, floor, room and owner profile fields.
func MatchesSearch(card *models.MoveInCard, q string) bool {
	return newMatcher().search(card, strings.TrimSpace(q))
}

// MatchesRoom tests only the floor and room numbers.
func MatchesRoom(card *models.MoveInCard, q string) bool {
	return newMatcher().room(card, strings.TrimSpace(q))
}

func FilterCards(cards []models.MoveInCard, f CardFilter) []models.MoveInCard {
	m := newMatcher()
	search := strings.TrimSpace(f.Search)
	room := strings.TrimSpace(f.Room)

	out := make([]models.MoveInCard, 0, len(cards))
	for i := range cards {
		card := &cards[i]
		if MatchesStatus(card, f.Status) && m.search(card, search) && m.room(card, room) {
			out = append(out, *card)
		}
	}
	return out
}

// CountByStatus counts cards per status after the text filters, ignoring the
// status filter, for the dashboard tabs.
func CountByStatus(cards []models.MoveInCard, f CardFilter) map[string]int {
	m := newMatcher()
	search := strings.TrimSpace(f.Search)
	room := strings.TrimSpace(f.Room)

	counts := map[string]int{
		StatusAll:                   0,
		string(models.CardPending):  0,
		string(models.CardApproved): 0,
		string(models.CardRejected): 0,
	}
	for i := range cards {
		card := &cards[i]
		if m.search(card, search) && m.room(card, room) {
			counts[StatusAll]++
			counts[string(card.Status)]++
		}
	}
	return counts
}
