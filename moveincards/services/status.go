package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"movein-backend/db/models"
)

const MaxAdminNotesLength = 1000

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEditLocked        = errors.New("card can no longer be edited")
)

type TransitionError struct {
	From models.CardStatus
	To   models.CardStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move card from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Decide checks an admin decision. Any card may be approved or rejected,
// including one that was already decided; nothing goes back to pending.
func Decide(from, to models.CardStatus) error {
	if !from.Valid() {
		return &TransitionError{From: from, To: to}
	}
	switch to {
	case models.CardApproved, models.CardRejected:
		return nil
	}
	return &TransitionError{From: from, To: to}
}

// CanTenantEdit allows owners to change their card only while it is pending.
func CanTenantEdit(status models.CardStatus) error {
	if status != models.CardPending {
		return ErrEditLocked
	}
	return nil
}

func CanAdminEdit(status models.CardStatus, allowEditAfterDecision bool) error {
	if status != models.CardPending && !allowEditAfterDecision {
		return ErrEditLocked
	}
	return nil
}

// NormalizeNotes trims a decision note. An empty note becomes nil so the
// stored note is cleared rather than left at a previous value.
func NormalizeNotes(notes string) (*string, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(notes) > MaxAdminNotesLength {
		return nil, &ValidationError{
			Field:   "notes",
			Message: fmt.Sprintf("must be at most %d characters", MaxAdminNotesLength),
		}
	}
	return &notes, nil
}
