package services

import (
	"errors"
	"fmt"

	"movein-backend/db/models"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type TransitionError struct {
	From models.ComplaintStatus
	To   models.ComplaintStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move complaint from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

var transitions = map[models.ComplaintStatus][]models.ComplaintStatus{
	models.ComplaintPending:    {models.ComplaintInProgress, models.ComplaintResolved, models.ComplaintClosed},
	models.ComplaintInProgress: {models.ComplaintPending, models.ComplaintResolved, models.ComplaintClosed},
	models.ComplaintResolved:   {models.ComplaintInProgress, models.ComplaintClosed},
}

// CanTransition reports whether a complaint may move from one status to another.
// Keeping the current status is always allowed so a response can be attached
// without changing it. Closed is terminal.
func CanTransition(from, to models.ComplaintStatus) error {
	if !from.Valid() || !to.Valid() {
		return &TransitionError{From: from, To: to}
	}
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}
