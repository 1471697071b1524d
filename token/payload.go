package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind separates short-lived access tokens from the refresh tokens that renew them.
type Kind string

const (
	AccessToken  Kind = "access"
	RefreshToken Kind = "refresh"
)

var (
	ErrExpired      = errors.New("token has expired")
	ErrInvalidToken = errors.New("token is invalid")
	ErrWrongKind    = errors.New("token kind mismatch")
)

// Payload is the encrypted body of a session token.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

func NewPayload(kind Kind, userID uuid.UUID, email string, duration time.Duration) (*Payload, error) {
	switch {
	case kind != AccessToken && kind != RefreshToken:
		return nil, fmt.Errorf("unknown token kind %q", kind)
	case userID == uuid.Nil:
		return nil, errors.New("user id cannot be empty")
	case email == "":
		return nil, errors.New("email cannot be empty")
	case duration <= 0:
		return nil, errors.New("duration must be positive")
	}

	now := time.Now()
	return &Payload{
		ID:        uuid.New(),
		Kind:      kind,
		UserID:    userID,
		Email:     email,
		IssuedAt:  now,
		ExpiredAt: now.Add(duration),
	}, nil
}

// Check reports whether the payload is usable as the given kind right now.
func (p *Payload) Check(kind Kind, now time.Time) error {
	if p.UserID == uuid.Nil {
		return ErrInvalidToken
	}
	if p.Kind != kind {
		return ErrWrongKind
	}
	if now.After(p.ExpiredAt) {
		return ErrExpired
	}
	return nil
}

func (p *Payload) String() string {
	return fmt.Sprintf("%s token %s for %s (%s), expires %s",
		p.Kind, p.ID, p.UserID, p.Email, p.ExpiredAt.Format(time.RFC3339))
}
