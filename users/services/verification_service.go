package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movein-backend/middleware"

	"github.com/google/uuid"
)

var ErrVerificationTokenInvalid = errors.New("verification link is invalid or has expired")

const DefaultVerificationTTL = 24 * time.Hour

// VerificationService issues and redeems one-time email confirmation tokens.
type VerificationService struct {
	Store middleware.SessionStore
	TTL   time.Duration
}

func NewVerificationService(store middleware.SessionStore, ttl time.Duration) *VerificationService {
	if ttl <= 0 {
		ttl = DefaultVerificationTTL
	}
	return &VerificationService{Store: store, TTL: ttl}
}

func verificationKey(token string) string {
	return "email_verification:" + token
}

func (s *VerificationService) Issue(ctx context.Context, accountID uuid.UUID) (string, error) {
	token := uuid.NewString()
	if err := s.Store.Set(ctx, verificationKey(token), accountID.String(), s.TTL); err != nil {
		return "", fmt.Errorf("store verification token: %w", err)
	}
	return token, nil
}

// Consume redeems a token exactly once.
func (s *VerificationService) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrVerificationTokenInvalid
	}
	v, err := s.Store.GetDel(ctx, verificationKey(token))
	if errors.Is(err, middleware.ErrSessionNotFound) {
		return uuid.Nil, ErrVerificationTokenInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("redeem verification token: %w", err)
	}

	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, ErrVerificationTokenInvalid
	}
	return id, nil
}

func VerificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/api/v1/auth/verify?token=%s", baseURL, token)
}
