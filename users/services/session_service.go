package services

import (
	"errors"
	"strings"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/middleware"
	"movein-backend/users/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService resolves the profile behind an authenticated identity. It is the
// single place profiles are created on first access and backfilled.
type SessionService struct {
	Repo repositories.UserRepository
}

func NewSessionService(repo repositories.UserRepository) *SessionService {
	return &SessionService{Repo: repo}
}

// ResolveProfile implements middleware.ProfileResolver.
func (s *SessionService) ResolveProfile(userID uuid.UUID, email string) (*models.Profile, error) {
	profile, err := s.Repo.GetProfileByID(userID)
	if err == nil {
		if profile.Name != "" && profile.Phone != "" {
			return profile, nil
		}
		return s.backfill(profile)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	account, err := s.Repo.GetAccountByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, middleware.ErrAccountNotFound
		}
		return nil, err
	}

	profile = &models.Profile{
		ID:    account.ID,
		Name:  DisplayName(account.Name, account.Email),
		Email: account.Email,
		Phone: account.Phone,
		Role:  models.UserRole,
	}
	if err := s.Repo.CreateProfile(profile); err != nil {
		return nil, err
	}
	config.Logger.Info("Profile created on first access", zap.String("user_id", profile.ID.String()))
	return profile, nil
}

// backfill fills an empty name or phone from the registration metadata.
func (s *SessionService) backfill(profile *models.Profile) (*models.Profile, error) {
	account, err := s.Repo.GetAccountByID(profile.ID)
	if err != nil {
		// Profiles created on someone's behalf may have no account yet.
		if errors.Is(err, repositories.ErrNotFound) {
			return profile, nil
		}
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = DisplayName(account.Name, account.Email)
	}
	phone := profile.Phone
	if phone == "" {
		phone = account.Phone
	}
	if name == profile.Name && phone == profile.Phone {
		return profile, nil
	}

	updated, err := s.Repo.UpdateNamePhone(profile.ID, name, phone)
	if err != nil {
		return nil, err
	}
	config.Logger.Info("Profile backfilled from account metadata", zap.String("user_id", profile.ID.String()))
	return updated, nil
}

// DisplayName falls back to the local part of the email when no name was given.
func DisplayName(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// HomeRoute is where a user lands after signing in.
func HomeRoute(profile *models.Profile) string {
	if profile.IsAdmin() {
		return "/admin"
	}
	return "/dashboard"
}
