package middleware

import (
	"context"

	"movein-backend/db/models"
	"movein-backend/token"

	"github.com/google/uuid"
)

// ProfileResolver loads the profile for an authenticated identity, creating it on first access.
type ProfileResolver interface {
	ResolveProfile(userID uuid.UUID, email string) (*models.Profile, error)
}

// AppContext bundles all dependencies
type AppContext struct {
	PasetoMaker   token.Maker
	Ctx           context.Context
	Sessions      SessionStore
	Profiles      ProfileResolver
	SecureCookies bool
}
