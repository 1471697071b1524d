package middleware

import (
	"errors"
	"strings"
	"time"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
)

// ErrAccountNotFound is returned by a ProfileResolver when the identity behind a token no longer exists.
var ErrAccountNotFound = errors.New("account not found")

func refreshKey(refreshToken string) string {
	return "refresh_token:" + refreshToken
}

// ProtectedRoute resolves the caller's identity from the access token, falling back to
// the single-use refresh token. The token payload is stored under "user" and the
// caller's profile under "profile".
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies(accessCookieName)
		if accessToken == "" {
			if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
				accessToken = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		var payload *token.Payload
		if accessToken != "" {
			p, err := ctx.PasetoMaker.VerifyToken(accessToken, token.AccessToken)
			if err == nil {
				payload = p
			} else {
				config.Logger.Debug("Invalid access token encountered", zap.Error(err))
			}
		}

		if payload == nil {
			p, status, err := refreshSession(c, ctx)
			if err != nil {
				return c.Status(status).JSON(fiber.Map{
					"success": false,
					"message": "Unauthorized",
					"error":   err.Error(),
				})
			}
			payload = p
		}

		profile, err := ctx.Profiles.ResolveProfile(payload.UserID, payload.Email)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				config.Logger.Warn("Token refers to a missing account", zap.String("user_id", payload.UserID.String()))
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"message": "Unauthorized",
					"error":   "Session invalid. Please log in again.",
				})
			}
			config.Logger.Error("Failed to resolve profile for session",
				zap.String("user_id", payload.UserID.String()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		c.Locals("user", payload)
		c.Locals("profile", profile)
		return c.Next()
	}
}

// refreshSession consumes the refresh token cookie and issues a new token pair.
func refreshSession(c *fiber.Ctx, ctx *AppContext) (*token.Payload, int, error) {
	refreshToken := c.Cookies(refreshCookieName)
	if refreshToken == "" {
		config.Logger.Debug("No refresh token provided in request")
		return nil, fiber.StatusUnauthorized, errors.New("Authentication required")
	}

	refreshPayload, err := ctx.PasetoMaker.VerifyToken(refreshToken, token.RefreshToken)
	if err != nil {
		config.Logger.Info("Refresh token verification failed", zap.Error(err))
		return nil, fiber.StatusUnauthorized, errors.New("Session expired or invalid. Please log in again.")
	}

	// GetDel redeems the token atomically: of two concurrent requests with the same cookie only one wins.
	userID, err := ctx.Sessions.GetDel(ctx.Ctx, refreshKey(refreshToken))
	if errors.Is(err, ErrSessionNotFound) {
		config.Logger.Warn("Refresh token not found in session store",
			zap.String("payload_id", refreshPayload.ID.String()),
			zap.String("email", refreshPayload.Email),
		)
		return nil, fiber.StatusUnauthorized, errors.New("Session invalid. Please log in again.")
	} else if err != nil {
		config.Logger.Error("Error accessing session store for refresh token validation",
			zap.String("payload_id", refreshPayload.ID.String()),
			zap.Error(err),
		)
		return nil, fiber.StatusInternalServerError, errors.New("An internal server error occurred.")
	}

	if err := IssueSession(c, ctx, refreshPayload.UserID, refreshPayload.Email); err != nil {
		config.Logger.Error("Could not rotate session tokens", zap.String("user_id", userID), zap.Error(err))
		return nil, fiber.StatusInternalServerError, errors.New("An internal server error occurred.")
	}

	return refreshPayload, fiber.StatusOK, nil
}

// IssueSession creates an access/refresh token pair, records the refresh token and sets both cookies.
func IssueSession(c *fiber.Ctx, ctx *AppContext, userID uuid.UUID, email string) error {
	accessToken, err := ctx.PasetoMaker.CreateToken(token.AccessToken, userID, email, AccessTokenTTL)
	if err != nil {
		return err
	}
	refreshToken, err := ctx.PasetoMaker.CreateToken(token.RefreshToken, userID, email, RefreshTokenTTL)
	if err != nil {
		return err
	}

	if err := ctx.Sessions.Set(ctx.Ctx, refreshKey(refreshToken), userID.String(), RefreshTokenTTL); err != nil {
		return err
	}

	c.Cookie(sessionCookie(accessCookieName, accessToken, time.Now().Add(AccessTokenTTL), ctx.SecureCookies))
	c.Cookie(sessionCookie(refreshCookieName, refreshToken, time.Now().Add(RefreshTokenTTL), ctx.SecureCookies))
	return nil
}

// EndSession revokes the refresh token carried by the request and expires both cookies.
func EndSession(c *fiber.Ctx, ctx *AppContext) {
	if refreshToken := c.Cookies(refreshCookieName); refreshToken != "" {
		if err := ctx.Sessions.Del(ctx.Ctx, refreshKey(refreshToken)); err != nil {
			config.Logger.Error("Failed to delete refresh token during logout", zap.Error(err))
		}
	}

	past := time.Now().Add(-time.Hour)
	c.Cookie(sessionCookie(accessCookieName, "", past, ctx.SecureCookies))
	c.Cookie(sessionCookie(refreshCookieName, "", past, ctx.SecureCookies))
}

func sessionCookie(name, value string, expires time.Time, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
	}
}

// CurrentUser returns the token payload stored by ProtectedRoute.
func CurrentUser(c *fiber.Ctx) (*token.Payload, bool) {
	payload, ok := c.Locals("user").(*token.Payload)
	return payload, ok && payload != nil
}

// CurrentProfile returns the caller's profile stored by ProtectedRoute.
func CurrentProfile(c *fiber.Ctx) (*models.Profile, bool) {
	profile, ok := c.Locals("profile").(*models.Profile)
	return profile, ok && profile != nil
}

// RequireAdmin rejects callers whose profile role is not admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, ok := CurrentProfile(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}
		if !profile.IsAdmin() {
			config.Logger.Warn("Non-admin attempted admin route",
				zap.String("user_id", profile.ID.String()),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Admin permission required",
				"error":   "forbidden",
			})
		}
		return c.Next()
	}
}
