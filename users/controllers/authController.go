package controllers

import (
	"errors"
	"strings"
	"time"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/middleware"
	"movein-backend/notifications"
	"movein-backend/users/repositories"
	"movein-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthController is the identity boundary: register, sign-in, sign-out and email verification.
type AuthController struct {
	UserRepo     repositories.UserRepository
	Sessions     *services.SessionService
	Verification *services.VerificationService
	AppCtx       *middleware.AppContext
	Notifier     notifications.Notifier
	BaseURL      string
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req services.RegistrationInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}

	if msg := services.ValidateRegistration(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   msg,
		})
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		config.Logger.Error("Failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Registration failed",
			"error":   "An internal server error occurred.",
		})
	}

	account, err := ac.UserRepo.CreateAccount(&models.Account{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Registration failed",
				"error":   "This email is already registered.",
			})
		}
		config.Logger.Error("Failed to create account", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Registration failed",
			"error":   "An internal server error occurred.",
		})
	}

	ac.sendVerification(c, account)

	config.Logger.Info("Account registered", zap.String("user_id", account.ID.String()))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration complete. Check your email to confirm your address.",
		"data": fiber.Map{
			"id":    account.ID,
			"email": account.Email,
		},
	})
}

// sendVerification issues a token and queues the email. Failures are logged; the
// user can always ask for another link.
func (ac *AuthController) sendVerification(c *fiber.Ctx, account *models.Account) {
	tok, err := ac.Verification.Issue(c.Context(), account.ID)
	if err != nil {
		config.Logger.Error("Failed to issue verification token", zap.String("user_id", account.ID.String()), zap.Error(err))
		return
	}
	link := services.VerificationLink(ac.BaseURL, tok)
	if err := ac.Notifier.VerificationRequested(c.Context(), account.Email, services.DisplayName(account.Name, account.Email), link); err != nil {
		config.Logger.Error("Failed to queue verification email", zap.String("user_id", account.ID.String()), zap.Error(err))
	}
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		config.Logger.Error("Error parsing login request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Invalid request format.",
		})
	}

	account, err := ac.UserRepo.GetAccountByEmail(req.Email)
	if err != nil || !services.CheckPasswordHash(req.Password, account.PasswordHash) {
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			config.Logger.Error("Login attempt: database error", zap.String("email", req.Email), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Authentication failed",
				"error":   "An internal server error occurred.",
			})
		}
		config.Logger.Warn("Login attempt: invalid credentials", zap.String("email", req.Email))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Authentication failed",
			"error":   "Invalid email or password.",
		})
	}

	if !account.IsVerified() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Email not confirmed. Check your inbox or request a new confirmation email.",
			"data":    fiber.Map{"can_resend_verification": true},
			"error":   "email_not_confirmed",
		})
	}

	profile, err := ac.Sessions.ResolveProfile(account.ID, account.Email)
	if err != nil {
		config.Logger.Error("Failed to resolve profile at login", zap.String("user_id", account.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Authentication failed",
			"error":   "An internal server error occurred.",
		})
	}

	if err := middleware.IssueSession(c, ac.AppCtx, account.ID, account.Email); err != nil {
		config.Logger.Error("Failed to issue session", zap.String("user_id", account.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Authentication failed",
			"error":   "An internal server error occurred.",
		})
	}

	if err := ac.UserRepo.TouchLastLogin(account.ID, time.Now()); err != nil {
		config.Logger.Warn("Failed to record last login", zap.String("user_id", account.ID.String()), zap.Error(err))
	}

	config.Logger.Info("User logged in", zap.String("user_id", account.ID.String()), zap.String("role", string(profile.Role)))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"profile":  profile,
			"role":     profile.Role,
			"redirect": services.HomeRoute(profile),
		},
	})
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	middleware.EndSession(c, ac.AppCtx)

	config.Logger.Info("User logged out successfully", zap.String("client_ip", c.IP()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ResendVerification answers the same way for unknown and verified emails so
// the endpoint cannot be used to probe which addresses are registered.
func (ac *AuthController) ResendVerification(c *fiber.Ctx) error {
	type ResendRequest struct {
		Email string `json:"email"`
	}

	var req ResendRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   "Email is required.",
		})
	}

	account, err := ac.UserRepo.GetAccountByEmail(req.Email)
	switch {
	case err == nil && !account.IsVerified():
		ac.sendVerification(c, account)
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		config.Logger.Error("Failed to look up account for verification resend", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not resend confirmation email",
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "If the address is registered and unconfirmed, a new confirmation email is on its way.",
	})
}

func (ac *AuthController) VerifyEmail(c *fiber.Ctx) error {
	accountID, err := ac.Verification.Consume(c.Context(), c.Query("token"))
	if err != nil {
		if errors.Is(err, services.ErrVerificationTokenInvalid) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Verification failed",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Failed to redeem verification token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Verification failed",
			"error":   "An internal server error occurred.",
		})
	}

	if err := ac.UserRepo.MarkEmailVerified(accountID, time.Now()); err != nil {
		config.Logger.Error("Failed to mark email verified", zap.String("user_id", accountID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Verification failed",
			"error":   "An internal server error occurred.",
		})
	}

	config.Logger.Info("Email verified", zap.String("user_id", accountID.String()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email confirmed. You can now sign in.",
	})
}
