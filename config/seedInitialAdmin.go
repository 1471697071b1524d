package config

import (
	"errors"
	"fmt"
	"time"

	"movein-backend/db/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedInitialAdmin creates the first administrator account and profile. There is no
// self-service path to the admin role, so the first one comes from configuration.
// Running it again for an existing email only promotes the profile.
func SeedInitialAdmin(db *gorm.DB, email, password string) error {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		Logger.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping initial admin seed")
		return nil
	}

	var account models.Account
	err := db.Where("email = ?", email).First(&account).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("error checking for existing admin account: %w", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		now := time.Now()
		account = models.Account{
			Email:           email,
			PasswordHash:    string(hashedPassword),
			Name:            "Administrator",
			EmailVerifiedAt: &now,
		}
		if err := db.Create(&account).Error; err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
		Logger.Info("Initial admin account created", zap.String("email", email))
	}

	profile := models.Profile{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  models.AdminRole,
	}
	err = db.Where(models.Profile{ID: account.ID}).
		Assign(map[string]interface{}{"role": models.AdminRole}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	return nil
}
