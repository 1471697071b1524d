package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmailFormat(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

type RegistrationInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

func ValidateRegistration(in RegistrationInput) string {
	if strings.TrimSpace(in.Email) == "" {
		return "Email is required"
	}
	if !ValidateEmailFormat(in.Email) {
		return "Email format is invalid"
	}
	if msg := ValidatePassword(in.Password); msg != "" {
		return msg
	}
	if strings.TrimSpace(in.Name) == "" {
		return "Name is required"
	}
	return ValidateProfileFields(in.Name, in.Phone)
}

func ValidateProfileFields(name, phone string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required"
	}
	if utf8.RuneCountInString(name) > 100 {
		return "Name must be at most 100 characters"
	}
	if utf8.RuneCountInString(phone) > 30 {
		return "Phone must be at most 30 characters"
	}
	return ""
}
