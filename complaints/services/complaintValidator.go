package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"movein-backend/db/models"

	"github.com/google/uuid"
)

const MaxTitleLength = 255

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

type ComplaintInput struct {
	Title       string                   `json:"title"`
	Content     string                   `json:"content"`
	Category    models.ComplaintCategory `json:"category"`
	Priority    models.ComplaintPriority `json:"priority"`
	IsAnonymous bool                     `json:"is_anonymous"`
}

// ValidateComplaint trims the input in place and fills the default priority.
func ValidateComplaint(in *ComplaintInput) *ValidationError {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	switch {
	case in.Title == "":
		return &ValidationError{Field: "title", Message: "is required"}
	case utf8.RuneCountInString(in.Title) > MaxTitleLength:
		return &ValidationError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	case in.Content == "":
		return &ValidationError{Field: "content", Message: "is required"}
	case in.Category == "":
		return &ValidationError{Field: "category", Message: "is required"}
	case !in.Category.Valid():
		return &ValidationError{Field: "category", Message: "is not a known category"}
	}

	if in.Priority == "" {
		in.Priority = models.NormalPriority
	}
	if !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "must be low, normal, high or urgent"}
	}
	return nil
}

func BuildComplaint(userID uuid.UUID, in ComplaintInput) *models.Complaint {
	return &models.Complaint{
		UserID:      userID,
		Title:       in.Title,
		Content:     in.Content,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      models.ComplaintPending,
		IsAnonymous: in.IsAnonymous,
	}
}
