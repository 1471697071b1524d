package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"movein-backend/db/models"
)

// NoticeInput is the create/edit form. IsPublished is a pointer so a missing
// value on create can default to published.
type NoticeInput struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsImportant bool   `json:"is_important"`
	IsPublished *bool  `json:"is_published"`
}

// ValidateNotice returns an error message, or "" when the input is acceptable.
func ValidateNotice(in NoticeInput) string {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "Title is required"
	}
	if utf8.RuneCountInString(title) > models.NoticeTitleMaxLength {
		return fmt.Sprintf("Title must be at most %d characters", models.NoticeTitleMaxLength)
	}
	if strings.TrimSpace(in.Content) == "" {
		return "Content is required"
	}
	return ""
}

// Published resolves the publish flag, defaulting to true.
func (in NoticeInput) Published() bool {
	if in.IsPublished == nil {
		return true
	}
	return *in.IsPublished
}
