package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const NoticeTitleMaxLength = 255

// Notice is a building announcement. Only published notices are visible to tenants.
type Notice struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	IsImportant bool      `gorm:"not null" json:"is_important"`
	IsPublished bool      `gorm:"not null;index" json:"is_published"`
	ViewCount   int       `gorm:"not null;default:0" json:"view_count"`

	Author *Profile `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
