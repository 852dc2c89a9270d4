package models

import (
	"time"

	"gorm.io/gorm"
)

// Discussion is the root of a thread. It owns answers, which own comments.
type Discussion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	User      string         `gorm:"size:50;not null;index" json:"user"`
	CreatedAt time.Time      `json:"timestamp"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
