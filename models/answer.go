package models

import (
	"time"

	"gorm.io/gorm"
)

// Answer is a top-level response to a Discussion.
type Answer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	DiscussionID uint           `gorm:"column:discussionid;index;not null" json:"discussionid"`
	Discussion   *Discussion    `gorm:"foreignKey:DiscussionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	User         string         `gorm:"size:50;not null" json:"user"`
	CreatedAt    time.Time      `json:"timestamp"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// filled on read from vote_answers
	Votes int64 `gorm:"-" json:"votes"`
}
