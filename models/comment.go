package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a response to an Answer. DiscussionID is copied from the
// request at creation time and never rewritten.
type Comment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	DiscussionID uint           `gorm:"column:discussionid;index;not null" json:"discussionid"`
	AnswerID     uint           `gorm:"column:answerid;index;not null" json:"answerid"`
	Answer       *Answer        `gorm:"foreignKey:AnswerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	User         string         `gorm:"size:50;not null" json:"user"`
	CreatedAt    time.Time      `json:"timestamp"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Votes        int64          `gorm:"-" json:"votes"`
}
