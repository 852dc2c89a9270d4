package models

import (
	"fmt"
	"time"
)

// VoteKind names the kind of content a vote targets.
type VoteKind string

const (
	VoteKindAnswer  VoteKind = "answer"
	VoteKindComment VoteKind = "comment"
)

// ParseVoteKind maps a path segment to a VoteKind.
func ParseVoteKind(s string) (VoteKind, error) {
	switch VoteKind(s) {
	case VoteKindAnswer, VoteKindComment:
		return VoteKind(s), nil
	default:
		return "", fmt.Errorf("unknown vote kind %q", s)
	}
}

// VoteAnswer is one approval cast on an answer. Votes are append-only and
// the tally of an answer is its row count.
type VoteAnswer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"column:answerid;index;not null" json:"answerid"`
	Answer    *Answer   `gorm:"foreignKey:AnswerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"timestamp"`
}

// VoteComment is one approval cast on a comment.
type VoteComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"column:commentid;index;not null" json:"commentid"`
	Comment   *Comment  `gorm:"foreignKey:CommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"timestamp"`
}
