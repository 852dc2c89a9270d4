package models

import (
	"fmt"
	"time"
)

// ReportStatus is the moderation state of a report. PENDING is the only
// non-terminal state.
type ReportStatus string

const (
	ReportPending  ReportStatus = "PENDING"
	ReportAccepted ReportStatus = "ACCEPTED"
	ReportRejected ReportStatus = "REJECTED"
)

// ParseReportStatus accepts the symbolic name of a status.
func ParseReportStatus(s string) (ReportStatus, error) {
	switch ReportStatus(s) {
	case ReportPending, ReportAccepted, ReportRejected:
		return ReportStatus(s), nil
	default:
		return "", fmt.Errorf("unknown report status %q", s)
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s ReportStatus) Terminal() bool {
	switch s {
	case ReportAccepted, ReportRejected:
		return true
	case ReportPending:
		return false
	default:
		return true
	}
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s ReportStatus) CanTransition(next ReportStatus) bool {
	switch s {
	case ReportPending:
		return next == ReportAccepted || next == ReportRejected
	case ReportAccepted, ReportRejected:
		return false
	default:
		return false
	}
}

// ReportKind tells which content a report targets.
type ReportKind string

const (
	ReportKindDiscussion ReportKind = "discussion"
	ReportKindAnswer     ReportKind = "answer"
	ReportKindComment    ReportKind = "comment"
)

// ParseReportKind maps a path segment to a ReportKind. Plural forms are
// accepted as well.
func ParseReportKind(s string) (ReportKind, error) {
	switch s {
	case "discussion", "discussions":
		return ReportKindDiscussion, nil
	case "answer", "answers":
		return ReportKindAnswer, nil
	case "comment", "comments":
		return ReportKindComment, nil
	default:
		return "", fmt.Errorf("unknown report kind %q", s)
	}
}

// AnyReport is implemented by the three report records.
type AnyReport interface {
	ReportKind() ReportKind
	ReportID() uint
	TargetID() uint
	ReportStatus() ReportStatus
}

// Report flags a discussion.
type Report struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	DiscussionID uint         `gorm:"column:discussionid;index;not null" json:"discussionid"`
	Discussion   *Discussion  `gorm:"foreignKey:DiscussionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Reason       string       `gorm:"size:250;not null" json:"reason"`
	Kind         ReportKind   `gorm:"size:20;not null;default:'discussion'" json:"tipo"`
	Status       ReportStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	User         string       `gorm:"size:50;not null" json:"user"`
	CreatedAt    time.Time    `json:"timestamp"`
}

func (r *Report) ReportKind() ReportKind     { return ReportKindDiscussion }
func (r *Report) ReportID() uint             { return r.ID }
func (r *Report) TargetID() uint             { return r.DiscussionID }
func (r *Report) ReportStatus() ReportStatus { return r.Status }

// ReportAnswer flags an answer.
type ReportAnswer struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	AnswerID  uint         `gorm:"column:answerid;index;not null" json:"answerid"`
	Answer    *Answer      `gorm:"foreignKey:AnswerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Reason    string       `gorm:"size:250;not null" json:"reason"`
	Kind      ReportKind   `gorm:"size:20;not null;default:'answer'" json:"tipo"`
	Status    ReportStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	User      string       `gorm:"size:50;not null" json:"user"`
	CreatedAt time.Time    `json:"timestamp"`
}

func (r *ReportAnswer) ReportKind() ReportKind     { return ReportKindAnswer }
func (r *ReportAnswer) ReportID() uint             { return r.ID }
func (r *ReportAnswer) TargetID() uint             { return r.AnswerID }
func (r *ReportAnswer) ReportStatus() ReportStatus { return r.Status }

// ReportComment flags a comment.
type ReportComment struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CommentID uint         `gorm:"column:commentid;index;not null" json:"commentid"`
	Comment   *Comment     `gorm:"foreignKey:CommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Reason    string       `gorm:"size:250;not null" json:"reason"`
	Kind      ReportKind   `gorm:"size:20;not null;default:'comment'" json:"tipo"`
	Status    ReportStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	User      string       `gorm:"size:50;not null" json:"user"`
	CreatedAt time.Time    `json:"timestamp"`
}

func (r *ReportComment) ReportKind() ReportKind     { return ReportKindComment }
func (r *ReportComment) ReportID() uint             { return r.ID }
func (r *ReportComment) TargetID() uint             { return r.CommentID }
func (r *ReportComment) ReportStatus() ReportStatus { return r.Status }
