package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cppla/discuss/models"
	"github.com/cppla/discuss/store"
)

// ModerationService owns the report lifecycle and the removal of content
// when a report is accepted.
type ModerationService struct {
	base
}

// NewModerationService builds a ModerationService on st.
func NewModerationService(st *store.Store, logger *zap.Logger) *ModerationService {
	return &ModerationService{base: newBase(st, logger, "moderation")}
}

// PendingReports is the moderator work queue across all report kinds.
type PendingReports struct {
	Discussions []models.Report        `json:"discussions"`
	Answers     []models.ReportAnswer  `json:"answers"`
	Comments    []models.ReportComment `json:"comments"`
}

// Total is the number of reports waiting for a decision.
func (p PendingReports) Total() int {
	return len(p.Discussions) + len(p.Answers) + len(p.Comments)
}

// Resolution is the outcome of ResolveReport.
type Resolution struct {
	Report  models.AnyReport `json:"report"`
	Removed store.Removal    `json:"removed"`
}

type reportInput struct {
	reason string
	user   string
}

func cleanReport(field string, targetID uint, reason, user string) (reportInput, error) {
	if err := requireID(field, targetID); err != nil {
		return reportInput{}, err
	}
	reason, err := cleanText("reason", reason, maxReasonLen)
	if err != nil {
		return reportInput{}, err
	}
	user, err = cleanUser(user)
	if err != nil {
		return reportInput{}, err
	}
	return reportInput{reason: reason, user: user}, nil
}

// CreateReport flags a discussion for moderation.
func (s *ModerationService) CreateReport(ctx context.Context, discussionID uint, reason, user string) (*models.Report, error) {
	in, err := cleanReport("discussionid", discussionID, reason, user)
	if err != nil {
		return nil, err
	}
	r := &models.Report{
		DiscussionID: discussionID,
		Reason:       in.reason,
		Kind:         models.ReportKindDiscussion,
		Status:       models.ReportPending,
		User:         in.user,
	}
	err = s.unitOfWork(ctx, "create_report", func(tx *store.Tx) error {
		_, ok, err := tx.LockDiscussion(discussionID)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("discussion %d not found", discussionID)
		}
		return insertReport(tx.InsertReport(r), "discussion", discussionID)
	})
	if err != nil {
		return nil, err
	}
	s.logCreated(r)
	return r, nil
}

// CreateReportAnswer flags an answer for moderation.
func (s *ModerationService) CreateReportAnswer(ctx context.Context, answerID uint, reason, user string) (*models.ReportAnswer, error) {
	in, err := cleanReport("answerid", answerID, reason, user)
	if err != nil {
		return nil, err
	}
	r := &models.ReportAnswer{
		AnswerID: answerID,
		Reason:   in.reason,
		Kind:     models.ReportKindAnswer,
		Status:   models.ReportPending,
		User:     in.user,
	}
	err = s.unitOfWork(ctx, "create_report_answer", func(tx *store.Tx) error {
		_, ok, err := tx.LockAnswer(answerID)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("answer %d not found", answerID)
		}
		return insertReport(tx.InsertReportAnswer(r), "answer", answerID)
	})
	if err != nil {
		return nil, err
	}
	s.logCreated(r)
	return r, nil
}

// CreateReportComment flags a comment for moderation.
func (s *ModerationService) CreateReportComment(ctx context.Context, commentID uint, reason, user string) (*models.ReportComment, error) {
	in, err := cleanReport("commentid", commentID, reason, user)
	if err != nil {
		return nil, err
	}
	r := &models.ReportComment{
		CommentID: commentID,
		Reason:    in.reason,
		Kind:      models.ReportKindComment,
		Status:    models.ReportPending,
		User:      in.user,
	}
	err = s.unitOfWork(ctx, "create_report_comment", func(tx *store.Tx) error {
		_, ok, err := tx.LockComment(commentID)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("comment %d not found", commentID)
		}
		return insertReport(tx.InsertReportComment(r), "comment", commentID)
	})
	if err != nil {
		return nil, err
	}
	s.logCreated(r)
	return r, nil
}

func insertReport(err error, target string, id uint) error {
	if errors.Is(err, store.ErrConstraint) {
		return notFoundf("%s %d not found", target, id)
	}
	return err
}

func (s *ModerationService) logCreated(r models.AnyReport) {
	s.log.Info("report created",
		zap.String("kind", string(r.ReportKind())),
		zap.Uint("id", r.ReportID()),
		zap.Uint("target", r.TargetID()))
}

// ListReports returns every discussion report, newest first.
func (s *ModerationService) ListReports(ctx context.Context) ([]models.Report, error) {
	var out []models.Report
	err := s.unitOfWork(ctx, "list_reports", func(tx *store.Tx) error {
		var err error
		out, err = tx.ListReports("")
		return err
	})
	return out, err
}

// ListReportsForAnswers returns every answer report, newest first.
func (s *ModerationService) ListReportsForAnswers(ctx context.Context) ([]models.ReportAnswer, error) {
	var out []models.ReportAnswer
	err := s.unitOfWork(ctx, "list_reports_answers", func(tx *store.Tx) error {
		var err error
		out, err = tx.ListReportAnswers("")
		return err
	})
	return out, err
}

// ListReportsForComments returns every comment report, newest first.
func (s *ModerationService) ListReportsForComments(ctx context.Context) ([]models.ReportComment, error) {
	var out []models.ReportComment
	err := s.unitOfWork(ctx, "list_reports_comments", func(tx *store.Tx) error {
		var err error
		out, err = tx.ListReportComments("")
		return err
	})
	return out, err
}

// ListPendingReports collects the reports of every kind that still await a
// decision, read in a single unit of work.
func (s *ModerationService) ListPendingReports(ctx context.Context) (PendingReports, error) {
	var out PendingReports
	err := s.unitOfWork(ctx, "list_pending_reports", func(tx *store.Tx) error {
		var err error
		if out.Discussions, err = tx.ListReports(models.ReportPending); err != nil {
			return err
		}
		if out.Answers, err = tx.ListReportAnswers(models.ReportPending); err != nil {
			return err
		}
		out.Comments, err = tx.ListReportComments(models.ReportPending)
		return err
	})
	return out, err
}

// GetReportByID returns a report of the given kind. A missing report is
// found=false, not an error.
func (s *ModerationService) GetReportByID(ctx context.Context, kind models.ReportKind, id uint) (models.AnyReport, bool, error) {
	if err := validKind(kind); err != nil {
		return nil, false, err
	}
	if err := requireID("id", id); err != nil {
		return nil, false, err
	}
	var (
		r  models.AnyReport
		ok bool
	)
	err := s.unitOfWork(ctx, "get_report", func(tx *store.Tx) error {
		var err error
		r, ok, err = tx.GetReport(kind, id, false)
		return err
	})
	return r, ok, err
}

// ResolveReport moves a pending report to ACCEPTED or REJECTED. Accepting
// removes the reported content and everything under it in the same unit of
// work, so readers see either the pending report with the content or the
// accepted report without it.
func (s *ModerationService) ResolveReport(ctx context.Context, kind models.ReportKind, id uint, status models.ReportStatus) (*Resolution, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	switch status {
	case models.ReportAccepted, models.ReportRejected:
	case models.ReportPending:
		return nil, validationf("a report cannot be moved back to %s", status)
	default:
		return nil, validationf("unknown report status %q", status)
	}

	res := &Resolution{}
	err := s.unitOfWork(ctx, "resolve_report", func(tx *store.Tx) error {
		current, ok, err := tx.GetReport(kind, id, true)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("%s report %d not found", kind, id)
		}
		if !current.ReportStatus().CanTransition(status) {
			return conflictf("%s report %d is already %s", kind, id, current.ReportStatus())
		}
		err = tx.TransitionReport(kind, id, models.ReportPending, status)
		if errors.Is(err, store.ErrNoRowsAffected) {
			return conflictf("%s report %d was resolved concurrently", kind, id)
		}
		if err != nil {
			return err
		}

		switch status {
		case models.ReportAccepted:
			if res.Removed, err = removeTarget(tx, kind, current.TargetID()); err != nil {
				return err
			}
		case models.ReportRejected:
		}

		res.Report, _, err = tx.GetReport(kind, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("report resolved",
		zap.String("kind", string(kind)),
		zap.Uint("id", id),
		zap.String("status", string(status)),
		zap.Int64("removed_discussions", res.Removed.Discussions),
		zap.Int64("removed_answers", res.Removed.Answers),
		zap.Int64("removed_comments", res.Removed.Comments),
		zap.Int64("removed_votes", res.Removed.Votes))
	return res, nil
}

func removeTarget(tx *store.Tx, kind models.ReportKind, targetID uint) (store.Removal, error) {
	switch kind {
	case models.ReportKindDiscussion:
		return tx.RemoveDiscussion(targetID)
	case models.ReportKindAnswer:
		return tx.RemoveAnswer(targetID)
	case models.ReportKindComment:
		return tx.RemoveComment(targetID)
	default:
		return store.Removal{}, validationf("unknown report kind %q", kind)
	}
}

func validKind(kind models.ReportKind) error {
	switch kind {
	case models.ReportKindDiscussion, models.ReportKindAnswer, models.ReportKindComment:
		return nil
	default:
		return validationf("unknown report kind %q", kind)
	}
}
