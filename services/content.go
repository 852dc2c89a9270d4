package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cppla/discuss/models"
	"github.com/cppla/discuss/store"
)

// ContentService manages answers, comments and their votes.
type ContentService struct {
	base
}

// NewContentService builds a ContentService on st.
func NewContentService(st *store.Store, logger *zap.Logger) *ContentService {
	return &ContentService{base: newBase(st, logger, "content")}
}

// CreateAnswer posts an answer to a discussion.
func (s *ContentService) CreateAnswer(ctx context.Context, discussionID uint, content, user string) (*models.Answer, error) {
	if err := requireID("discussionid", discussionID); err != nil {
		return nil, err
	}
	content, err := cleanMarkup("content", content)
	if err != nil {
		return nil, err
	}
	user, err = cleanUser(user)
	if err != nil {
		return nil, err
	}

	a := &models.Answer{DiscussionID: discussionID, Content: content, User: user}
	err = s.unitOfWork(ctx, "create_answer", func(tx *store.Tx) error {
		_, ok, err := tx.LockDiscussion(discussionID)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("discussion %d not found", discussionID)
		}
		if err := tx.InsertAnswer(a); err != nil {
			if errors.Is(err, store.ErrConstraint) {
				return notFoundf("discussion %d not found", discussionID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("answer created", zap.Uint("id", a.ID), zap.Uint("discussionid", discussionID))
	return a, nil
}

// ListAnswersForDiscussion returns the visible answers of a discussion in
// insertion order, each carrying its vote count.
func (s *ContentService) ListAnswersForDiscussion(ctx context.Context, discussionID uint) ([]models.Answer, error) {
	if err := requireID("discussionid", discussionID); err != nil {
		return nil, err
	}
	var out []models.Answer
	err := s.unitOfWork(ctx, "list_answers", func(tx *store.Tx) error {
		var err error
		if out, err = tx.ListAnswers(discussionID); err != nil {
			return err
		}
		return fillAnswerVotes(tx, out)
	})
	return out, err
}

// GetAnswer returns the first answer posted to a discussion.
func (s *ContentService) GetAnswer(ctx context.Context, discussionID uint) (*models.Answer, bool, error) {
	if err := requireID("discussionid", discussionID); err != nil {
		return nil, false, err
	}
	var (
		a  *models.Answer
		ok bool
	)
	err := s.unitOfWork(ctx, "get_answer", func(tx *store.Tx) error {
		var err error
		if a, ok, err = tx.FirstAnswer(discussionID); err != nil || !ok {
			return err
		}
		a.Votes, err = tx.CountAnswerVotes(a.ID)
		return err
	})
	return a, ok, err
}

// GetAnswerByID returns one answer by its own id.
func (s *ContentService) GetAnswerByID(ctx context.Context, id uint) (*models.Answer, bool, error) {
	if err := requireID("id", id); err != nil {
		return nil, false, err
	}
	var (
		a  *models.Answer
		ok bool
	)
	err := s.unitOfWork(ctx, "get_answer_by_id", func(tx *store.Tx) error {
		var err error
		if a, ok, err = tx.GetAnswer(id); err != nil || !ok {
			return err
		}
		a.Votes, err = tx.CountAnswerVotes(a.ID)
		return err
	})
	return a, ok, err
}

// VoteAnswer records one vote for an answer and returns its new tally.
func (s *ContentService) VoteAnswer(ctx context.Context, answerID uint) (int64, error) {
	if err := requireID("answerid", answerID); err != nil {
		return 0, err
	}
	var votes int64
	err := s.unitOfWork(ctx, "vote_answer", func(tx *store.Tx) error {
		_, ok, err := tx.LockAnswer(answerID)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("answer %d not found", answerID)
		}
		if err := tx.InsertVoteAnswer(&models.VoteAnswer{AnswerID: answerID}); err != nil {
			if errors.Is(err, store.ErrConstraint) {
				return notFoundf("answer %d not found", answerID)
			}
			return err
		}
		votes, err = tx.CountAnswerVotes(answerID)
		return err
	})
	return votes, err
}

// CreateComment posts a comment under an answer. The answer must belong to
// discussionID, which is stored on the comment as given.
func (s *ContentService) CreateComment(ctx context.Context, discussionID, answerID uint, content, user string) (*models.Comment, error) {
	if err := requireID("discussionid", discussionID); err != nil {
		return nil, err
	}
	if err := requireID("answerid", answerID); err != nil {
		return nil, err
	}
	content, err := cleanMarkup("content", content)
	if err != nil {
		return nil, err
	}
	user, err = cleanUser(user)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{DiscussionID: discussionID, AnswerID: answerID, Content: content, User: user}
	err = s.unitOfWork(ctx, "create_comment", func(tx *store.Tx) error {
		a, ok, err := tx.LockAnswer(answerID)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("answer %d not found", answerID)
		}
		if a.DiscussionID != discussionID {
			return notFoundf("answer %d not found in discussion %d", answerID, discussionID)
		}
		if err := tx.InsertComment(c); err != nil {
			if errors.Is(err, store.ErrConstraint) {
				return notFoundf("answer %d not found", answerID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("comment created", zap.Uint("id", c.ID), zap.Uint("answerid", answerID))
	return c, nil
}

// ListCommentsForDiscussion returns every visible comment recorded under a
// discussion, with vote counts.
func (s *ContentService) ListCommentsForDiscussion(ctx context.Context, discussionID uint) ([]models.Comment, error) {
	if err := requireID("discussionid", discussionID); err != nil {
		return nil, err
	}
	var out []models.Comment
	err := s.unitOfWork(ctx, "list_comments_for_discussion", func(tx *store.Tx) error {
		var err error
		if out, err = tx.ListCommentsByDiscussion(discussionID); err != nil {
			return err
		}
		return fillCommentVotes(tx, out)
	})
	return out, err
}

// ListCommentsForAnswer returns the visible comments of an answer, with
// vote counts.
func (s *ContentService) ListCommentsForAnswer(ctx context.Context, answerID uint) ([]models.Comment, error) {
	if err := requireID("answerid", answerID); err != nil {
		return nil, err
	}
	var out []models.Comment
	err := s.unitOfWork(ctx, "list_comments_for_answer", func(tx *store.Tx) error {
		var err error
		if out, err = tx.ListCommentsByAnswer(answerID); err != nil {
			return err
		}
		return fillCommentVotes(tx, out)
	})
	return out, err
}

// GetComment returns the comments of an answer recorded under a discussion.
func (s *ContentService) GetComment(ctx context.Context, discussionID, answerID uint) ([]models.Comment, error) {
	if err := requireID("discussionid", discussionID); err != nil {
		return nil, err
	}
	if err := requireID("answerid", answerID); err != nil {
		return nil, err
	}
	var out []models.Comment
	err := s.unitOfWork(ctx, "get_comment", func(tx *store.Tx) error {
		var err error
		if out, err = tx.ListCommentsByDiscussionAndAnswer(discussionID, answerID); err != nil {
			return err
		}
		return fillCommentVotes(tx, out)
	})
	return out, err
}

// VoteComment records one vote for a comment and returns its new tally.
func (s *ContentService) VoteComment(ctx context.Context, commentID uint) (int64, error) {
	if err := requireID("commentid", commentID); err != nil {
		return 0, err
	}
	var votes int64
	err := s.unitOfWork(ctx, "vote_comment", func(tx *store.Tx) error {
		_, ok, err := tx.LockComment(commentID)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("comment %d not found", commentID)
		}
		if err := tx.InsertVoteComment(&models.VoteComment{CommentID: commentID}); err != nil {
			if errors.Is(err, store.ErrConstraint) {
				return notFoundf("comment %d not found", commentID)
			}
			return err
		}
		votes, err = tx.CountCommentVotes(commentID)
		return err
	})
	return votes, err
}

// GetVoteCount returns how many votes a target has received.
func (s *ContentService) GetVoteCount(ctx context.Context, targetID uint, kind models.VoteKind) (int64, error) {
	if err := requireID("id", targetID); err != nil {
		return 0, err
	}
	var votes int64
	err := s.unitOfWork(ctx, "get_vote_count", func(tx *store.Tx) error {
		var err error
		switch kind {
		case models.VoteKindAnswer:
			votes, err = tx.CountAnswerVotes(targetID)
		case models.VoteKindComment:
			votes, err = tx.CountCommentVotes(targetID)
		default:
			err = validationf("unknown vote kind %q", kind)
		}
		return err
	})
	return votes, err
}

func fillAnswerVotes(tx *store.Tx, answers []models.Answer) error {
	ids := make([]uint, len(answers))
	for i := range answers {
		ids[i] = answers[i].ID
	}
	tally, err := tx.AnswerVoteTallies(ids)
	if err != nil {
		return err
	}
	for i := range answers {
		answers[i].Votes = tally[answers[i].ID]
	}
	return nil
}

func fillCommentVotes(tx *store.Tx, comments []models.Comment) error {
	ids := make([]uint, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	tally, err := tx.CommentVoteTallies(ids)
	if err != nil {
		return err
	}
	for i := range comments {
		comments[i].Votes = tally[comments[i].ID]
	}
	return nil
}
