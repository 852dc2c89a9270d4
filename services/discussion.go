package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/cppla/discuss/models"
	"github.com/cppla/discuss/store"
)

// DiscussionService creates and reads discussion threads.
type DiscussionService struct {
	base
}

// NewDiscussionService builds a DiscussionService on st.
func NewDiscussionService(st *store.Store, logger *zap.Logger) *DiscussionService {
	return &DiscussionService{base: newBase(st, logger, "discussions")}
}

// CreateDiscussion opens a new thread owned by user.
func (s *DiscussionService) CreateDiscussion(ctx context.Context, title, content, user string) (*models.Discussion, error) {
	title, err := cleanText("title", title, maxTitleLen)
	if err != nil {
		return nil, err
	}
	content, err = cleanMarkup("content", content)
	if err != nil {
		return nil, err
	}
	user, err = cleanUser(user)
	if err != nil {
		return nil, err
	}

	d := &models.Discussion{Title: title, Content: content, User: user}
	err = s.unitOfWork(ctx, "create_discussion", func(tx *store.Tx) error {
		return tx.InsertDiscussion(d)
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("discussion created", zap.Uint("id", d.ID), zap.String("user", user))
	return d, nil
}

// GetDiscussion returns the discussion with the given id, or found=false
// when it does not exist or was removed by moderation.
func (s *DiscussionService) GetDiscussion(ctx context.Context, id uint) (*models.Discussion, bool, error) {
	if err := requireID("id", id); err != nil {
		return nil, false, err
	}
	var (
		d  *models.Discussion
		ok bool
	)
	err := s.unitOfWork(ctx, "get_discussion", func(tx *store.Tx) error {
		var err error
		d, ok, err = tx.GetDiscussion(id)
		return err
	})
	return d, ok, err
}

// ListDiscussions returns every visible discussion, newest first.
func (s *DiscussionService) ListDiscussions(ctx context.Context) ([]models.Discussion, error) {
	var out []models.Discussion
	err := s.unitOfWork(ctx, "list_discussions", func(tx *store.Tx) error {
		var err error
		out, err = tx.ListDiscussions()
		return err
	})
	return out, err
}
