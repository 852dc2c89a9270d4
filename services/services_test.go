package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cppla/discuss/models"
	"github.com/cppla/discuss/store"
	"github.com/cppla/discuss/testutil"
)

type fixture struct {
	ctx         context.Context
	store       *store.Store
	discussions *DiscussionService
	content     *ContentService
	moderation  *ModerationService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithLogger(t, zap.NewNop())
}

func newFixtureWithLogger(t *testing.T, logger *zap.Logger) *fixture {
	t.Helper()
	st := store.New(testutil.NewDB(t))
	return &fixture{
		ctx:         context.Background(),
		store:       st,
		discussions: NewDiscussionService(st, logger),
		content:     NewContentService(st, logger),
		moderation:  NewModerationService(st, logger),
	}
}

func (f *fixture) discussion(t *testing.T) *models.Discussion {
	t.Helper()
	d, err := f.discussions.CreateDiscussion(f.ctx, "How do I reset my router", "It keeps dropping.", "alice")
	require.NoError(t, err)
	return d
}

func (f *fixture) answer(t *testing.T, discussionID uint) *models.Answer {
	t.Helper()
	a, err := f.content.CreateAnswer(f.ctx, discussionID, "Hold the button for ten seconds.", "bob")
	require.NoError(t, err)
	return a
}

func (f *fixture) comment(t *testing.T, discussionID, answerID uint) *models.Comment {
	t.Helper()
	c, err := f.content.CreateComment(f.ctx, discussionID, answerID, "Worked for me", "carol")
	require.NoError(t, err)
	return c
}
