package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cppla/discuss/models"
	"github.com/cppla/discuss/store"
)

func TestAcceptAnswerReportHidesAnswer(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)

	a, err := f.content.CreateAnswer(f.ctx, d.ID, "hello", "alice")
	require.NoError(t, err)
	require.Equal(t, d.ID, a.DiscussionID)

	for i := 0; i < 2; i++ {
		_, err = f.content.VoteAnswer(f.ctx, a.ID)
		require.NoError(t, err)
	}
	n, err := f.content.GetVoteCount(f.ctx, a.ID, models.VoteKindAnswer)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	report, err := f.moderation.CreateReportAnswer(f.ctx, a.ID, "spam", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, models.ReportKindAnswer, report.Kind)

	res, err := f.moderation.ResolveReport(f.ctx, models.ReportKindAnswer, report.ID, models.ReportAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ReportAccepted, res.Report.ReportStatus())
	assert.Equal(t, store.Removal{Answers: 1, Votes: 2}, res.Removed)

	answers, err := f.content.ListAnswersForDiscussion(f.ctx, d.ID)
	require.NoError(t, err)
	for _, got := range answers {
		assert.NotEqual(t, a.ID, got.ID)
	}

	_, ok, err := f.content.GetAnswerByID(f.ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.content.VoteAnswer(f.ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.moderation.CreateReportAnswer(f.ctx, a.ID, "again", "dave")
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok, err = f.discussions.GetDiscussion(f.ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolveTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)
	r, err := f.moderation.CreateReport(f.ctx, d.ID, "off topic", "bob")
	require.NoError(t, err)

	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID, models.ReportRejected)
	require.NoError(t, err)

	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID, models.ReportAccepted)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID, models.ReportRejected)
	assert.ErrorIs(t, err, ErrConflict)

	got, ok, err := f.moderation.GetReportByID(f.ctx, models.ReportKindDiscussion, r.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.ReportRejected, got.ReportStatus())
}

func TestRejectKeepsContent(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)
	a := f.answer(t, d.ID)
	c := f.comment(t, d.ID, a.ID)

	r, err := f.moderation.CreateReportComment(f.ctx, c.ID, "rude", "bob")
	require.NoError(t, err)

	res, err := f.moderation.ResolveReport(f.ctx, models.ReportKindComment, r.ID, models.ReportRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ReportRejected, res.Report.ReportStatus())
	assert.Equal(t, store.Removal{}, res.Removed)

	comments, err := f.content.ListCommentsForAnswer(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestAcceptDiscussionReportRemovesSubtree(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)
	keep := f.discussion(t)
	a1 := f.answer(t, d.ID)
	a2 := f.answer(t, d.ID)
	c := f.comment(t, d.ID, a1.ID)
	f.comment(t, d.ID, a2.ID)
	other := f.answer(t, keep.ID)

	_, err := f.content.VoteComment(f.ctx, c.ID)
	require.NoError(t, err)
	_, err = f.content.VoteAnswer(f.ctx, a2.ID)
	require.NoError(t, err)

	r, err := f.moderation.CreateReport(f.ctx, d.ID, "scam", "bob")
	require.NoError(t, err)
	pendingAnswer, err := f.moderation.CreateReportAnswer(f.ctx, a1.ID, "spam", "carol")
	require.NoError(t, err)

	res, err := f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID, models.ReportAccepted)
	require.NoError(t, err)
	assert.Equal(t, store.Removal{Discussions: 1, Answers: 2, Comments: 2, Votes: 2}, res.Removed)

	_, ok, err := f.discussions.GetDiscussion(f.ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	answers, err := f.content.ListAnswersForDiscussion(f.ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)
	comments, err := f.content.ListCommentsForDiscussion(f.ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = f.content.CreateAnswer(f.ctx, d.ID, "late", "eve")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.content.CreateComment(f.ctx, d.ID, a1.ID, "late", "eve")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.discussions.ListDiscussions(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
	answers, err = f.content.ListAnswersForDiscussion(f.ctx, keep.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, other.ID, answers[0].ID)

	// The report on the removed answer stays resolvable; accepting it removes nothing.
	res, err = f.moderation.ResolveReport(f.ctx, models.ReportKindAnswer, pendingAnswer.ID, models.ReportAccepted)
	require.NoError(t, err)
	assert.Equal(t, store.Removal{}, res.Removed)

	reports, err := f.moderation.ListReports(f.ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, models.ReportAccepted, reports[0].Status)
}

func TestAcceptCommentReportRemovesOnlyComment(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)
	a := f.answer(t, d.ID)
	c1 := f.comment(t, d.ID, a.ID)
	c2 := f.comment(t, d.ID, a.ID)
	_, err := f.content.VoteComment(f.ctx, c1.ID)
	require.NoError(t, err)

	r, err := f.moderation.CreateReportComment(f.ctx, c1.ID, "abuse", "bob")
	require.NoError(t, err)
	res, err := f.moderation.ResolveReport(f.ctx, models.ReportKindComment, r.ID, models.ReportAccepted)
	require.NoError(t, err)
	assert.Equal(t, store.Removal{Comments: 1, Votes: 1}, res.Removed)

	comments, err := f.content.ListCommentsForAnswer(f.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, c2.ID, comments[0].ID)

	_, ok, err := f.content.GetAnswerByID(f.ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := f.content.GetVoteCount(f.ctx, c1.ID, models.VoteKindComment)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResolveReportValidation(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)
	r, err := f.moderation.CreateReport(f.ctx, d.ID, "spam", "bob")
	require.NoError(t, err)

	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID, models.ReportPending)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID, models.ReportStatus("CLOSED"))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKind("vote"), r.ID, models.ReportAccepted)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, 0, models.ReportAccepted)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID+100, models.ReportAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindAnswer, r.ID, models.ReportAccepted)
	assert.ErrorIs(t, err, ErrNotFound)

	got, ok, err := f.moderation.GetReportByID(f.ctx, models.ReportKindDiscussion, r.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.ReportPending, got.ReportStatus())
}

func TestCreateReportValidation(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)

	_, err := f.moderation.CreateReport(f.ctx, d.ID, "", "bob")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.moderation.CreateReport(f.ctx, d.ID, "spam", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.moderation.CreateReport(f.ctx, 0, "spam", "bob")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.moderation.CreateReport(f.ctx, d.ID+100, "spam", "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.moderation.CreateReportAnswer(f.ctx, 9999, "spam", "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.moderation.CreateReportComment(f.ctx, 9999, "spam", "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	reports, err := f.moderation.ListReports(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestGetReportByIDMissing(t *testing.T) {
	f := newFixture(t)

	r, ok, err := f.moderation.GetReportByID(f.ctx, models.ReportKindComment, 77)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, r)

	_, _, err = f.moderation.GetReportByID(f.ctx, models.ReportKind("post"), 77)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListPendingReports(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)
	a := f.answer(t, d.ID)
	c := f.comment(t, d.ID, a.ID)

	rd, err := f.moderation.CreateReport(f.ctx, d.ID, "spam", "bob")
	require.NoError(t, err)
	_, err = f.moderation.CreateReportAnswer(f.ctx, a.ID, "spam", "bob")
	require.NoError(t, err)
	_, err = f.moderation.CreateReportComment(f.ctx, c.ID, "spam", "bob")
	require.NoError(t, err)
	_, err = f.moderation.CreateReportComment(f.ctx, c.ID, "rude", "carol")
	require.NoError(t, err)

	pending, err := f.moderation.ListPendingReports(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, pending.Total())
	assert.Len(t, pending.Comments, 2)

	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, rd.ID, models.ReportRejected)
	require.NoError(t, err)

	pending, err = f.moderation.ListPendingReports(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pending.Total())
	assert.Empty(t, pending.Discussions)

	all, err := f.moderation.ListReportsForComments(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "carol", all[0].User)

	answers, err := f.moderation.ListReportsForAnswers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, answers, 1)
}

func TestConcurrentResolveSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	d := f.discussion(t)
	r, err := f.moderation.CreateReport(f.ctx, d.ID, "spam", "bob")
	require.NoError(t, err)

	const resolvers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < resolvers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID, models.ReportAccepted)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, resolvers-1, conflicts)
}

func TestResolveReportLogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := newFixtureWithLogger(t, zap.New(core))
	d := f.discussion(t)
	r, err := f.moderation.CreateReport(f.ctx, d.ID, "spam", "bob")
	require.NoError(t, err)

	_, err = f.moderation.ResolveReport(f.ctx, models.ReportKindDiscussion, r.ID, models.ReportAccepted)
	require.NoError(t, err)

	entries := logs.FilterMessage("report resolved").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ACCEPTED", fields["status"])
	assert.Equal(t, int64(1), fields["removed_discussions"])
	assert.Equal(t, "moderation", entries[0].LoggerName)
}
