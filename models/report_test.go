package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "ACCEPTED", "REJECTED"} {
		got, err := ParseReportStatus(s)
		require.NoError(t, err)
		assert.Equal(t, ReportStatus(s), got)
	}

	_, err := ParseReportStatus("accepted")
	assert.Error(t, err)
	_, err = ParseReportStatus("")
	assert.Error(t, err)
}

func TestReportStatusTransitions(t *testing.T) {
	assert.True(t, ReportPending.CanTransition(ReportAccepted))
	assert.True(t, ReportPending.CanTransition(ReportRejected))
	assert.False(t, ReportPending.CanTransition(ReportPending))

	for _, from := range []ReportStatus{ReportAccepted, ReportRejected} {
		assert.True(t, from.Terminal())
		for _, to := range []ReportStatus{ReportPending, ReportAccepted, ReportRejected} {
			assert.False(t, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, ReportPending.Terminal())
}

func TestParseReportKind(t *testing.T) {
	cases := map[string]ReportKind{
		"discussion":  ReportKindDiscussion,
		"discussions": ReportKindDiscussion,
		"answer":      ReportKindAnswer,
		"answers":     ReportKindAnswer,
		"comment":     ReportKindComment,
		"comments":    ReportKindComment,
	}
	for in, want := range cases {
		got, err := ParseReportKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseReportKind("vote")
	assert.Error(t, err)
}

func TestReportsImplementAnyReport(t *testing.T) {
	reports := []AnyReport{
		&Report{ID: 1, DiscussionID: 10, Status: ReportPending},
		&ReportAnswer{ID: 2, AnswerID: 20, Status: ReportAccepted},
		&ReportComment{ID: 3, CommentID: 30, Status: ReportRejected},
	}
	kinds := []ReportKind{ReportKindDiscussion, ReportKindAnswer, ReportKindComment}

	for i, r := range reports {
		assert.Equal(t, kinds[i], r.ReportKind())
		assert.Equal(t, uint(i+1), r.ReportID())
		assert.Equal(t, uint((i+1)*10), r.TargetID())
	}
	assert.Equal(t, ReportRejected, reports[2].ReportStatus())
}

func TestParseVoteKind(t *testing.T) {
	k, err := ParseVoteKind("answer")
	require.NoError(t, err)
	assert.Equal(t, VoteKindAnswer, k)

	k, err = ParseVoteKind("comment")
	require.NoError(t, err)
	assert.Equal(t, VoteKindComment, k)

	_, err = ParseVoteKind("discussion")
	assert.Error(t, err)
}
