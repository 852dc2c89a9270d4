package store

import (
	"github.com/cppla/discuss/models"
)

func (tx *Tx) InsertVoteAnswer(v *models.VoteAnswer) error {
	return insert(tx, v)
}

func (tx *Tx) InsertVoteComment(v *models.VoteComment) error {
	return insert(tx, v)
}

// CountAnswerVotes returns the number of vote rows for an answer.
func (tx *Tx) CountAnswerVotes(answerID uint) (int64, error) {
	var n int64
	err := tx.db.Model(&models.VoteAnswer{}).Where("answerid = ?", answerID).Count(&n).Error
	return n, err
}

// CountCommentVotes returns the number of vote rows for a comment.
func (tx *Tx) CountCommentVotes(commentID uint) (int64, error) {
	var n int64
	err := tx.db.Model(&models.VoteComment{}).Where("commentid = ?", commentID).Count(&n).Error
	return n, err
}

type voteTally struct {
	TargetID uint
	Votes    int64
}

// AnswerVoteTallies counts votes for many answers in one query. Answers
// without votes are absent from the map.
func (tx *Tx) AnswerVoteTallies(answerIDs []uint) (map[uint]int64, error) {
	return tallies(tx, &models.VoteAnswer{}, "answerid", answerIDs)
}

// CommentVoteTallies counts votes for many comments in one query.
func (tx *Tx) CommentVoteTallies(commentIDs []uint) (map[uint]int64, error) {
	return tallies(tx, &models.VoteComment{}, "commentid", commentIDs)
}

func tallies(tx *Tx, model interface{}, column string, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []voteTally
	err := tx.db.Model(model).
		Select(column+" AS target_id, COUNT(*) AS votes").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.TargetID] = r.Votes
	}
	return out, nil
}
