package store

import (
	"github.com/cppla/discuss/models"
)

// Removal counts what a moderation removal took down.
type Removal struct {
	Discussions int64 `json:"discussions"`
	Answers     int64 `json:"answers"`
	Comments    int64 `json:"comments"`
	Votes       int64 `json:"votes"`
}

// RemoveDiscussion hides a discussion together with its answers and their
// comments, and drops every vote cast on them. Reports are kept.
func (tx *Tx) RemoveDiscussion(id uint) (Removal, error) {
	var rm Removal
	if _, err := tx.lockIDs(&models.Discussion{}, "id = ?", id); err != nil {
		return rm, err
	}
	answerIDs, err := tx.lockIDs(&models.Answer{}, "discussionid = ?", id)
	if err != nil {
		return rm, err
	}
	if err := tx.removeAnswers(answerIDs, &rm); err != nil {
		return rm, err
	}
	res := tx.db.Delete(&models.Discussion{}, id)
	if res.Error != nil {
		return rm, translate(res.Error)
	}
	rm.Discussions = res.RowsAffected
	return rm, nil
}

// RemoveAnswer hides an answer and its comments and drops their votes.
func (tx *Tx) RemoveAnswer(id uint) (Removal, error) {
	var rm Removal
	err := tx.removeAnswers([]uint{id}, &rm)
	return rm, err
}

// RemoveComment hides a comment and drops its votes.
func (tx *Tx) RemoveComment(id uint) (Removal, error) {
	var rm Removal
	err := tx.removeComments([]uint{id}, &rm)
	return rm, err
}

func (tx *Tx) removeAnswers(ids []uint, rm *Removal) error {
	if len(ids) == 0 {
		return nil
	}
	// Row locks make concurrent comment and vote writers finish first, so
	// the child lists below are complete.
	if _, err := tx.lockIDs(&models.Answer{}, "id IN ?", ids); err != nil {
		return err
	}
	commentIDs, err := tx.lockIDs(&models.Comment{}, "answerid IN ?", ids)
	if err != nil {
		return err
	}
	if err := tx.removeComments(commentIDs, rm); err != nil {
		return err
	}
	res := tx.db.Where("answerid IN ?", ids).Delete(&models.VoteAnswer{})
	if res.Error != nil {
		return translate(res.Error)
	}
	rm.Votes += res.RowsAffected
	res = tx.db.Where("id IN ?", ids).Delete(&models.Answer{})
	if res.Error != nil {
		return translate(res.Error)
	}
	rm.Answers += res.RowsAffected
	return nil
}

func (tx *Tx) removeComments(ids []uint, rm *Removal) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := tx.lockIDs(&models.Comment{}, "id IN ?", ids); err != nil {
		return err
	}
	res := tx.db.Where("commentid IN ?", ids).Delete(&models.VoteComment{})
	if res.Error != nil {
		return translate(res.Error)
	}
	rm.Votes += res.RowsAffected
	res = tx.db.Where("id IN ?", ids).Delete(&models.Comment{})
	if res.Error != nil {
		return translate(res.Error)
	}
	rm.Comments += res.RowsAffected
	return nil
}

// lockIDs selects matching visible ids FOR UPDATE.
func (tx *Tx) lockIDs(model interface{}, query string, args ...interface{}) ([]uint, error) {
	var ids []uint
	err := tx.lockUpdate().Model(model).Where(query, args...).Pluck("id", &ids).Error
	return ids, err
}
