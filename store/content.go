package store

import (
	"github.com/cppla/discuss/models"
)

// InsertDiscussion persists d and fills its id and timestamp.
func (tx *Tx) InsertDiscussion(d *models.Discussion) error {
	return insert(tx, d)
}

// GetDiscussion returns a visible discussion.
func (tx *Tx) GetDiscussion(id uint) (*models.Discussion, bool, error) {
	return getByID[models.Discussion](tx.db, id)
}

// LockDiscussion is GetDiscussion holding a share lock until the unit of
// work ends, so a concurrent removal waits for it.
func (tx *Tx) LockDiscussion(id uint) (*models.Discussion, bool, error) {
	return getByID[models.Discussion](tx.lockShared(), id)
}

// ListDiscussions returns visible discussions, newest first.
func (tx *Tx) ListDiscussions() ([]models.Discussion, error) {
	var out []models.Discussion
	err := tx.db.Order("id DESC").Find(&out).Error
	return out, err
}

func (tx *Tx) InsertAnswer(a *models.Answer) error {
	return insert(tx, a)
}

func (tx *Tx) GetAnswer(id uint) (*models.Answer, bool, error) {
	return getByID[models.Answer](tx.db, id)
}

func (tx *Tx) LockAnswer(id uint) (*models.Answer, bool, error) {
	return getByID[models.Answer](tx.lockShared(), id)
}

// ListAnswers returns visible answers of a discussion in insertion order.
func (tx *Tx) ListAnswers(discussionID uint) ([]models.Answer, error) {
	var out []models.Answer
	err := tx.db.Where("discussionid = ?", discussionID).Order("id ASC").Find(&out).Error
	return out, err
}

// FirstAnswer returns the earliest visible answer of a discussion.
func (tx *Tx) FirstAnswer(discussionID uint) (*models.Answer, bool, error) {
	return getFirst[models.Answer](tx, "discussionid = ?", discussionID)
}

func (tx *Tx) InsertComment(c *models.Comment) error {
	return insert(tx, c)
}

func (tx *Tx) GetComment(id uint) (*models.Comment, bool, error) {
	return getByID[models.Comment](tx.db, id)
}

func (tx *Tx) LockComment(id uint) (*models.Comment, bool, error) {
	return getByID[models.Comment](tx.lockShared(), id)
}

func (tx *Tx) ListCommentsByDiscussion(discussionID uint) ([]models.Comment, error) {
	var out []models.Comment
	err := tx.db.Where("discussionid = ?", discussionID).Order("id ASC").Find(&out).Error
	return out, err
}

func (tx *Tx) ListCommentsByAnswer(answerID uint) ([]models.Comment, error) {
	var out []models.Comment
	err := tx.db.Where("answerid = ?", answerID).Order("id ASC").Find(&out).Error
	return out, err
}

// ListCommentsByDiscussionAndAnswer narrows the answer's comments to those
// recorded under discussionID.
func (tx *Tx) ListCommentsByDiscussionAndAnswer(discussionID, answerID uint) ([]models.Comment, error) {
	var out []models.Comment
	err := tx.db.Where("discussionid = ? AND answerid = ?", discussionID, answerID).Order("id ASC").Find(&out).Error
	return out, err
}

func getFirst[T any](tx *Tx, query string, args ...interface{}) (*T, bool, error) {
	var rows []T
	if err := tx.db.Where(query, args...).Order("id ASC").Limit(1).Find(&rows).Error; err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return &rows[0], true, nil
}
