package store

import (
	"gorm.io/gorm"

	"github.com/cppla/discuss/models"
)

func (tx *Tx) InsertReport(r *models.Report) error {
	return insert(tx, r)
}

func (tx *Tx) InsertReportAnswer(r *models.ReportAnswer) error {
	return insert(tx, r)
}

func (tx *Tx) InsertReportComment(r *models.ReportComment) error {
	return insert(tx, r)
}

// ListReports returns discussion reports, newest first. An empty status
// matches every status.
func (tx *Tx) ListReports(status models.ReportStatus) ([]models.Report, error) {
	var out []models.Report
	err := filterStatus(tx, status).Order("id DESC").Find(&out).Error
	return out, err
}

func (tx *Tx) ListReportAnswers(status models.ReportStatus) ([]models.ReportAnswer, error) {
	var out []models.ReportAnswer
	err := filterStatus(tx, status).Order("id DESC").Find(&out).Error
	return out, err
}

func (tx *Tx) ListReportComments(status models.ReportStatus) ([]models.ReportComment, error) {
	var out []models.ReportComment
	err := filterStatus(tx, status).Order("id DESC").Find(&out).Error
	return out, err
}

// GetReport loads a report of the given kind, locking it for update when
// lock is set.
func (tx *Tx) GetReport(kind models.ReportKind, id uint, lock bool) (models.AnyReport, bool, error) {
	db := tx.db
	if lock {
		db = tx.lockUpdate()
	}
	switch kind {
	case models.ReportKindDiscussion:
		r, ok, err := getByID[models.Report](db, id)
		if err != nil || !ok {
			return nil, ok, err
		}
		return r, true, nil
	case models.ReportKindAnswer:
		r, ok, err := getByID[models.ReportAnswer](db, id)
		if err != nil || !ok {
			return nil, ok, err
		}
		return r, true, nil
	case models.ReportKindComment:
		r, ok, err := getByID[models.ReportComment](db, id)
		if err != nil || !ok {
			return nil, ok, err
		}
		return r, true, nil
	default:
		return nil, false, nil
	}
}

// TransitionReport moves a report from one status to another. It returns
// ErrNoRowsAffected when the report is no longer in status from.
func (tx *Tx) TransitionReport(kind models.ReportKind, id uint, from, to models.ReportStatus) error {
	var model interface{}
	switch kind {
	case models.ReportKindDiscussion:
		model = &models.Report{}
	case models.ReportKindAnswer:
		model = &models.ReportAnswer{}
	case models.ReportKindComment:
		model = &models.ReportComment{}
	default:
		return ErrNoRowsAffected
	}
	res := tx.db.Model(model).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func filterStatus(tx *Tx, status models.ReportStatus) *gorm.DB {
	if status == "" {
		return tx.db
	}
	return tx.db.Where("status = ?", status)
}
