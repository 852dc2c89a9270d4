package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cppla/discuss/store"
	"github.com/cppla/discuss/utils"
)

var (
	// ErrValidation means a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means a referenced discussion, answer, comment or report
	// does not exist or is no longer visible.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the write clashes with current state, such as
	// resolving a report twice.
	ErrConflict = errors.New("conflict")
	// ErrPersistence wraps a store failure. The unit of work was rolled back.
	ErrPersistence = errors.New("persistence failure")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// classify leaves domain errors alone and folds everything else into
// ErrConflict (constraint violations) or ErrPersistence.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict), errors.Is(err, ErrPersistence):
		return err
	case errors.Is(err, store.ErrConstraint):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
}

type base struct {
	store *store.Store
	log   *zap.Logger
}

func newBase(st *store.Store, logger *zap.Logger, name string) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{store: st, log: logger.Named(name)}
}

// unitOfWork runs fn in its own transaction and classifies the outcome.
func (b *base) unitOfWork(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	err := classify(b.store.Transaction(ctx, fn))
	if errors.Is(err, ErrPersistence) {
		b.log.Error("unit of work failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// cleanText strips markup from single-line fields and enforces presence
// and an optional rune limit.
func cleanText(field, value string, limit int) (string, error) {
	return checkText(field, utils.SanitizeText(value), limit)
}

// cleanMarkup keeps safe formatting in body fields.
func cleanMarkup(field, value string) (string, error) {
	return checkText(field, utils.Sanitize(value), 0)
}

func checkText(field, value string, limit int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", validationf("%s is required", field)
	}
	if limit > 0 && utf8.RuneCountInString(v) > limit {
		return "", validationf("%s exceeds %d characters", field, limit)
	}
	return v, nil
}

func cleanUser(user string) (string, error) {
	u := strings.TrimSpace(user)
	if u == "" {
		return "", validationf("user is required")
	}
	if utf8.RuneCountInString(u) > maxUserLen {
		return "", validationf("user exceeds %d characters", maxUserLen)
	}
	return u, nil
}

func requireID(field string, id uint) error {
	if id == 0 {
		return validationf("%s is required", field)
	}
	return nil
}

const (
	maxTitleLen  = 255
	maxReasonLen = 250
	maxUserLen   = 50
)
