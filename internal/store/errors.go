package store

import (
	"errors"
	"strings"

	"github.com/simp-lee/personapi/internal/domain"
	"gorm.io/gorm"
)

// Transaction-state errors. These signal incorrect use of the UnitOfWork API
// itself, not a data problem, so they are plain sentinels rather than
// domain.AppError values and are never converted into a structured result.
var (
	// ErrTransactionActive is returned by BeginTransaction when a
	// transaction is already in progress on this unit of work.
	ErrTransactionActive = errors.New("a transaction is already in progress")

	// ErrNoTransaction is returned by CommitTransaction and
	// RollbackTransaction when no transaction is in progress.
	ErrNoTransaction = errors.New("no transaction in progress")
)

// ErrMultipleResults is returned by SingleOrDefault when more than one row
// matches the given predicates.
var ErrMultipleResults = errors.New("more than one row matched")

// MapError converts GORM errors to domain errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. This is needed because not all GORM dialectors translate
// driver-level errors to gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
