package store

import (
	"context"

	"gorm.io/gorm"
)

// mutation is a single staged write, executed against a transaction at
// commit time.
type mutation func(tx *gorm.DB) error

// UnitOfWork groups staged mutations into a single atomic commit.
//
// Repositories bound to a unit of work read directly from its current
// connection but stage their writes; SaveChanges applies everything staged
// so far in one transaction. For multi-step work that spans more than one
// SaveChanges, BeginTransaction / CommitTransaction / RollbackTransaction
// give explicit control over the transaction boundary.
//
// A UnitOfWork is owned by a single request-scoped caller and must not be
// shared across concurrent calls.
type UnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	pending []mutation
}

// NewUnitOfWork creates a unit of work over the given database handle.
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Conn returns the connection repositories should use for reads: the open
// transaction when one is active, the base connection otherwise.
func (u *UnitOfWork) Conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// stage appends a mutation to the pending list. It is executed, in staging
// order, on the next SaveChanges.
func (u *UnitOfWork) stage(m mutation) {
	u.pending = append(u.pending, m)
}

// Pending reports the number of staged mutations not yet saved.
func (u *UnitOfWork) Pending() int {
	return len(u.pending)
}

// SaveChanges applies all staged mutations as one atomic unit.
//
// Without an explicit transaction, the mutations run inside their own
// transaction and are durable when SaveChanges returns. Inside an explicit
// transaction they execute immediately but become durable only at
// CommitTransaction. On error the staged list is already consumed; callers
// decide whether to retry by staging again.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	if len(u.pending) == 0 {
		return nil
	}
	pending := u.pending
	u.pending = nil

	apply := func(tx *gorm.DB) error {
		for _, m := range pending {
			if err := m(tx); err != nil {
				return err
			}
		}
		return nil
	}

	if u.tx != nil {
		return apply(u.tx.WithContext(ctx))
	}
	return u.db.WithContext(ctx).Transaction(apply)
}

// BeginTransaction opens an explicit transaction. At most one transaction
// may be active per unit of work; calling BeginTransaction while one is
// active returns ErrTransactionActive.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionActive
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return MapError(tx.Error)
	}
	u.tx = tx
	return nil
}

// CommitTransaction saves pending changes and commits the active
// transaction. On any failure during either step the transaction is rolled
// back and the failure propagated; either way the transaction and its
// resources are released before returning.
func (u *UnitOfWork) CommitTransaction(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	if err := u.SaveChanges(ctx); err != nil {
		u.releaseRollback()
		return err
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return MapError(err)
	}
	return nil
}

// RollbackTransaction discards the active transaction along with any staged
// mutations. It returns ErrNoTransaction when none is active.
func (u *UnitOfWork) RollbackTransaction() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	return u.releaseRollback()
}

// releaseRollback rolls back the active transaction and clears all
// transactional state, including staged mutations.
func (u *UnitOfWork) releaseRollback() error {
	tx := u.tx
	u.tx = nil
	u.pending = nil
	if err := tx.Rollback().Error; err != nil {
		return MapError(err)
	}
	return nil
}
