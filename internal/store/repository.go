package store

import (
	"context"
	"time"

	"github.com/simp-lee/personapi/internal/domain"
	"gorm.io/gorm"
)

// Scope is a composable query predicate. It is the closed replacement for
// open-ended expression-based filters: callers build scopes from explicit
// criteria structures and allow-listed column names only.
type Scope func(db *gorm.DB) *gorm.DB

// Where returns a scope adding a WHERE condition.
func Where(query any, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// OrderBy returns a scope adding an ORDER BY clause. The expression must
// come from an allow-list, never from raw caller input.
func OrderBy(expr string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(expr)
	}
}

// Repository provides generic CRUD and paging operations for a record type
// bound to a UnitOfWork.
//
// Reads run immediately against the unit of work's current connection and
// apply the standing soft-delete filter. Writes are staged on the unit of
// work and executed atomically by SaveChanges. Remove never deletes a row:
// it is rewritten into a flag update before reaching the store.
type Repository[T any] struct {
	uow            *UnitOfWork
	includeDeleted bool
}

// NewRepository creates a repository for T bound to the given unit of work.
func NewRepository[T any](uow *UnitOfWork) *Repository[T] {
	return &Repository[T]{uow: uow}
}

// IncludeDeleted returns a derived repository whose reads bypass the
// standing soft-delete filter. This is the only way to observe deleted rows.
func (r *Repository[T]) IncludeDeleted() *Repository[T] {
	return &Repository[T]{uow: r.uow, includeDeleted: true}
}

// UnitOfWork returns the unit of work this repository stages writes on.
func (r *Repository[T]) UnitOfWork() *UnitOfWork {
	return r.uow
}

// Query returns a query builder on the unit of work's current connection,
// with the soft-delete filter applied unless this repository was derived
// via IncludeDeleted. All read paths go through here so the standing filter
// has a single home.
func (r *Repository[T]) Query(ctx context.Context) *gorm.DB {
	q := r.uow.Conn().WithContext(ctx).Model(new(T))
	if !r.includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	return q
}

// GetByID retrieves a record by primary key.
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.Query(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, MapError(err)
	}
	return &entity, nil
}

// GetAll retrieves every record.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.Find(ctx)
}

// Find retrieves all records matching the given scopes.
func (r *Repository[T]) Find(ctx context.Context, scopes ...Scope) ([]T, error) {
	q := r.Query(ctx)
	for _, s := range scopes {
		q = s(q)
	}
	var entities []T
	if err := q.Find(&entities).Error; err != nil {
		return nil, MapError(err)
	}
	return entities, nil
}

// SingleOrDefault retrieves the record matching the given scopes. It returns
// nil without error when no record matches and ErrMultipleResults when more
// than one does.
func (r *Repository[T]) SingleOrDefault(ctx context.Context, scopes ...Scope) (*T, error) {
	q := r.Query(ctx)
	for _, s := range scopes {
		q = s(q)
	}
	var entities []T
	if err := q.Limit(2).Find(&entities).Error; err != nil {
		return nil, MapError(err)
	}
	switch len(entities) {
	case 0:
		return nil, nil
	case 1:
		return &entities[0], nil
	default:
		return nil, ErrMultipleResults
	}
}

// Exists reports whether any record matches the given scopes.
func (r *Repository[T]) Exists(ctx context.Context, scopes ...Scope) (bool, error) {
	count, err := r.Count(ctx, scopes...)
	return count > 0, err
}

// Count returns the number of records matching the given scopes.
func (r *Repository[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	q := r.Query(ctx)
	for _, s := range scopes {
		q = s(q)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// GetPaged returns one page of records plus the total count of the filtered,
// pre-pagination set. A nil filter matches everything; an empty orderBy
// leaves the store's natural order.
func (r *Repository[T]) GetPaged(ctx context.Context, page, pageSize int, filter Scope, orderBy string) ([]T, int64, error) {
	base := r.Query(ctx)
	if filter != nil {
		base = filter(base)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, MapError(err)
	}

	q := base
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	var entities []T
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&entities).Error; err != nil {
		return nil, 0, MapError(err)
	}
	return entities, total, nil
}

// Add stages an insert. The store-assigned ID is available on the entity
// after SaveChanges.
func (r *Repository[T]) Add(entity *T) {
	r.uow.stage(func(tx *gorm.DB) error {
		return MapError(tx.Create(entity).Error)
	})
}

// AddRange stages an insert for each entity.
func (r *Repository[T]) AddRange(entities []*T) {
	if len(entities) == 0 {
		return
	}
	r.uow.stage(func(tx *gorm.DB) error {
		return MapError(tx.Create(entities).Error)
	})
}

// Update stages a full update of the entity.
func (r *Repository[T]) Update(entity *T) {
	r.uow.stage(func(tx *gorm.DB) error {
		return MapError(tx.Save(entity).Error)
	})
}

// UpdateRange stages an update for each entity.
func (r *Repository[T]) UpdateRange(entities []*T) {
	for _, e := range entities {
		r.Update(e)
	}
}

// Remove stages a soft delete: the row is flagged deleted and inactive with
// a deletion timestamp, never physically removed. Removing an already
// deleted or absent row fails with a not-found error at SaveChanges time.
func (r *Repository[T]) Remove(entity *T) {
	r.uow.stage(func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{SkipHooks: true}).
			Model(entity).
			Where("is_deleted = ?", false).
			Updates(map[string]any{
				"is_deleted": true,
				"is_active":  false,
				"deleted_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return MapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// RemoveRange stages a soft delete for each entity.
func (r *Repository[T]) RemoveRange(entities []*T) {
	for _, e := range entities {
		r.Remove(e)
	}
}
