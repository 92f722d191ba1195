package person

import (
	"context"
	"strings"

	"github.com/simp-lee/personapi/internal/domain"
	"github.com/simp-lee/personapi/internal/pkg"
	"github.com/simp-lee/personapi/internal/store"
	"gorm.io/gorm"
)

// sortColumns is the closed allow-list of sortable fields. Keys are compared
// case-insensitively; anything outside the list falls back to ascending id.
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"age":        "age",
	"createdat":  "created_at",
	"created_at": "created_at",
	"isactive":   "is_active",
	"is_active":  "is_active",
}

// personRepository implements domain.PersonRepository on top of the generic
// store repository, which supplies CRUD, staging, and the soft-delete filter.
type personRepository struct {
	*store.Repository[domain.Person]
}

// NewPersonRepository creates a PersonRepository staging its writes on the
// given unit of work.
func NewPersonRepository(uow *store.UnitOfWork) domain.PersonRepository {
	return &personRepository{Repository: store.NewRepository[domain.Person](uow)}
}

// GetByEmail retrieves a person by exact email match.
func (r *personRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	var p domain.Person
	if err := r.Query(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		return nil, store.MapError(err)
	}
	return &p, nil
}

// SearchByName returns all persons whose name contains the given substring,
// ordered by name.
func (r *personRepository) SearchByName(ctx context.Context, name string) ([]domain.Person, error) {
	return r.Find(ctx,
		store.Where("name LIKE ?", "%"+name+"%"),
		store.OrderBy("name asc"),
	)
}

// GetActive returns all active persons, ordered by name.
func (r *personRepository) GetActive(ctx context.Context) ([]domain.Person, error) {
	return r.Find(ctx,
		store.Where("is_active = ?", true),
		store.OrderBy("name asc"),
	)
}

// Exists reports whether a person with the given id exists.
func (r *personRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return r.Repository.Exists(ctx, store.Where("id = ?", id))
}

// EmailExists reports whether the email is taken by a person other than
// excludeID. Pass 0 to check against all persons. The check only sees
// non-deleted rows; the partial unique index remains the authoritative
// backstop under concurrent writers.
func (r *personRepository) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	scopes := []store.Scope{store.Where("email = ?", email)}
	if excludeID != 0 {
		scopes = append(scopes, store.Where("id <> ?", excludeID))
	}
	return r.Repository.Exists(ctx, scopes...)
}

// GetPaged returns one page of persons ordered by ascending id.
func (r *personRepository) GetPaged(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Person], error) {
	req = req.Normalized()
	items, total, err := r.Repository.GetPaged(ctx, req.Page, req.PageSize, nil, "id asc")
	if err != nil {
		return nil, err
	}
	return pkg.NewPageResult(items, total, req), nil
}

// Search returns one page of persons matching the criteria. Filters apply
// only for set fields and combine with AND; the total count is computed
// against the filtered, pre-pagination set.
func (r *personRepository) Search(ctx context.Context, criteria domain.SearchCriteria, req domain.PageRequest) (*domain.PageResult[domain.Person], error) {
	req = req.Normalized()
	items, total, err := r.Repository.GetPaged(ctx, req.Page, req.PageSize,
		criteriaFilter(criteria), sortClause(req.SortBy, req.SortDirection))
	if err != nil {
		return nil, err
	}
	return pkg.NewPageResult(items, total, req), nil
}

// criteriaFilter composes the conjunctive filter scope for the set criteria
// fields. It returns nil when no field is set.
func criteriaFilter(c domain.SearchCriteria) store.Scope {
	var scopes []store.Scope
	if name := strings.TrimSpace(c.Name); name != "" {
		scopes = append(scopes, store.Where("name LIKE ?", "%"+name+"%"))
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		scopes = append(scopes, store.Where("email LIKE ?", "%"+email+"%"))
	}
	if c.MinAge != nil {
		scopes = append(scopes, store.Where("age >= ?", *c.MinAge))
	}
	if c.MaxAge != nil {
		scopes = append(scopes, store.Where("age <= ?", *c.MaxAge))
	}
	if c.IsActive != nil {
		scopes = append(scopes, store.Where("is_active = ?", *c.IsActive))
	}
	if len(scopes) == 0 {
		return nil
	}
	return func(db *gorm.DB) *gorm.DB {
		for _, s := range scopes {
			db = s(db)
		}
		return db
	}
}

// sortClause resolves the sort key against the allow-list. Unrecognized keys
// fall back to ascending id regardless of the requested direction.
func sortClause(sortBy, direction string) string {
	col, ok := sortColumns[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		return "id asc"
	}
	dir := "asc"
	if strings.EqualFold(strings.TrimSpace(direction), "desc") {
		dir = "desc"
	}
	return col + " " + dir
}
