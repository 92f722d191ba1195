package person

import (
	"context"
	"log/slog"
	"strings"

	"github.com/simp-lee/personapi/internal/domain"
	"github.com/simp-lee/personapi/internal/store"
	"gorm.io/gorm"
)

// personService implements domain.PersonService.
//
// Every call constructs its own unit of work over the shared database
// handle, so no mutable data-access state is shared between concurrent
// calls; the database itself is the only shared resource.
type personService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPersonService creates a PersonService over the given database handle.
func NewPersonService(db *gorm.DB, logger *slog.Logger) domain.PersonService {
	if logger == nil {
		logger = slog.Default()
	}
	return &personService{db: db, logger: logger}
}

// begin creates the request-scoped unit of work and a repository bound to it.
func (s *personService) begin() (*store.UnitOfWork, domain.PersonRepository) {
	uow := store.NewUnitOfWork(s.db)
	return uow, NewPersonRepository(uow)
}

// fail logs the underlying fault with context and returns an opaque internal
// error; domain errors pass through unchanged so their messages reach the
// caller.
func (s *personService) fail(ctx context.Context, err error, action string) error {
	if domain.IsNotFound(err) || domain.IsAlreadyExists(err) || domain.IsValidation(err) {
		return err
	}
	s.logger.ErrorContext(ctx, "person service error",
		slog.String("action", action),
		slog.Any("error", err),
	)
	return domain.NewAppError(domain.CodeInternal, "An error occurred while "+action, err)
}

// GetByID retrieves a person by ID.
func (s *personService) GetByID(ctx context.Context, id uint) (*domain.Person, error) {
	if id == 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "Invalid ID provided", nil)
	}

	_, repo := s.begin()
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewAppError(domain.CodeNotFound, "Person not found", err)
		}
		return nil, s.fail(ctx, err, "retrieving the person")
	}
	return p, nil
}

// GetAll returns one page of persons ordered by ascending id.
func (s *personService) GetAll(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Person], error) {
	_, repo := s.begin()
	result, err := repo.GetPaged(ctx, req.Normalized())
	if err != nil {
		return nil, s.fail(ctx, err, "retrieving persons")
	}
	return result, nil
}

// Search returns one page of persons matching the criteria.
func (s *personService) Search(ctx context.Context, criteria domain.SearchCriteria, req domain.PageRequest) (*domain.PageResult[domain.Person], error) {
	_, repo := s.begin()
	result, err := repo.Search(ctx, criteria, req.Normalized())
	if err != nil {
		return nil, s.fail(ctx, err, "searching persons")
	}
	return result, nil
}

// GetActive returns all active persons.
func (s *personService) GetActive(ctx context.Context) ([]domain.Person, error) {
	_, repo := s.begin()
	persons, err := repo.GetActive(ctx)
	if err != nil {
		return nil, s.fail(ctx, err, "retrieving active persons")
	}
	return persons, nil
}

// SearchByName returns all persons whose name contains the substring.
func (s *personService) SearchByName(ctx context.Context, name string) ([]domain.Person, error) {
	_, repo := s.begin()
	persons, err := repo.SearchByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, s.fail(ctx, err, "searching persons")
	}
	return persons, nil
}

// Create validates and normalizes the input, checks email uniqueness, and
// persists the new person. The uniqueness pre-check is advisory; a
// concurrent writer losing the race is still rejected by the store's unique
// index and reported as the same conflict.
func (s *personService) Create(ctx context.Context, input domain.PersonInput) (*domain.Person, error) {
	input = input.Normalized()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	uow, repo := s.begin()

	taken, err := repo.EmailExists(ctx, input.Email, 0)
	if err != nil {
		return nil, s.fail(ctx, err, "creating the person")
	}
	if taken {
		return nil, domain.NewAppError(domain.CodeAlreadyExists, "Email already exists", nil)
	}

	p := &domain.Person{
		Name:    input.Name,
		Email:   input.Email,
		Age:     input.Age,
		Phone:   input.Phone,
		Address: input.Address,
	}

	repo.Add(p)
	if err := uow.SaveChanges(ctx); err != nil {
		if domain.IsAlreadyExists(err) {
			return nil, domain.NewAppError(domain.CodeAlreadyExists, "Email already exists", err)
		}
		return nil, s.fail(ctx, err, "creating the person")
	}

	s.logger.InfoContext(ctx, "person created", slog.Uint64("person_id", uint64(p.ID)))
	return p, nil
}

// Update loads the person, re-checks email uniqueness excluding the person
// itself, applies the changes, and persists them.
func (s *personService) Update(ctx context.Context, id uint, input domain.PersonInput) (*domain.Person, error) {
	if id == 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "Invalid ID provided", nil)
	}
	input = input.Normalized()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	uow, repo := s.begin()

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewAppError(domain.CodeNotFound, "Person not found", err)
		}
		return nil, s.fail(ctx, err, "updating the person")
	}

	taken, err := repo.EmailExists(ctx, input.Email, id)
	if err != nil {
		return nil, s.fail(ctx, err, "updating the person")
	}
	if taken {
		return nil, domain.NewAppError(domain.CodeAlreadyExists, "Email already exists", nil)
	}

	p.Name = input.Name
	p.Email = input.Email
	p.Age = input.Age
	p.Phone = input.Phone
	p.Address = input.Address

	repo.Update(p)
	if err := uow.SaveChanges(ctx); err != nil {
		if domain.IsAlreadyExists(err) {
			return nil, domain.NewAppError(domain.CodeAlreadyExists, "Email already exists", err)
		}
		return nil, s.fail(ctx, err, "updating the person")
	}

	s.logger.InfoContext(ctx, "person updated", slog.Uint64("person_id", uint64(p.ID)))
	return p, nil
}

// Delete soft-deletes a person. The row is flagged, never removed, and
// disappears from all default reads.
func (s *personService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.NewAppError(domain.CodeValidation, "Invalid ID provided", nil)
	}

	uow, repo := s.begin()

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NewAppError(domain.CodeNotFound, "Person not found", err)
		}
		return s.fail(ctx, err, "deleting the person")
	}

	repo.Remove(p)
	if err := uow.SaveChanges(ctx); err != nil {
		if domain.IsNotFound(err) {
			// Lost a race with a concurrent delete.
			return domain.NewAppError(domain.CodeNotFound, "Person not found", err)
		}
		return s.fail(ctx, err, "deleting the person")
	}

	s.logger.InfoContext(ctx, "person deleted", slog.Uint64("person_id", uint64(id)))
	return nil
}

// Exists reports whether a person with the given id exists. A zero id is
// simply reported as absent.
func (s *personService) Exists(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	_, repo := s.begin()
	exists, err := repo.Exists(ctx, id)
	if err != nil {
		return false, s.fail(ctx, err, "checking person existence")
	}
	return exists, nil
}

// EmailExists reports whether the (normalized) email is taken by a person
// other than excludeID. A blank email is reported as not taken.
func (s *personService) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	_, repo := s.begin()
	exists, err := repo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return false, s.fail(ctx, err, "checking email existence")
	}
	return exists, nil
}
