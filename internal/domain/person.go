package domain

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Person is the managed directory record.
type Person struct {
	AuditModel
	Name    string `gorm:"size:100;not null;index" json:"name"`
	Email   string `gorm:"size:255;not null;uniqueIndex:uidx_persons_email,where:is_deleted = false" json:"email"`
	Age     int    `gorm:"check:age >= 1 AND age <= 120" json:"age"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:500" json:"address"`
}

// TableName pins the table name so index and filter clauses stay stable.
func (Person) TableName() string { return "persons" }

// PersonInput carries the caller-supplied fields for creating or updating
// a person. Validation and normalization happen at the service boundary.
type PersonInput struct {
	Name    string
	Email   string
	Age     int
	Phone   string
	Address string
}

// Normalized returns a copy with surrounding whitespace trimmed from all
// string fields and the email lower-cased.
func (in PersonInput) Normalized() PersonInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

// Validate checks the domain invariants on an already-normalized input.
func (in PersonInput) Validate() error {
	nameLen := utf8.RuneCountInString(in.Name)
	if nameLen < 2 {
		return NewAppError(CodeValidation, "name must be at least 2 characters", nil)
	}
	if nameLen > 100 {
		return NewAppError(CodeValidation, "name must be at most 100 characters", nil)
	}
	if in.Email == "" {
		return NewAppError(CodeValidation, "email is required", nil)
	}
	if len(in.Email) > 255 {
		return NewAppError(CodeValidation, "email must be at most 255 characters", nil)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return NewAppError(CodeValidation, "email must be a valid email address", nil)
	}
	if in.Age < 1 || in.Age > 120 {
		return NewAppError(CodeValidation, "age must be between 1 and 120", nil)
	}
	if len(in.Phone) > 20 {
		return NewAppError(CodeValidation, "phone must be at most 20 characters", nil)
	}
	if len(in.Address) > 500 {
		return NewAppError(CodeValidation, "address must be at most 500 characters", nil)
	}
	return nil
}

// PersonRepository defines the data access interface for persons.
//
// Reads execute immediately against the owning unit of work's connection and
// exclude soft-deleted rows. Add, Update, and Remove stage mutations on the
// unit of work; nothing reaches the store until SaveChanges commits them.
type PersonRepository interface {
	GetByID(ctx context.Context, id uint) (*Person, error)
	GetByEmail(ctx context.Context, email string) (*Person, error)
	GetAll(ctx context.Context) ([]Person, error)
	GetActive(ctx context.Context) ([]Person, error)
	SearchByName(ctx context.Context, name string) ([]Person, error)
	Search(ctx context.Context, criteria SearchCriteria, req PageRequest) (*PageResult[Person], error)
	GetPaged(ctx context.Context, req PageRequest) (*PageResult[Person], error)
	Exists(ctx context.Context, id uint) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID uint) (bool, error)
	Add(person *Person)
	Update(person *Person)
	Remove(person *Person)
}

// PersonService defines the business logic interface for persons. Every
// method is a self-contained error boundary: infrastructure faults are
// logged and surfaced only as opaque internal AppErrors.
type PersonService interface {
	GetByID(ctx context.Context, id uint) (*Person, error)
	GetAll(ctx context.Context, req PageRequest) (*PageResult[Person], error)
	Search(ctx context.Context, criteria SearchCriteria, req PageRequest) (*PageResult[Person], error)
	GetActive(ctx context.Context) ([]Person, error)
	SearchByName(ctx context.Context, name string) ([]Person, error)
	Create(ctx context.Context, input PersonInput) (*Person, error)
	Update(ctx context.Context, id uint, input PersonInput) (*Person, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID uint) (bool, error)
}
