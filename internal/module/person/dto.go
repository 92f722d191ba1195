package person

import (
	"time"

	"github.com/simp-lee/personapi/internal/domain"
)

// CreatePersonRequest represents the input for creating a new person.
type CreatePersonRequest struct {
	Name    string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" form:"email" binding:"required,email,max=255"`
	Age     int    `json:"age" form:"age" binding:"required,gte=1,lte=120"`
	Phone   string `json:"phone" form:"phone" binding:"omitempty,max=20"`
	Address string `json:"address" form:"address" binding:"omitempty,max=500"`
}

// UpdatePersonRequest represents the input for updating an existing person.
type UpdatePersonRequest struct {
	Name    string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" form:"email" binding:"required,email,max=255"`
	Age     int    `json:"age" form:"age" binding:"required,gte=1,lte=120"`
	Phone   string `json:"phone" form:"phone" binding:"omitempty,max=20"`
	Address string `json:"address" form:"address" binding:"omitempty,max=500"`
}

// SearchPersonRequest represents the optional filter criteria for searching
// persons. Absent fields do not constrain the result.
type SearchPersonRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	MinAge   *int   `json:"min_age" binding:"omitempty,gte=1,lte=120"`
	MaxAge   *int   `json:"max_age" binding:"omitempty,gte=1,lte=120"`
	IsActive *bool  `json:"is_active"`
}

// PersonResponse represents the public shape of a person record. Soft-delete
// bookkeeping fields are deliberately not exposed.
type PersonResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       int        `json:"age"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	IsActive  bool       `json:"is_active"`
}

func (r CreatePersonRequest) toInput() domain.PersonInput {
	return domain.PersonInput{
		Name:    r.Name,
		Email:   r.Email,
		Age:     r.Age,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

func (r UpdatePersonRequest) toInput() domain.PersonInput {
	return domain.PersonInput{
		Name:    r.Name,
		Email:   r.Email,
		Age:     r.Age,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

func (r SearchPersonRequest) toCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		Name:     r.Name,
		Email:    r.Email,
		MinAge:   r.MinAge,
		MaxAge:   r.MaxAge,
		IsActive: r.IsActive,
	}
}

func toResponse(p *domain.Person) PersonResponse {
	return PersonResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Age:       p.Age,
		Phone:     p.Phone,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		IsActive:  p.IsActive,
	}
}

func toResponses(persons []domain.Person) []PersonResponse {
	out := make([]PersonResponse, 0, len(persons))
	for i := range persons {
		out = append(out, toResponse(&persons[i]))
	}
	return out
}

func toPagedResponse(result *domain.PageResult[domain.Person]) *domain.PageResult[PersonResponse] {
	return &domain.PageResult[PersonResponse]{
		Items:       toResponses(result.Items),
		TotalCount:  result.TotalCount,
		Page:        result.Page,
		PageSize:    result.PageSize,
		TotalPages:  result.TotalPages,
		HasNext:     result.HasNext,
		HasPrevious: result.HasPrevious,
	}
}
