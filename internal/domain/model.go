package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// AuditModel is the common base struct for persisted records. Rows carrying it
// are never physically deleted: the store layer rewrites deletes into flag
// updates, and every read path excludes flagged rows unless explicitly asked
// not to. The lifecycle timestamps are stamped by the hooks below, which form
// the single authoritative code path for audit fields.
type AuditModel struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	IsActive  bool       `gorm:"index;index:idx_persons_deleted_active,priority:2" json:"is_active"`
	IsDeleted bool       `gorm:"index;index:idx_persons_deleted_active,priority:1" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// BeforeCreate forces the audit lifecycle defaults on insert. Caller-supplied
// values for these fields are discarded so they cannot be forged: every new
// row starts active, not deleted, with a store-assigned creation time.
func (m *AuditModel) BeforeCreate(tx *gorm.DB) error {
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = nil
	m.IsActive = true
	m.IsDeleted = false
	m.DeletedAt = nil
	return nil
}

// BeforeUpdate stamps the update time on every mutation.
func (m *AuditModel) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now().UTC()
	m.UpdatedAt = &now
	return nil
}

// PageRequest holds pagination and sorting parameters for list queries.
type PageRequest struct {
	Page          int
	PageSize      int
	SortBy        string
	SortDirection string
}

const (
	// DefaultPageSize is applied when a request does not specify a page size.
	DefaultPageSize = 10
	// MaxPageSize caps the page size a single request may ask for.
	MaxPageSize = 100
)

// Normalized returns a copy of the request with out-of-range values replaced
// by defaults: page >= 1, page size in [1, MaxPageSize], sort direction
// "asc" unless "desc" was requested.
func (r PageRequest) Normalized() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	if strings.EqualFold(r.SortDirection, "desc") {
		r.SortDirection = "desc"
	} else {
		r.SortDirection = "asc"
	}
	return r
}

// PageResult is one page of items together with pagination metadata.
// TotalPages, HasNext, and HasPrevious are derived at construction time
// (see pkg.NewPageResult).
type PageResult[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"total_count"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// SearchCriteria describes an optional-field filter for person searches.
// Every field is independently optional; the fields that are set are
// combined conjunctively.
type SearchCriteria struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	MinAge   *int   `json:"min_age"`
	MaxAge   *int   `json:"max_age"`
	IsActive *bool  `json:"is_active"`
}
