package pkg

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/personapi/internal/domain"
)

// ParsePageRequest extracts pagination and sorting parameters from query
// params: page, page_size, sort_by, sort_direction. Out-of-range values are
// normalized to the documented defaults (page 1, size 10, ascending).
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(domain.DefaultPageSize)))

	return domain.PageRequest{
		Page:          page,
		PageSize:      pageSize,
		SortBy:        c.Query("sort_by"),
		SortDirection: c.DefaultQuery("sort_direction", "asc"),
	}.Normalized()
}

// NewPageResult assembles a PageResult with its derived fields. A nil item
// slice becomes an empty one so "no matches" serializes as [] rather than
// null.
func NewPageResult[T any](items []T, total int64, req domain.PageRequest) *domain.PageResult[T] {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}

	if items == nil {
		items = []T{}
	}

	return &domain.PageResult[T]{
		Items:       items,
		TotalCount:  total,
		Page:        req.Page,
		PageSize:    req.PageSize,
		TotalPages:  totalPages,
		HasNext:     req.Page < totalPages,
		HasPrevious: req.Page > 1,
	}
}
