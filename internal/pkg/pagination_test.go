package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/personapi/internal/domain"
)

func ginContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParsePageRequestDefaults(t *testing.T) {
	c := ginContext(t, "/persons")
	req := ParsePageRequest(c)

	if req.Page != 1 {
		t.Errorf("Page = %d; want 1", req.Page)
	}
	if req.PageSize != domain.DefaultPageSize {
		t.Errorf("PageSize = %d; want %d", req.PageSize, domain.DefaultPageSize)
	}
	if req.SortDirection != "asc" {
		t.Errorf("SortDirection = %q; want asc", req.SortDirection)
	}
}

func TestParsePageRequestValues(t *testing.T) {
	c := ginContext(t, "/persons?page=3&page_size=25&sort_by=name&sort_direction=DESC")
	req := ParsePageRequest(c)

	if req.Page != 3 || req.PageSize != 25 {
		t.Errorf("Page=%d PageSize=%d; want 3/25", req.Page, req.PageSize)
	}
	if req.SortBy != "name" {
		t.Errorf("SortBy = %q; want name", req.SortBy)
	}
	if req.SortDirection != "desc" {
		t.Errorf("SortDirection = %q; want normalized desc", req.SortDirection)
	}
}

func TestParsePageRequestClamping(t *testing.T) {
	tests := []struct {
		target   string
		page     int
		pageSize int
	}{
		{"/persons?page=0&page_size=0", 1, domain.DefaultPageSize},
		{"/persons?page=-5&page_size=-1", 1, domain.DefaultPageSize},
		{"/persons?page=abc&page_size=xyz", 1, domain.DefaultPageSize},
		{"/persons?page_size=5000", 1, domain.MaxPageSize},
	}
	for _, tt := range tests {
		req := ParsePageRequest(ginContext(t, tt.target))
		if req.Page != tt.page || req.PageSize != tt.pageSize {
			t.Errorf("%s: Page=%d PageSize=%d; want %d/%d",
				tt.target, req.Page, req.PageSize, tt.page, tt.pageSize)
		}
	}
}

func TestNewPageResultDerivedFields(t *testing.T) {
	req := domain.PageRequest{Page: 1, PageSize: 10}
	result := NewPageResult(make([]int, 10), 25, req)

	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d; want 3", result.TotalPages)
	}
	if !result.HasNext || result.HasPrevious {
		t.Errorf("HasNext=%v HasPrevious=%v; want true/false", result.HasNext, result.HasPrevious)
	}

	req.Page = 3
	result = NewPageResult(make([]int, 5), 25, req)
	if result.HasNext || !result.HasPrevious {
		t.Errorf("last page HasNext=%v HasPrevious=%v; want false/true", result.HasNext, result.HasPrevious)
	}
}

func TestNewPageResultEmpty(t *testing.T) {
	result := NewPageResult[int](nil, 0, domain.PageRequest{Page: 1, PageSize: 10})

	if result.Items == nil {
		t.Error("expected non-nil items for empty result")
	}
	if result.TotalPages != 0 || result.HasNext || result.HasPrevious {
		t.Errorf("empty result: %+v", result)
	}
}

func TestNewPageResultExactMultiple(t *testing.T) {
	result := NewPageResult(make([]int, 10), 20, domain.PageRequest{Page: 2, PageSize: 10})

	if result.TotalPages != 2 {
		t.Errorf("TotalPages = %d; want 2", result.TotalPages)
	}
	if result.HasNext {
		t.Error("page 2 of 2 must not report a next page")
	}
}
