package person

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/personapi/internal/domain"
	"github.com/simp-lee/personapi/internal/pkg"
)

// PersonHandler handles REST API requests for the person resource.
type PersonHandler struct {
	svc domain.PersonService
}

// NewPersonHandler creates a new PersonHandler with the given service.
func NewPersonHandler(svc domain.PersonService) *PersonHandler {
	return &PersonHandler{svc: svc}
}

// Get handles GET /api/v1/persons/:id.
func (h *PersonHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toResponse(p))
}

// List handles GET /api/v1/persons.
func (h *PersonHandler) List(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.svc.GetAll(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toPagedResponse(result))
}

// Search handles POST /api/v1/persons/search. Criteria travel in the body,
// paging and sorting in the query string.
func (h *PersonHandler) Search(c *gin.Context) {
	var req SearchPersonRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	pageReq := pkg.ParsePageRequest(c)

	result, err := h.svc.Search(c.Request.Context(), req.toCriteria(), pageReq)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toPagedResponse(result))
}

// Active handles GET /api/v1/persons/active.
func (h *PersonHandler) Active(c *gin.Context) {
	persons, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toResponses(persons))
}

// Create handles POST /api/v1/persons.
func (h *PersonHandler) Create(c *gin.Context) {
	var req CreatePersonRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, "Person created successfully", toResponse(p))
}

// Update handles PUT /api/v1/persons/:id.
func (h *PersonHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePersonRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.SuccessMessage(c, "Person updated successfully", toResponse(p))
}

// Delete handles DELETE /api/v1/persons/:id.
func (h *PersonHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.SuccessMessage(c, "Person deleted successfully", true)
}

// Exists handles GET /api/v1/persons/exists/:id.
func (h *PersonHandler) Exists(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	exists, err := h.svc.Exists(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, exists)
}

// EmailExists handles GET /api/v1/persons/email-exists?email=&exclude_id=.
func (h *PersonHandler) EmailExists(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "email query parameter is required", nil))
		return
	}

	var excludeID uint
	if raw := c.Query("exclude_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			pkg.Error(c, domain.NewAppError(domain.CodeValidation, "Invalid ID provided", nil))
			return
		}
		excludeID = uint(v)
	}

	exists, err := h.svc.EmailExists(c.Request.Context(), email, excludeID)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, exists)
}

// parseID extracts and validates the :id path parameter. On failure it
// writes the validation envelope and returns ok=false.
func parseID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "Invalid ID provided", nil))
		return 0, false
	}
	return uint(id), true
}
