package person

import "github.com/gin-gonic/gin"

// PersonModule implements the app.Module interface for the person domain.
type PersonModule struct {
	handler *PersonHandler
}

// NewModule creates a new PersonModule with the given handler.
// Panics if h is nil.
func NewModule(h *PersonHandler) *PersonModule {
	if h == nil {
		panic("person.NewModule: handler must not be nil")
	}
	return &PersonModule{handler: h}
}

// RegisterRoutes registers person API routes. Static segments are registered
// before the :id route so gin resolves them unambiguously.
func (m *PersonModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/persons", m.handler.List)
	api.POST("/persons", m.handler.Create)
	api.POST("/persons/search", m.handler.Search)
	api.GET("/persons/active", m.handler.Active)
	api.GET("/persons/email-exists", m.handler.EmailExists)
	api.GET("/persons/exists/:id", m.handler.Exists)
	api.GET("/persons/:id", m.handler.Get)
	api.PUT("/persons/:id", m.handler.Update)
	api.DELETE("/persons/:id", m.handler.Delete)
}
