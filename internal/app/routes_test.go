package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/personapi/internal/domain"
	"github.com/simp-lee/personapi/internal/module/person"
)

func testDeps(t *testing.T) *RouteDeps {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.Person{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := person.NewPersonService(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	module := person.NewModule(person.NewPersonHandler(svc))
	return &RouteDeps{Modules: []Module{module}, DB: db}
}

func TestRegisterRoutesValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := testDeps(t)

	if err := RegisterRoutes(nil, deps); err == nil {
		t.Error("expected error for nil router")
	}
	if err := RegisterRoutes(gin.New(), nil); err == nil {
		t.Error("expected error for nil deps")
	}
	if err := RegisterRoutes(gin.New(), &RouteDeps{}); err == nil {
		t.Error("expected error for no modules")
	}
	if err := RegisterRoutes(gin.New(), &RouteDeps{Modules: []Module{nil}}); err == nil {
		t.Error("expected error for nil module")
	}
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	if err := RegisterRoutes(engine, testDeps(t)); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" || body.Components["database"] != "ok" {
		t.Errorf("health = %+v", body)
	}
}

func TestHealthEndpointNilDB(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := testDeps(t)
	deps.DB = nil

	engine := gin.New()
	if err := RegisterRoutes(engine, deps); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want 503", rec.Code)
	}
}

func TestNoRouteEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	if err := RegisterRoutes(engine, testDeps(t)); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Success || body.Message != "not found" {
		t.Errorf("body = %+v", body)
	}
}

func TestPersonRoutesMounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	if err := RegisterRoutes(engine, testDeps(t)); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/persons", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/v1/persons = %d; want 200", rec.Code)
	}
}
