package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/simp-lee/personapi/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080, Mode: "debug"},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "app.db")},
		},
		Log: config.LogConfig{Level: "error", Format: "text"},
	}
}

func TestNewNilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewServesRequests(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d; want 200", rec.Code)
	}

	// Debug mode runs migrations so the API is usable right away.
	body := strings.NewReader(`{"name":"Alice","email":"alice@example.com","age":30}`)
	req := httptest.NewRequest("POST", "/api/v1/persons", body)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("POST /api/v1/persons = %d body %s; want 201", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Errorf("envelope = %s", rec.Body.String())
	}
}

func TestNewRejectsBadMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Mode = "production"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestResolveCORSConfig(t *testing.T) {
	// Configured allowlist wins in any mode.
	got := resolveCORSConfig("release", []string{"https://app.example.com"})
	if len(got.AllowOrigins) != 1 || got.AllowOrigins[0] != "https://app.example.com" {
		t.Errorf("AllowOrigins = %v", got.AllowOrigins)
	}

	// Release mode without an allowlist denies cross-origin requests.
	got = resolveCORSConfig("release", nil)
	if len(got.AllowOrigins) != 0 {
		t.Errorf("release AllowOrigins = %v; want empty", got.AllowOrigins)
	}

	// Debug mode defaults to permissive.
	got = resolveCORSConfig("debug", nil)
	if len(got.AllowOrigins) != 1 || got.AllowOrigins[0] != "*" {
		t.Errorf("debug AllowOrigins = %v; want wildcard", got.AllowOrigins)
	}
}

type fakeServer struct {
	listenErr error
	started   chan struct{}
	release   chan struct{}
	shutdown  bool
}

func (f *fakeServer) ListenAndServe() error {
	if f.started != nil {
		close(f.started)
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.release
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdown = true
	close(f.release)
	return nil
}

func TestRunServerError(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	boom := errors.New("listen tcp: address in use")
	restore := newHTTPServer
	newHTTPServer = func(addr string, handler http.Handler) httpServer {
		return &fakeServer{listenErr: boom}
	}
	defer func() { newHTTPServer = restore }()

	if err := a.Run(); err == nil || !errors.Is(err, boom) {
		t.Errorf("Run = %v; want wrapped listen error", err)
	}
}

func TestRunGracefulShutdown(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	srv := &fakeServer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	restoreServer := newHTTPServer
	newHTTPServer = func(addr string, handler http.Handler) httpServer { return srv }
	defer func() { newHTTPServer = restoreServer }()

	ctx, cancel := context.WithCancel(context.Background())
	restoreNotify := notifyContext
	notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
		if len(signals) != 2 || signals[0] != syscall.SIGINT || signals[1] != syscall.SIGTERM {
			t.Errorf("signals = %v; want SIGINT, SIGTERM", signals)
		}
		return ctx, cancel
	}
	defer func() { notifyContext = restoreNotify }()

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v; want nil on graceful shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after shutdown signal")
	}

	if !srv.shutdown {
		t.Error("expected Shutdown to be called")
	}
}
