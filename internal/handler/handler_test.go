package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/folio/backend/internal/ratelimit"
	"github.com/folio/backend/internal/service"
)

func newTestMux(repo *mockSubmissionRepository) http.Handler {
	contact := NewContactHandler(
		service.NewContactService(repo),
		ratelimit.NewWindow(ratelimit.DefaultLimit, ratelimit.DefaultWindow),
	)
	return Routes(New(repo), contact)
}

func TestRoutes_ContactPaths(t *testing.T) {
	for _, path := range []string{"/api/contact", "/contact"} {
		t.Run(path, func(t *testing.T) {
			repo := &mockSubmissionRepository{}
			mux := newTestMux(repo)

			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(validBody))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
			}

			rec = httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("expected preflight 200, got %d", rec.Code)
			}
			assertCORS(t, rec)

			rec = httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected 405, got %d", rec.Code)
			}
		})
	}
}

func TestRoutes_Health(t *testing.T) {
	mux := newTestMux(&mockSubmissionRepository{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	RequestLogger(inner).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("expected status 418, got %v", entry["status"])
	}
	if entry["bytes"] != float64(len("short and stout")) {
		t.Errorf("expected bytes %d, got %v", len("short and stout"), entry["bytes"])
	}
	if entry["client_ip"] != "203.0.113.50" {
		t.Errorf("expected client_ip 203.0.113.50, got %v", entry["client_ip"])
	}
}
