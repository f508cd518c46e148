package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridianshop/paygate/internal/config"
	"github.com/meridianshop/paygate/internal/test"
)

func newRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(&test.ReconcilerFacadeStub{}, cfg, logger)
}

func TestSetup_WebhookRoute(t *testing.T) {
	r := newRouter(t, &config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payanchor", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

func TestSetup_UnknownRoute(t *testing.T) {
	r := newRouter(t, &config.Config{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

func TestSetup_OpsRoutesGuarded(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("staff-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	r := newRouter(t, &config.Config{OpsAPIKeyHash: string(hash)})

	for _, path := range []string{"/api/ops/alerts", "/api/ops/failed-notifications", "/api/ops/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without key, got %d", path, w.Code)
		}

		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer staff-key")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 with key, got %d", path, w.Code)
		}
	}
}

func TestSetup_WebhookNotGzippedByDefault(t *testing.T) {
	r := newRouter(t, &config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payanchor", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if enc := w.Header().Get("Content-Encoding"); enc == "gzip" {
		t.Fatal("response must not be gzipped without Accept-Encoding")
	}
}
