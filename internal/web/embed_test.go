package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newStaticServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	if err := RegisterStaticRoutes(e); err != nil {
		t.Fatalf("RegisterStaticRoutes: %v", err)
	}
	return e
}

func TestServeViewerShell(t *testing.T) {
	e := newStaticServer(t)

	for _, p := range []string{"/", "/some/client/path"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status %d, want 200", p, rec.Code)
		}
		if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
			t.Errorf("GET %s: Cache-Control = %q, want no-cache", p, cc)
		}
		if !strings.Contains(rec.Body.String(), "<html") {
			t.Errorf("GET %s: response is not the viewer page", p)
		}
	}
}

func TestUnknownAPIPathIsNotShell(t *testing.T) {
	e := newStaticServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<html") {
		t.Error("unknown API path served the viewer page")
	}
}

func TestHasEmbeddedFiles(t *testing.T) {
	if !HasEmbeddedFiles() {
		t.Error("HasEmbeddedFiles() = false with an embedded dist/")
	}
}
