package pages_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/EstateHub/marketplace-backend/internal/middleware"
	"github.com/EstateHub/marketplace-backend/internal/pages"
	"github.com/go-chi/chi/v5"
)

type staticAuth string

func (s staticAuth) Authenticate(r *http.Request) (string, error) { return string(s), nil }

func newRouter(userID string) http.Handler {
	paths := []string{"/dashboard", "/provider/rfq"}
	guard := middleware.NewRouteGuard(paths, "/signin", staticAuth(userID))

	r := chi.NewRouter()
	r.Use(guard.Middleware)
	pages.Mount(r, paths)
	r.Get("/about", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}

func TestShellBehindGuard(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter("user-5").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/provider/rfq", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var shell pages.Shell
	if err := json.Unmarshal(rec.Body.Bytes(), &shell); err != nil {
		t.Fatalf("invalid JSON: %s", rec.Body.String())
	}
	if shell.Page != "/provider/rfq" || shell.UserID != "user-5" {
		t.Errorf("unexpected shell: %+v", shell)
	}
}

func TestAnonymousRedirectedAboutServed(t *testing.T) {
	r := newRouter("")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if loc.Path != "/signin" {
		t.Errorf("expected sign-in redirect, got %s", loc)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected /about to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "Server is up!") {
		t.Errorf("unexpected root body %q", rec.Body.String())
	}
}
