package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/discount-pro/internal/handler"
	"github.com/msomdec/discount-pro/internal/service"
)

// profileWithoutAuth serves the profile routes behind ClientSession only, so
// the handler sees a client that is not logged in.
func profileWithoutAuth(t *testing.T, serve func(*handler.ProfileHandler) http.HandlerFunc) http.Handler {
	t.Helper()
	app := newTestApp(t, 10)
	h := handler.NewProfileHandler(service.NewCatalogService(), func() time.Time { return testNow })
	return handler.ClientSession(app.sessions, app.tokens, false, serve(h))
}

func TestProfileHandler_LoggedOutRedirectsToLogin(t *testing.T) {
	srv := profileWithoutAuth(t, func(h *handler.ProfileHandler) http.HandlerFunc { return h.HandleProfile })

	req := httptest.NewRequest(http.MethodGet, "/my-profile?tab=settings", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	want := "/auth/login?next=" + url.QueryEscape("/my-profile?tab=settings")
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("expected redirect to %q, got %q", want, got)
	}
}

func TestProfileHandler_UpdateLoggedOutRedirectsToLogin(t *testing.T) {
	srv := profileWithoutAuth(t, func(h *handler.ProfileHandler) http.HandlerFunc { return h.HandleUpdateProfile })

	// Invalid and valid forms both end at the login page.
	for _, body := range []string{"name=&email=bad", "name=Ann&email=ann%40x.com"} {
		req := httptest.NewRequest(http.MethodPost, "/my-profile", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("body %q: expected 303, got %d", body, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "/auth/login" {
			t.Fatalf("body %q: expected redirect to login, got %q", body, got)
		}
	}
}
