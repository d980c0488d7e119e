package handler_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

type sessionBody struct {
	Authenticated bool `json:"authenticated"`
	User          *struct {
		Name         string   `json:"name"`
		Email        string   `json:"email"`
		SavedCoupons []string `json:"savedCoupons"`
	} `json:"user"`
}

func readSession(t *testing.T, client *http.Client, base string) sessionBody {
	t.Helper()
	status, _, body := get(t, client, base+"/api/session")
	if status != http.StatusOK {
		t.Fatalf("GET /api/session: expected 200, got %d", status)
	}
	var s sessionBody
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if strings.Contains(body, "passwordHash") {
		t.Fatal("session JSON must not expose the credential hash")
	}
	return s
}

func TestIntegration_LoginBookmarkLogout(t *testing.T) {
	app := newTestApp(t, 10)
	base := app.srv.URL
	client := newBrowser(t)

	// 1. First visit issues a client cookie and renders the home page.
	status, _, body := get(t, client, base+"/")
	if status != http.StatusOK {
		t.Fatalf("home: expected 200, got %d", status)
	}
	if !strings.Contains(body, "Latest Coupons") || !strings.Contains(body, "NIKE25OFF") {
		t.Fatal("home: expected latest coupons")
	}
	if s := readSession(t, client, base); s.Authenticated {
		t.Fatal("expected anonymous session before login")
	}

	// 2. Login with a seeded account.
	status, header, _ := postForm(t, client, base+"/auth/login", url.Values{
		"email":    {"john@example.com"},
		"password": {"password123"},
		"next":     {"/brand/2"},
	})
	if status != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", status)
	}
	if loc := header.Get("Location"); loc != "/brand/2" {
		t.Fatalf("login: expected redirect to /brand/2, got %s", loc)
	}

	s := readSession(t, client, base)
	if !s.Authenticated || s.User.Name != "John Doe" {
		t.Fatalf("expected John Doe logged in, got %+v", s)
	}

	// 3. Save a coupon through the datastar endpoint.
	status, body = datastarPost(t, client, base+"/coupons/2/save")
	if status != http.StatusOK {
		t.Fatalf("save: expected 200, got %d", status)
	}
	if !strings.Contains(body, "datastar-patch-elements") {
		t.Fatalf("save: expected SSE patch, got:\n%s", body)
	}
	if !strings.Contains(body, "Coupon saved successfully") {
		t.Fatalf("save: expected success toast, got:\n%s", body)
	}
	if !strings.Contains(body, `id="coupon-2"`) || !strings.Contains(body, "Saved") {
		t.Fatalf("save: expected morphed card, got:\n%s", body)
	}

	// 4. Saving again reports a duplicate and changes nothing.
	_, body = datastarPost(t, client, base+"/coupons/2/save")
	if !strings.Contains(body, "Coupon already saved") {
		t.Fatalf("duplicate save: expected error toast, got:\n%s", body)
	}
	s = readSession(t, client, base)
	if got := strings.Join(s.User.SavedCoupons, ","); got != "1,3,5,2" {
		t.Fatalf("expected bookmarks 1,3,5,2, got %s", got)
	}

	// 5. The profile lists saved coupons.
	status, _, body = get(t, client, base+"/my-profile")
	if status != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", status)
	}
	for _, code := range []string{"NIKE25OFF", "APPLE15", "AMZN10", "NIKESHOES15"} {
		if !strings.Contains(body, code) {
			t.Fatalf("profile: expected saved coupon %s", code)
		}
	}

	// 6. Removing from the profile drops the card.
	status, body = datastarPost(t, client, base+"/coupons/2/remove?from=profile")
	if status != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", status)
	}
	if !strings.Contains(body, "#coupon-2") || !strings.Contains(body, "Coupon removed from saved list") {
		t.Fatalf("remove: expected card removal and toast, got:\n%s", body)
	}

	// 7. Logout.
	status, header, _ = postForm(t, client, base+"/auth/logout", nil)
	if status != http.StatusSeeOther || header.Get("Location") != "/" {
		t.Fatalf("logout: expected 303 to /, got %d %s", status, header.Get("Location"))
	}
	if s := readSession(t, client, base); s.Authenticated {
		t.Fatal("expected anonymous session after logout")
	}

	// 8. Profile now redirects to login.
	status, header, _ = get(t, client, base+"/my-profile")
	if status != http.StatusSeeOther {
		t.Fatalf("profile after logout: expected 303, got %d", status)
	}
	if loc := header.Get("Location"); loc != "/auth/login?next=%2Fmy-profile" {
		t.Fatalf("profile after logout: unexpected redirect %s", loc)
	}
}

func TestIntegration_SessionSurvivesRestart(t *testing.T) {
	db := newTestDB(t)
	first := newTestAppOn(t, db, 10)
	client := newBrowser(t)

	status, _, _ := postForm(t, client, first.srv.URL+"/auth/login", url.Values{
		"email":    {"jane@example.com"},
		"password": {"password456"},
	})
	if status != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", status)
	}
	datastarPost(t, client, first.srv.URL+"/coupons/9/save")

	// A fresh server shares nothing in memory with the first one. The jar
	// sends the client cookie to it since cookies ignore ports.
	second := newTestAppOn(t, db, 10)
	s := readSession(t, client, second.srv.URL)
	if !s.Authenticated || s.User.Email != "jane@example.com" {
		t.Fatalf("expected jane restored from storage, got %+v", s)
	}
	if got := strings.Join(s.User.SavedCoupons, ","); got != "2,4,6,9" {
		t.Fatalf("expected bookmarks 2,4,6,9 after restart, got %s", got)
	}
}

func TestIntegration_ClientsDoNotShareLogin(t *testing.T) {
	app := newTestApp(t, 10)
	alice := newBrowser(t)
	bob := newBrowser(t)

	postForm(t, alice, app.srv.URL+"/auth/login", url.Values{
		"email":    {"john@example.com"},
		"password": {"password123"},
	})

	if s := readSession(t, bob, app.srv.URL); s.Authenticated {
		t.Fatal("expected a second browser to stay anonymous")
	}
	if s := readSession(t, alice, app.srv.URL); !s.Authenticated {
		t.Fatal("expected the first browser to be logged in")
	}
}

func TestIntegration_RegisterThenDuplicate(t *testing.T) {
	app := newTestApp(t, 10)
	base := app.srv.URL
	client := newBrowser(t)

	status, header, _ := postForm(t, client, base+"/auth/register", url.Values{
		"name":     {"Ann <b>Lee</b>"},
		"email":    {"ann@example.com"},
		"password": {"pw"},
	})
	if status != http.StatusSeeOther || header.Get("Location") != "/" {
		t.Fatalf("register: expected 303 to /, got %d %s", status, header.Get("Location"))
	}
	s := readSession(t, client, base)
	if !s.Authenticated || s.User.Name != "Ann Lee" || len(s.User.SavedCoupons) != 0 {
		t.Fatalf("unexpected session after register: %+v", s.User)
	}

	other := newBrowser(t)
	status, _, body := postForm(t, other, base+"/auth/register", url.Values{
		"name":     {"Bob"},
		"email":    {"ann@example.com"},
		"password": {"pw2"},
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", status)
	}
	if !strings.Contains(body, "An account with that email already exists.") {
		t.Fatal("duplicate register: expected error message")
	}
	if s := readSession(t, other, base); s.Authenticated {
		t.Fatal("duplicate register must not log in")
	}
}

func TestIntegration_LoginFailures(t *testing.T) {
	app := newTestApp(t, 10)
	client := newBrowser(t)

	tests := []struct {
		name   string
		form   url.Values
		status int
		msg    string
	}{
		{"empty fields", url.Values{"email": {""}, "password": {""}}, http.StatusUnprocessableEntity, "Please fill in all fields."},
		{"bad email", url.Values{"email": {"john"}, "password": {"x"}}, http.StatusUnprocessableEntity, "Please enter a valid email address."},
		{"wrong password", url.Values{"email": {"john@example.com"}, "password": {"wrong"}}, http.StatusUnauthorized, "Invalid email or password."},
		{"unknown email", url.Values{"email": {"ghost@example.com"}, "password": {"password123"}}, http.StatusUnauthorized, "Invalid email or password."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, body := postForm(t, client, app.srv.URL+"/auth/login", tt.form)
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
			if !strings.Contains(body, tt.msg) {
				t.Fatalf("expected message %q", tt.msg)
			}
		})
	}

	if s := readSession(t, client, app.srv.URL); s.Authenticated {
		t.Fatal("failed logins must not authenticate")
	}
}

func TestIntegration_LoginRateLimited(t *testing.T) {
	app := newTestApp(t, 2)
	client := newBrowser(t)
	form := url.Values{"email": {"john@example.com"}, "password": {"wrong"}}

	for i := 0; i < 2; i++ {
		if status, _, _ := postForm(t, client, app.srv.URL+"/auth/login", form); status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, status)
		}
	}
	status, _, body := postForm(t, client, app.srv.URL+"/auth/login", form)
	if status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	if !strings.Contains(body, "Too many attempts") {
		t.Fatal("expected rate limit message")
	}
}

func TestIntegration_ForgotPassword(t *testing.T) {
	app := newTestApp(t, 10)
	client := newBrowser(t)
	target := app.srv.URL + "/auth/forgot-password"

	status, _, body := postForm(t, client, target, url.Values{"email": {""}})
	if status != http.StatusUnprocessableEntity || !strings.Contains(body, "Please enter your email address") {
		t.Fatalf("empty email: got %d", status)
	}

	status, _, body = postForm(t, client, target, url.Values{"email": {"ghost@example.com"}})
	if status != http.StatusNotFound || !strings.Contains(body, "Email not found") {
		t.Fatalf("unknown email: got %d", status)
	}

	status, _, body = postForm(t, client, target, url.Values{"email": {"jane@example.com"}})
	if status != http.StatusOK || !strings.Contains(body, "Reset link sent") {
		t.Fatalf("known email: got %d", status)
	}
	if !strings.Contains(body, "Password reset instructions sent to your email") {
		t.Fatal("known email: expected toast on the confirmation page")
	}
}

func TestIntegration_UpdateProfile(t *testing.T) {
	app := newTestApp(t, 10)
	base := app.srv.URL
	client := newBrowser(t)
	postForm(t, client, base+"/auth/login", url.Values{
		"email":    {"john@example.com"},
		"password": {"password123"},
	})

	status, _, body := postForm(t, client, base+"/my-profile", url.Values{"name": {""}, "email": {"j@example.com"}})
	if status != http.StatusUnprocessableEntity || !strings.Contains(body, "Please fill in all fields.") {
		t.Fatalf("empty name: got %d", status)
	}

	status, header, _ := postForm(t, client, base+"/my-profile", url.Values{
		"name":  {"Johnny"},
		"email": {"johnny@example.com"},
	})
	if status != http.StatusSeeOther || header.Get("Location") != "/my-profile?tab=settings" {
		t.Fatalf("update: expected 303 to settings, got %d %s", status, header.Get("Location"))
	}

	status, _, body = get(t, client, base+"/my-profile?tab=settings")
	if status != http.StatusOK {
		t.Fatalf("settings: expected 200, got %d", status)
	}
	if !strings.Contains(body, "Profile updated successfully") || !strings.Contains(body, "johnny@example.com") {
		t.Fatal("settings: expected updated profile and toast")
	}
}

func TestIntegration_BookmarksRequireLogin(t *testing.T) {
	app := newTestApp(t, 10)
	client := newBrowser(t)

	status, body := datastarPost(t, client, app.srv.URL+"/coupons/1/save")
	if status != http.StatusOK {
		t.Fatalf("expected SSE redirect response, got %d", status)
	}
	if !strings.Contains(body, "/auth/login") {
		t.Fatalf("expected redirect to login, got:\n%s", body)
	}

	status, _ = datastarPost(t, client, app.srv.URL+"/coupons/999/save")
	if status != http.StatusNotFound {
		t.Fatalf("unknown coupon: expected 404, got %d", status)
	}
}

func TestIntegration_CatalogPages(t *testing.T) {
	app := newTestApp(t, 10)
	client := newBrowser(t)
	base := app.srv.URL

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/brands", http.StatusOK, "Samsung"},
		{"/brands?category=Fashion", http.StatusOK, "Adidas"},
		{"/brands?search=zzz", http.StatusOK, "No brands found"},
		{"/brand/2", http.StatusOK, "APPLECARE10"},
		{"/brand/2", http.StatusOK, "Similar Brands"},
		{"/brand/99", http.StatusNotFound, "Page Not Found"},
		{"/does-not-exist", http.StatusNotFound, "Page Not Found"},
		{"/auth/login", http.StatusOK, `action="/auth/login"`},
		{"/auth/register", http.StatusOK, `action="/auth/register"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, _, body := get(t, client, base+tt.path)
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
			if !strings.Contains(body, tt.want) {
				t.Fatalf("expected %q in body", tt.want)
			}
		})
	}
}
