package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/discount-pro/internal/handler"
	"github.com/msomdec/discount-pro/internal/repository/sqlite"
	"github.com/msomdec/discount-pro/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

// All catalog coupons are still valid on this date.
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testApp struct {
	srv      *httptest.Server
	sessions *service.SessionRegistry
	tokens   *service.ClientTokens
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestApp(t *testing.T, attemptBurst int) *testApp {
	t.Helper()
	return newTestAppOn(t, newTestDB(t), attemptBurst)
}

// newTestAppOn starts a server over an existing database, as a restarted
// process would.
func newTestAppOn(t *testing.T, db *sqlite.DB, attemptBurst int) *testApp {
	t.Helper()
	// Use cost 4 for fast tests.
	if err := service.SeedDirectory(context.Background(), db.Users(), 4); err != nil {
		t.Fatalf("SeedDirectory: %v", err)
	}

	sessions := service.NewSessionRegistry(db.Users(), db.KeyValues(), nil, service.RegistryConfig{
		IdleTTL: time.Hour,
		Options: []service.SessionOption{
			service.WithLatency(service.NoLatency),
			service.WithBcryptCost(4),
		},
	})
	tokens := service.NewClientTokens(testJWTSecret, time.Hour)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Sessions: sessions,
		Catalog:  service.NewCatalogService(),
		Tokens:   tokens,
		Limiter:  service.NewAttemptLimiter(1, attemptBurst),
		Now:      func() time.Time { return testNow },
	})

	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return &testApp{srv: srv, sessions: sessions, tokens: tokens}
}

// newBrowser returns a client with its own cookie jar that does not follow
// redirects.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // don't follow redirects automatically
		},
	}
}

// do sends a request and returns the status, headers and body.
func do(t *testing.T, client *http.Client, req *http.Request) (int, http.Header, string) {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, resp.Header, string(body)
}

func get(t *testing.T, client *http.Client, target string) (int, http.Header, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return do(t, client, req)
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) (int, http.Header, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, client, req)
}

// datastarPost mimics a datastar @post action.
func datastarPost(t *testing.T, client *http.Client, target string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Datastar-Request", "true")
	status, _, body := do(t, client, req)
	return status, body
}
