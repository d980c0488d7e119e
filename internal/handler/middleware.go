package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/discount-pro/internal/service"
)

type contextKey string

const clientSessionKey contextKey = "client_session"

// ClientCookie names the cookie carrying the signed client ID.
const ClientCookie = "client_token"

// SessionFromContext returns the client session loaded by ClientSession.
// Returns nil outside that middleware.
func SessionFromContext(ctx context.Context) *service.ClientSession {
	cs, _ := ctx.Value(clientSessionKey).(*service.ClientSession)
	return cs
}

// ClientSession identifies the browser from its client cookie, issuing a
// new client ID when the cookie is missing or invalid, and injects the
// client's session into the request context.
func ClientSession(sessions *service.SessionRegistry, tokens *service.ClientTokens, cookieSecure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := ""
		if cookie, err := r.Cookie(ClientCookie); err == nil {
			clientID, _ = tokens.Validate(cookie.Value)
		}

		if clientID == "" {
			clientID = uuid.NewString()
			token, err := tokens.Issue(clientID)
			if err != nil {
				slog.Error("issue client token", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   cookieSecure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(tokens.TTL().Seconds()),
			})
			logNewClient(r, clientID)
		}

		cs, err := sessions.Get(r.Context(), clientID)
		if err != nil {
			slog.Error("load client session", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer sessions.Release(cs)

		ctx := context.WithValue(r.Context(), clientSessionKey, cs)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func logNewClient(r *http.Request, clientID string) {
	ua := useragent.New(r.UserAgent())
	browser, version := ua.Browser()
	slog.Info("new client",
		"client", clientID,
		"browser", browser,
		"version", version,
		"os", ua.OS(),
		"mobile", ua.Mobile(),
		"bot", ua.Bot(),
	)
}

// RequireAuth redirects anonymous clients to the login page, remembering
// where they were headed. Datastar requests get an SSE redirect instead.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs := SessionFromContext(r.Context())
		if cs == nil || !cs.IsAuthenticated() {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/auth/login"
	if r.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	if r.Header.Get("Datastar-Request") == "true" {
		sse := datastar.NewSSE(w, r)
		sse.Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// SecurityHeaders sets response headers common to every route.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// Datastar evaluates expressions at runtime and needs unsafe-eval.
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' https://cdn.jsdelivr.net 'unsafe-eval'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' https://images.pexels.com data:; "+
				"connect-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequestLogger logs one line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
