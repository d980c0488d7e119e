package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/discount-pro/internal/service"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Sessions     *service.SessionRegistry
	Catalog      *service.CatalogService
	Tokens       *service.ClientTokens
	Limiter      *service.AttemptLimiter
	CookieSecure bool
	// Now decides coupon expiry. Defaults to time.Now.
	Now func() time.Time
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	pages := NewPageHandler(d.Catalog, d.Now)
	auth := NewAuthHandler(d.Limiter)
	profile := NewProfileHandler(d.Catalog, d.Now)
	coupons := NewCouponHandler(d.Catalog, d.Now)

	// Every page route runs with the caller's client session loaded.
	app := func(h http.HandlerFunc) http.Handler {
		return ClientSession(d.Sessions, d.Tokens, d.CookieSecure, h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return ClientSession(d.Sessions, d.Tokens, d.CookieSecure, RequireAuth(h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(d.Sessions))

	mux.Handle("GET /{$}", app(pages.HandleHome))
	mux.Handle("GET /brands", app(pages.HandleBrands))
	mux.Handle("GET /brand/{id}", app(pages.HandleBrand))

	mux.Handle("GET /auth/login", app(auth.HandleLoginPage))
	mux.Handle("POST /auth/login", app(auth.HandleLogin))
	mux.Handle("GET /auth/register", app(auth.HandleRegisterPage))
	mux.Handle("POST /auth/register", app(auth.HandleRegister))
	mux.Handle("GET /auth/forgot-password", app(auth.HandleForgotPasswordPage))
	mux.Handle("POST /auth/forgot-password", app(auth.HandleForgotPassword))
	mux.Handle("POST /auth/logout", app(auth.HandleLogout))

	mux.Handle("GET /my-profile", protected(profile.HandleProfile))
	mux.Handle("POST /my-profile", protected(profile.HandleUpdateProfile))

	mux.Handle("POST /coupons/{id}/save", app(coupons.HandleSave))
	mux.Handle("POST /coupons/{id}/remove", app(coupons.HandleRemove))

	mux.Handle("GET /api/session", app(HandleSession))

	mux.Handle("/", app(pages.HandleNotFound))
}
