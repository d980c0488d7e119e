package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/discount-pro/internal/service"
	"github.com/msomdec/discount-pro/internal/view"
)

// AuthHandler serves the login, registration and password reset forms.
type AuthHandler struct {
	limiter *service.AttemptLimiter
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(limiter *service.AttemptLimiter) *AuthHandler {
	return &AuthHandler{limiter: limiter}
}

// HandleLoginPage renders the login form. Logged-in clients go home.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	cs := SessionFromContext(r.Context())
	if cs.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	f := view.AuthForm{Next: safeNext(r.URL.Query().Get("next"))}
	render(w, r, http.StatusOK, view.LoginPage(page(r, "Login"), f))
}

// HandleLogin processes the login form.
// POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	cs := SessionFromContext(r.Context())
	form := parseLoginForm(r)
	fail := func(status int, msg string) {
		f := view.AuthForm{Email: form.Email, Next: safeNext(form.Next), Error: msg}
		render(w, r, status, view.LoginPage(page(r, "Login"), f))
	}

	if err := validate.Struct(form); err != nil {
		fail(http.StatusUnprocessableEntity, formProblem(err))
		return
	}
	if !h.limiter.Allow("login:" + clientIP(r)) {
		fail(http.StatusTooManyRequests, msgTooMany)
		return
	}

	ok, err := cs.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		slog.Error("login user", "error", err)
		fail(http.StatusInternalServerError, msgUnexpected)
		return
	}
	if !ok {
		fail(http.StatusUnauthorized, msgBadLogin)
		return
	}

	http.Redirect(w, r, safeNext(form.Next), http.StatusSeeOther)
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	cs := SessionFromContext(r.Context())
	if cs.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, view.RegisterPage(page(r, "Sign Up"), view.AuthForm{}))
}

// HandleRegister processes the registration form.
// POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	cs := SessionFromContext(r.Context())
	form := parseRegisterForm(r)
	fail := func(status int, msg string) {
		f := view.AuthForm{Name: form.Name, Email: form.Email, Error: msg}
		render(w, r, status, view.RegisterPage(page(r, "Sign Up"), f))
	}

	if err := validate.Struct(form); err != nil {
		fail(http.StatusUnprocessableEntity, formProblem(err))
		return
	}
	if !h.limiter.Allow("register:" + clientIP(r)) {
		fail(http.StatusTooManyRequests, msgTooMany)
		return
	}

	ok, err := cs.Register(r.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		slog.Error("register user", "error", err)
		fail(http.StatusInternalServerError, msgUnexpected)
		return
	}
	if !ok {
		fail(http.StatusConflict, msgEmailTaken)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleForgotPasswordPage renders the password reset form.
func (h *AuthHandler) HandleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.ForgotPasswordPage(page(r, "Reset Password"), view.AuthForm{}, false))
}

// HandleForgotPassword processes the reset form. Nothing is actually sent.
// POST /auth/forgot-password
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	cs := SessionFromContext(r.Context())
	form := resetForm{Email: parseLoginForm(r).Email}
	fail := func(status int, msg string) {
		f := view.AuthForm{Email: form.Email, Error: msg}
		render(w, r, status, view.ForgotPasswordPage(page(r, "Reset Password"), f, false))
	}

	if form.Email == "" {
		fail(http.StatusUnprocessableEntity, msgEnterEmail)
		return
	}
	if err := validate.Struct(form); err != nil {
		fail(http.StatusUnprocessableEntity, formProblem(err))
		return
	}
	if !h.limiter.Allow("reset:" + clientIP(r)) {
		fail(http.StatusTooManyRequests, msgTooMany)
		return
	}

	ok, err := cs.RequestPasswordReset(r.Context(), form.Email)
	if err != nil {
		slog.Error("request password reset", "error", err)
		fail(http.StatusInternalServerError, msgUnexpected)
		return
	}
	if !ok {
		fail(http.StatusNotFound, msgEmailNotFound)
		return
	}

	render(w, r, http.StatusOK, view.ForgotPasswordPage(page(r, "Reset Password"), view.AuthForm{Email: form.Email}, true))
}

// HandleLogout ends the client's login.
// POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	cs := SessionFromContext(r.Context())
	if err := cs.Logout(r.Context()); err != nil {
		slog.Error("logout user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
