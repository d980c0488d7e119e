package handler

import (
	"errors"
	"html"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const (
	msgFillAllFields = "Please fill in all fields."
	msgInvalidEmail  = "Please enter a valid email address."
	msgTooLong       = "One of the fields is too long."
	msgEnterEmail    = "Please enter your email address"
	msgEmailNotFound = "Email not found"
	msgBadLogin      = "Invalid email or password."
	msgEmailTaken    = "An account with that email already exists."
	msgTooMany       = "Too many attempts. Please try again later."
	msgUnexpected    = "An unexpected error occurred. Please try again."
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Display names are plain text; any markup is dropped before storage.
	textPolicy = bluemonday.StrictPolicy()
)

type loginForm struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,max=72"`
	Next     string
}

type registerForm struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,max=72"`
}

type resetForm struct {
	Email string `validate:"required,email,max=254"`
}

type profileForm struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required,email,max=254"`
}

// cleanText strips markup and surrounding whitespace from a display string.
// StrictPolicy escapes entities, which the view would escape again.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Next:     r.PostFormValue("next"),
	}
}

func parseRegisterForm(r *http.Request) registerForm {
	return registerForm{
		Name:     cleanText(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

func parseProfileForm(r *http.Request) profileForm {
	return profileForm{
		Name:  cleanText(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
	}
}

// formProblem turns a validation error into the message shown above the form.
func formProblem(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgUnexpected
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return msgFillAllFields
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "email" {
			return msgInvalidEmail
		}
	}
	return msgTooLong
}

// safeNext only allows redirects to local paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// clientIP is the rate limiting key for form submissions.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
