package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/discount-pro/internal/service"
	"github.com/msomdec/discount-pro/internal/view"
)

// ProfileHandler serves the logged-in user's profile. Routes are wrapped in
// RequireAuth, but a concurrent logout can still clear the user mid-request.
type ProfileHandler struct {
	catalog *service.CatalogService
	now     func() time.Time
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(catalog *service.CatalogService, now func() time.Time) *ProfileHandler {
	return &ProfileHandler{catalog: catalog, now: now}
}

// HandleProfile renders the saved coupons or settings tab.
// GET /my-profile?tab=coupons|settings
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab != view.TabSettings {
		tab = view.TabCoupons
	}

	p := page(r, "My Profile")
	if p.User == nil {
		redirectToLogin(w, r)
		return
	}
	saved := couponItems(h.catalog, p.User, h.catalog.CouponsByIDs(p.User.SavedCoupons), h.now(), true)
	f := view.AuthForm{Name: p.User.Name, Email: p.User.Email}
	render(w, r, http.StatusOK, view.ProfilePage(p, tab, saved, f))
}

// HandleUpdateProfile saves a new name and email.
// POST /my-profile
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	cs := SessionFromContext(r.Context())
	if cs == nil {
		redirectToLogin(w, r)
		return
	}
	form := parseProfileForm(r)

	if err := validate.Struct(form); err != nil {
		p := page(r, "My Profile")
		if p.User == nil {
			redirectToLogin(w, r)
			return
		}
		f := view.AuthForm{Name: form.Name, Email: form.Email, Error: formProblem(err)}
		render(w, r, http.StatusUnprocessableEntity, view.ProfilePage(p, view.TabSettings, nil, f))
		return
	}

	ok, err := cs.UpdateProfile(r.Context(), form.Name, form.Email)
	if err != nil {
		slog.Error("update profile", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !ok {
		redirectToLogin(w, r)
		return
	}

	http.Redirect(w, r, "/my-profile?tab=settings", http.StatusSeeOther)
}
