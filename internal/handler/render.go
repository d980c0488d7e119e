package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/service"
	"github.com/msomdec/discount-pro/internal/view"
)

// render writes a full HTML page with the given status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}

// page builds the per-request page data and drains pending toasts into it.
func page(r *http.Request, title string) view.Page {
	p := view.Page{Title: title}
	if cs := SessionFromContext(r.Context()); cs != nil {
		p.User = cs.Current()
		p.Toasts = cs.Toasts.Drain()
	}
	return p
}

func renderNotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, view.NotFoundPage(page(r, "Page Not Found")))
}

// couponItems prepares coupons for display to user, which may be nil.
// Coupons of unknown brands are still shown, without a brand header.
func couponItems(catalog *service.CatalogService, user *domain.User, coupons []domain.Coupon, now time.Time, inProfile bool) []view.CouponItem {
	items := make([]view.CouponItem, 0, len(coupons))
	for _, c := range coupons {
		items = append(items, couponItem(catalog, user, c, now, inProfile))
	}
	return items
}

func couponItem(catalog *service.CatalogService, user *domain.User, c domain.Coupon, now time.Time, inProfile bool) view.CouponItem {
	item := view.CouponItem{
		Coupon:    c,
		Expired:   c.Expired(now),
		CanSave:   user != nil,
		Saved:     user != nil && user.HasSaved(c.ID),
		InProfile: inProfile,
	}
	if b, err := catalog.FindBrandByID(c.BrandID); err == nil {
		item.Brand = &b
	}
	return item
}
