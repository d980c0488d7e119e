// Package view renders the HTML pages and fragments of the site. The
// components are written in templ; run `templ generate` after editing a
// .templ file.
package view

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/msomdec/discount-pro/internal/domain"
)

// Page carries what every full page needs from the current request.
type Page struct {
	Title  string
	User   *domain.User
	Toasts []domain.Notification
}

// AuthForm carries the values echoed back into an auth form after a failed
// submission.
type AuthForm struct {
	Name  string
	Email string
	Next  string
	Error string
}

// CouponItem is a coupon together with how the current viewer sees it.
type CouponItem struct {
	Coupon domain.Coupon
	// Brand is shown above the coupon when set.
	Brand   *domain.Brand
	Expired bool
	Saved   bool
	// CanSave is true for authenticated viewers.
	CanSave bool
	// InProfile makes un-saving drop the card instead of toggling it.
	InProfile bool
}

// Profile tabs.
const (
	TabCoupons  = "coupons"
	TabSettings = "settings"
)

// CouponCardID is the element id of a coupon card, used as the SSE patch target.
func CouponCardID(couponID string) string {
	return "coupon-" + couponID
}

func pageTitle(title string) string {
	if title == "" {
		return "Discount PRO"
	}
	return title + " | Discount PRO"
}

func brandURL(id string) templ.SafeURL {
	return templ.URL("/brand/" + url.PathEscape(id))
}

func categoryURL(category string) templ.SafeURL {
	return templ.URL("/brands?category=" + url.QueryEscape(category))
}

// toggleAction is the datastar expression posting a save or remove for the
// card's coupon.
func toggleAction(item CouponItem) string {
	target := "/coupons/" + url.PathEscape(item.Coupon.ID) + "/save"
	if item.Saved {
		target = "/coupons/" + url.PathEscape(item.Coupon.ID) + "/remove"
		if item.InProfile {
			target += "?from=profile"
		}
	}
	return "@post(" + jsString(target) + ")"
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

func tabClass(active bool) string {
	if active {
		return "tab active"
	}
	return "tab"
}

func monthYear(t time.Time) string {
	return t.Format("January 2006")
}
