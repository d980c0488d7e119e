package domain

import "time"

// CategoryAll is the pseudo-category that disables category filtering.
const CategoryAll = "All"

// Brand is a retailer whose coupons are listed in the catalog.
type Brand struct {
	ID                 string
	Name               string
	Logo               string
	Description        string
	Category           string
	Featured           bool
	DiscountPercentage int
}

// Coupon is a discount code offered by a brand.
type Coupon struct {
	ID                 string
	BrandID            string
	Code               string
	Description        string
	DiscountPercentage int
	ValidUntil         time.Time
	Terms              string
	CreatedAt          time.Time
}

// Expired reports whether the coupon is no longer valid at now.
func (c Coupon) Expired(now time.Time) bool {
	return !c.ValidUntil.After(now)
}
