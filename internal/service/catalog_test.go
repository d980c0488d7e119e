package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/service"
)

func brandNames(brands []domain.Brand) []string {
	names := make([]string, 0, len(brands))
	for _, b := range brands {
		names = append(names, b.Name)
	}
	return names
}

func couponIDs(coupons []domain.Coupon) []string {
	ids := make([]string, 0, len(coupons))
	for _, c := range coupons {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCatalog_Counts(t *testing.T) {
	c := service.NewCatalogService()

	assert.Len(t, c.ListBrands(), 8)
	assert.Len(t, c.ListCoupons(), 10)
	assert.Equal(t, []string{"All", "Fashion", "Technology", "Food & Beverage", "Retail", "Travel", "Entertainment"}, c.Categories())
}

func TestCatalog_FeaturedBrands(t *testing.T) {
	c := service.NewCatalogService()
	assert.Equal(t, []string{"Nike", "Apple", "Starbucks", "Samsung"}, brandNames(c.FeaturedBrands()))
}

func TestCatalog_FindBrandByID(t *testing.T) {
	c := service.NewCatalogService()

	b, err := c.FindBrandByID("3")
	require.NoError(t, err)
	assert.Equal(t, "Starbucks", b.Name)
	assert.Equal(t, "Food & Beverage", b.Category)

	_, err = c.FindBrandByID("99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_SearchBrands(t *testing.T) {
	c := service.NewCatalogService()

	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"no filters", "", "", []string{"Nike", "Apple", "Starbucks", "Amazon", "Adidas", "McDonald's", "Samsung", "Target"}},
		{"all category", "", "All", []string{"Nike", "Apple", "Starbucks", "Amazon", "Adidas", "McDonald's", "Samsung", "Target"}},
		{"category only", "", "Fashion", []string{"Nike", "Adidas"}},
		{"name case-insensitive", "nIKe", "", []string{"Nike"}},
		{"description match", "coffeehouses", "", []string{"Starbucks"}},
		{"search and category", "multinational", "Technology", []string{"Apple", "Samsung"}},
		{"empty category", "", "Travel", []string{}},
		{"no match", "zzz", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, brandNames(c.SearchBrands(tt.search, tt.category)))
		})
	}
}

func TestCatalog_RelatedBrands(t *testing.T) {
	c := service.NewCatalogService()

	apple, err := c.FindBrandByID("2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Samsung"}, brandNames(c.RelatedBrands(apple, 3)))

	nike, err := c.FindBrandByID("1")
	require.NoError(t, err)
	assert.Empty(t, c.RelatedBrands(nike, 0))
	assert.Equal(t, []string{"Adidas"}, brandNames(c.RelatedBrands(nike, 3)))
}

func TestCatalog_Coupons(t *testing.T) {
	c := service.NewCatalogService()

	assert.Equal(t, []string{"1", "2", "3", "4"}, couponIDs(c.LatestCoupons(4)))
	assert.Len(t, c.LatestCoupons(50), 10)
	assert.Equal(t, []string{"3", "10"}, couponIDs(c.CouponsForBrand("2")))
	assert.Empty(t, c.CouponsForBrand("99"))

	coupon, err := c.FindCouponByID("7")
	require.NoError(t, err)
	assert.Equal(t, "MCD15", coupon.Code)

	_, err = c.FindCouponByID("0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_CouponsByIDsSkipsUnknown(t *testing.T) {
	c := service.NewCatalogService()
	assert.Equal(t, []string{"1", "3", "5"}, couponIDs(c.CouponsByIDs([]string{"5", "ghost", "1", "3"})))
}

func TestCoupon_Expired(t *testing.T) {
	c := service.NewCatalogService()
	coupon, err := c.FindCouponByID("1")
	require.NoError(t, err)

	assert.False(t, coupon.Expired(time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, coupon.Expired(coupon.ValidUntil))
	assert.True(t, coupon.Expired(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := service.NewCatalogService()
	brands := c.ListBrands()
	brands[0].Name = "Changed"

	b, err := c.FindBrandByID("1")
	require.NoError(t, err)
	assert.Equal(t, "Nike", b.Name)
}
