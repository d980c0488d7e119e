package service

import (
	"slices"
	"strings"
	"time"

	"github.com/msomdec/discount-pro/internal/domain"
)

// CatalogService serves the read-only brand and coupon catalog. The data
// set is small and fixed, so every lookup is a linear scan.
type CatalogService struct {
	brands     []domain.Brand
	coupons    []domain.Coupon
	categories []string
}

// NewCatalogService returns a catalog over the built-in data set.
func NewCatalogService() *CatalogService {
	return &CatalogService{
		brands:     catalogBrands,
		coupons:    catalogCoupons,
		categories: catalogCategories,
	}
}

func (c *CatalogService) ListBrands() []domain.Brand {
	return slices.Clone(c.brands)
}

func (c *CatalogService) FindBrandByID(id string) (domain.Brand, error) {
	for _, b := range c.brands {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Brand{}, domain.ErrNotFound
}

func (c *CatalogService) FeaturedBrands() []domain.Brand {
	var out []domain.Brand
	for _, b := range c.brands {
		if b.Featured {
			out = append(out, b)
		}
	}
	return out
}

// SearchBrands filters by a case-insensitive substring of name or
// description, and by category unless category is empty or "All".
func (c *CatalogService) SearchBrands(search, category string) []domain.Brand {
	needle := strings.ToLower(strings.TrimSpace(search))
	var out []domain.Brand
	for _, b := range c.brands {
		if category != "" && category != domain.CategoryAll && b.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Name), needle) &&
			!strings.Contains(strings.ToLower(b.Description), needle) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// RelatedBrands returns up to n other brands in the same category.
func (c *CatalogService) RelatedBrands(brand domain.Brand, n int) []domain.Brand {
	var out []domain.Brand
	for _, b := range c.brands {
		if len(out) == n {
			break
		}
		if b.Category == brand.Category && b.ID != brand.ID {
			out = append(out, b)
		}
	}
	return out
}

func (c *CatalogService) Categories() []string {
	return slices.Clone(c.categories)
}

func (c *CatalogService) ListCoupons() []domain.Coupon {
	return slices.Clone(c.coupons)
}

// LatestCoupons returns the first n coupons of the catalog.
func (c *CatalogService) LatestCoupons(n int) []domain.Coupon {
	n = min(n, len(c.coupons))
	return slices.Clone(c.coupons[:n])
}

func (c *CatalogService) FindCouponByID(id string) (domain.Coupon, error) {
	for _, cp := range c.coupons {
		if cp.ID == id {
			return cp, nil
		}
	}
	return domain.Coupon{}, domain.ErrNotFound
}

func (c *CatalogService) CouponsForBrand(brandID string) []domain.Coupon {
	var out []domain.Coupon
	for _, cp := range c.coupons {
		if cp.BrandID == brandID {
			out = append(out, cp)
		}
	}
	return out
}

// CouponsByIDs resolves bookmarks in catalog order. Unknown ids are skipped.
func (c *CatalogService) CouponsByIDs(ids []string) []domain.Coupon {
	var out []domain.Coupon
	for _, cp := range c.coupons {
		if slices.Contains(ids, cp.ID) {
			out = append(out, cp)
		}
	}
	return out
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

var catalogCategories = []string{
	domain.CategoryAll,
	"Fashion",
	"Technology",
	"Food & Beverage",
	"Retail",
	"Travel",
	"Entertainment",
}

var catalogBrands = []domain.Brand{
	{
		ID:                 "1",
		Name:               "Nike",
		Logo:               "https://images.pexels.com/photos/19677271/pexels-photo-19677271/free-photo-of-a-nike-logo-on-a-white-background.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
		Description:        "Nike, Inc. is an American multinational corporation that designs, develops, manufactures, and markets footwear, apparel, equipment, accessories, and services.",
		Category:           "Fashion",
		Featured:           true,
		DiscountPercentage: 25,
	},
	{
		ID:                 "2",
		Name:               "Apple",
		Logo:               "https://images.pexels.com/photos/1334597/pexels-photo-1334597.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
		Description:        "Apple Inc. is an American multinational technology company that designs, develops, and sells consumer electronics, computer software, and online services.",
		Category:           "Technology",
		Featured:           true,
		DiscountPercentage: 15,
	},
	{
		ID:                 "3",
		Name:               "Starbucks",
		Logo:               "https://images.pexels.com/photos/683039/pexels-photo-683039.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
		Description:        "Starbucks Corporation is an American multinational chain of coffeehouses and roastery reserves.",
		Category:           "Food & Beverage",
		Featured:           true,
		DiscountPercentage: 20,
	},
	{
		ID:                 "4",
		Name:               "Amazon",
		Logo:               "https://images.pexels.com/photos/607812/pexels-photo-607812.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
		Description:        "Amazon.com, Inc. is an American multinational technology company which focuses on e-commerce, cloud computing, digital streaming, and artificial intelligence.",
		Category:           "Retail",
		DiscountPercentage: 10,
	},
	{
		ID:                 "5",
		Name:               "Adidas",
		Logo:               "https://images.pexels.com/photos/7166802/pexels-photo-7166802.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
		Description:        "Adidas AG is a German multinational corporation that designs and manufactures shoes, clothing and accessories.",
		Category:           "Fashion",
		DiscountPercentage: 30,
	},
	{
		ID:                 "6",
		Name:               "McDonald's",
		Logo:               "https://images.pexels.com/photos/2347311/pexels-photo-2347311.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
		Description:        "McDonald's Corporation is an American fast food company, founded in 1940.",
		Category:           "Food & Beverage",
		DiscountPercentage: 15,
	},
	{
		ID:                 "7",
		Name:               "Samsung",
		Logo:               "https://images.pexels.com/photos/343457/pexels-photo-343457.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
		Description:        "Samsung Electronics Co., Ltd. is a South Korean multinational electronics company.",
		Category:           "Technology",
		Featured:           true,
		DiscountPercentage: 20,
	},
	{
		ID:                 "8",
		Name:               "Target",
		Logo:               "https://images.pexels.com/photos/4199098/pexels-photo-4199098.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
		Description:        "Target Corporation is an American retail corporation.",
		Category:           "Retail",
		DiscountPercentage: 25,
	},
}

var catalogCoupons = []domain.Coupon{
	{
		ID:                 "1",
		BrandID:            "1",
		Code:               "NIKE25OFF",
		Description:        "25% off on all Nike products",
		DiscountPercentage: 25,
		ValidUntil:         day(2025, time.December, 31),
		Terms:              "Cannot be combined with other offers. Valid on regular-priced items only.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "2",
		BrandID:            "1",
		Code:               "NIKESHOES15",
		Description:        "15% off on Nike shoes",
		DiscountPercentage: 15,
		ValidUntil:         day(2025, time.August, 31),
		Terms:              "Valid only on footwear. Cannot be combined with other offers.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "3",
		BrandID:            "2",
		Code:               "APPLE15",
		Description:        "15% off on Apple accessories",
		DiscountPercentage: 15,
		ValidUntil:         day(2025, time.October, 31),
		Terms:              "Valid on accessories only. Not valid on hardware products.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "4",
		BrandID:            "3",
		Code:               "SBUX20",
		Description:        "20% off on all Starbucks drinks",
		DiscountPercentage: 20,
		ValidUntil:         day(2025, time.July, 31),
		Terms:              "Valid on all beverages. Not valid on food items.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "5",
		BrandID:            "4",
		Code:               "AMZN10",
		Description:        "10% off on Amazon electronics",
		DiscountPercentage: 10,
		ValidUntil:         day(2025, time.September, 30),
		Terms:              "Valid on electronics category only. Maximum discount $50.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "6",
		BrandID:            "5",
		Code:               "ADIDAS30",
		Description:        "30% off on all Adidas products",
		DiscountPercentage: 30,
		ValidUntil:         day(2025, time.August, 15),
		Terms:              "Cannot be combined with other offers. Valid on regular-priced items only.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "7",
		BrandID:            "6",
		Code:               "MCD15",
		Description:        "15% off on McDonald's meals",
		DiscountPercentage: 15,
		ValidUntil:         day(2025, time.July, 15),
		Terms:              "Valid on combo meals only. Not valid on promotional items.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "8",
		BrandID:            "7",
		Code:               "SAMSUNG20",
		Description:        "20% off on Samsung phones",
		DiscountPercentage: 20,
		ValidUntil:         day(2025, time.November, 30),
		Terms:              "Valid on select smartphone models. Cannot be combined with other offers.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "9",
		BrandID:            "8",
		Code:               "TARGET25",
		Description:        "25% off on Target home goods",
		DiscountPercentage: 25,
		ValidUntil:         day(2025, time.September, 15),
		Terms:              "Valid on home department items only. Maximum discount $100.",
		CreatedAt:          day(2024, time.June, 1),
	},
	{
		ID:                 "10",
		BrandID:            "2",
		Code:               "APPLECARE10",
		Description:        "10% off on AppleCare+",
		DiscountPercentage: 10,
		ValidUntil:         day(2025, time.December, 15),
		Terms:              "Valid on new AppleCare+ purchases only.",
		CreatedAt:          day(2024, time.June, 1),
	},
}
