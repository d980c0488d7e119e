package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/service"
	"github.com/msomdec/discount-pro/internal/view"
)

const (
	latestCouponCount  = 4
	relatedBrandsCount = 3
)

// PageHandler serves the public catalog pages.
type PageHandler struct {
	catalog *service.CatalogService
	now     func() time.Time
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(catalog *service.CatalogService, now func() time.Time) *PageHandler {
	return &PageHandler{catalog: catalog, now: now}
}

// HandleHome renders the home page.
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	p := page(r, "Home")
	latest := couponItems(h.catalog, p.User, h.catalog.LatestCoupons(latestCouponCount), h.now(), false)
	render(w, r, http.StatusOK, view.HomePage(p, h.catalog.FeaturedBrands(), h.catalog.Categories(), latest))
}

// HandleBrands renders the brand list filtered by ?search= and ?category=.
func (h *PageHandler) HandleBrands(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")
	brands := h.catalog.SearchBrands(search, category)
	render(w, r, http.StatusOK, view.BrandsPage(page(r, "Brands"), brands, h.catalog.Categories(), search, category))
}

// HandleBrand renders one brand with its coupons.
// GET /brand/{id}
func (h *PageHandler) HandleBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := h.catalog.FindBrandByID(r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Error("find brand", "error", err)
		}
		renderNotFound(w, r)
		return
	}

	p := page(r, brand.Name)
	coupons := couponItems(h.catalog, p.User, h.catalog.CouponsForBrand(brand.ID), h.now(), false)
	related := h.catalog.RelatedBrands(brand, relatedBrandsCount)
	render(w, r, http.StatusOK, view.BrandDetailsPage(p, brand, coupons, related))
}

// HandleNotFound is the catch-all route.
func (h *PageHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r)
}
