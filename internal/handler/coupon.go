package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/service"
	"github.com/msomdec/discount-pro/internal/view"
)

// CouponHandler toggles bookmarks. Responses are datastar SSE patches that
// morph the coupon card and append toasts.
type CouponHandler struct {
	catalog *service.CatalogService
	now     func() time.Time
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(catalog *service.CatalogService, now func() time.Time) *CouponHandler {
	return &CouponHandler{catalog: catalog, now: now}
}

// HandleSave bookmarks a coupon.
// POST /coupons/{id}/save
func (h *CouponHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	coupon, ok := h.findCoupon(w, r)
	if !ok {
		return
	}
	if coupon.Expired(h.now()) {
		http.Error(w, "Coupon has expired", http.StatusUnprocessableEntity)
		return
	}

	cs := SessionFromContext(r.Context())
	if err := cs.SaveCoupon(r.Context(), coupon.ID); err != nil {
		h.handleBookmarkError(w, r, "save coupon", err)
		return
	}
	h.patch(w, r, cs, coupon, false)
}

// HandleRemove drops a bookmark. From the profile page the card is removed.
// POST /coupons/{id}/remove[?from=profile]
func (h *CouponHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	coupon, ok := h.findCoupon(w, r)
	if !ok {
		return
	}

	cs := SessionFromContext(r.Context())
	if err := cs.RemoveSavedCoupon(r.Context(), coupon.ID); err != nil {
		h.handleBookmarkError(w, r, "remove saved coupon", err)
		return
	}
	h.patch(w, r, cs, coupon, r.URL.Query().Get("from") == "profile")
}

func (h *CouponHandler) findCoupon(w http.ResponseWriter, r *http.Request) (domain.Coupon, bool) {
	coupon, err := h.catalog.FindCouponByID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return domain.Coupon{}, false
	}
	return coupon, true
}

func (h *CouponHandler) handleBookmarkError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, domain.ErrUnauthorized) {
		redirectToLogin(w, r)
		return
	}
	slog.Error(op, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (h *CouponHandler) patch(w http.ResponseWriter, r *http.Request, cs *service.ClientSession, coupon domain.Coupon, inProfile bool) {
	sse := datastar.NewSSE(w, r)

	user := cs.Current()
	if inProfile && (user == nil || !user.HasSaved(coupon.ID)) {
		sse.RemoveElementByID(view.CouponCardID(coupon.ID))
	} else {
		sse.PatchElementTempl(view.CouponCard(couponItem(h.catalog, user, coupon, h.now(), inProfile)))
	}

	if toasts := cs.Toasts.Drain(); len(toasts) > 0 {
		sse.PatchElementTempl(
			view.ToastList(toasts),
			datastar.WithSelectorID("toasts"),
			datastar.WithModeAppend(),
		)
	}
}
