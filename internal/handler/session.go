package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/discount-pro/internal/domain"
)

// UserDTO is the JSON representation of the logged-in identity. The
// credential hash is never exposed.
type UserDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	SavedCoupons []string `json:"savedCoupons"`
	CreatedAt    string   `json:"createdAt"`
}

func toUserDTO(u *domain.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		SavedCoupons: u.SavedCoupons,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}

// HandleSession returns the client's current identity.
// GET /api/session
// Response: {"authenticated": bool, "user": {...}|null}
func HandleSession(w http.ResponseWriter, r *http.Request) {
	user := SessionFromContext(r.Context()).Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": user != nil,
		"user":          toUserDTO(user),
	})
}
