package domain

import (
	"context"
	"slices"
	"time"
)

// User is a registered account. Its JSON form is the record persisted in a
// client's storage scope while that client is logged in.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	SavedCoupons []string  `json:"savedCoupons"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasSaved reports whether the coupon is in the user's bookmark set.
func (u *User) HasSaved(couponID string) bool {
	return slices.Contains(u.SavedCoupons, couponID)
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (u *User) Clone() *User {
	c := *u
	c.SavedCoupons = slices.Clone(u.SavedCoupons)
	if c.SavedCoupons == nil {
		c.SavedCoupons = []string{}
	}
	return &c
}

// UserRepository is the user directory consulted by login, registration
// and password reset. Email lookups are exact matches.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
