package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/discount-pro/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	id, name, email, password string
	saved                     []string
	createdAt                 time.Time
}

var seedUsers = []seedUser{
	{
		id:        "1",
		name:      "John Doe",
		email:     "john@example.com",
		password:  "password123",
		saved:     []string{"1", "3", "5"},
		createdAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		id:        "2",
		name:      "Jane Smith",
		email:     "jane@example.com",
		password:  "password456",
		saved:     []string{"2", "4", "6"},
		createdAt: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
	},
}

// SeedDirectory inserts the demo accounts unless their IDs are already
// present. A seed whose email was claimed by another account is skipped.
func SeedDirectory(ctx context.Context, users domain.UserRepository, cost int) error {
	for _, s := range seedUsers {
		if _, err := users.GetByID(ctx, s.id); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("look up seed %s: %w", s.id, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		err = users.Create(ctx, &domain.User{
			ID:           s.id,
			Name:         s.name,
			Email:        s.email,
			PasswordHash: string(hash),
			SavedCoupons: s.saved,
			CreatedAt:    s.createdAt,
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicateEmail) {
			return fmt.Errorf("create %s: %w", s.email, err)
		}
	}
	return nil
}
