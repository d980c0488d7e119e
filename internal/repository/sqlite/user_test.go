package sqlite_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/repository/sqlite"
)

func newUser(id, email string) *domain.User {
	return &domain.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpw",
		SavedCoupons: []string{"1", "3"},
		CreatedAt:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("u1", "test@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("u1", "dup@example.com")); err != nil {
		t.Fatalf("Create user1: %v", err)
	}

	err := repo.Create(ctx, newUser("u2", "dup@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := newUser("u1", "byid@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, found.Email)
	}
	if !slices.Equal(found.SavedCoupons, []string{"1", "3"}) {
		t.Fatalf("expected saved coupons [1 3], got %v", found.SavedCoupons)
	}
	if !found.CreatedAt.Equal(user.CreatedAt) {
		t.Fatalf("expected created_at %v, got %v", user.CreatedAt, found.CreatedAt)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("u1", "byemail@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.GetByEmail(ctx, "byemail@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if found.ID != "u1" {
		t.Fatalf("expected id u1, got %s", found.ID)
	}
}

func TestUserRepository_GetByEmail_ExactMatch(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("u1", "case@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.GetByEmail(ctx, "CASE@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for different case, got %v", err)
	}
}

func TestUserRepository_Create_NilSavedCoupons(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := newUser("u1", "empty@example.com")
	user.SavedCoupons = nil
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.SavedCoupons == nil || len(found.SavedCoupons) != 0 {
		t.Fatalf("expected empty non-nil saved coupons, got %#v", found.SavedCoupons)
	}
}
