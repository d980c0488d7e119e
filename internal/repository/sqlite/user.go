package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/discount-pro/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

// Create inserts the user as given. The caller assigns ID and CreatedAt.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	saved := user.SavedCoupons
	if saved == nil {
		saved = []string{}
	}
	savedJSON, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encode saved coupons: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, saved_coupons, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, string(savedJSON), user.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, saved_coupons, created_at
		 FROM users WHERE id = ?`, id,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, saved_coupons, created_at
		 FROM users WHERE email = ?`, email,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var savedJSON string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &savedJSON, &user.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(savedJSON), &user.SavedCoupons); err != nil {
		return nil, fmt.Errorf("decode saved coupons: %w", err)
	}
	if user.SavedCoupons == nil {
		user.SavedCoupons = []string{}
	}
	return user, nil
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
