package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/metrics"
	"golang.org/x/crypto/bcrypt"
)

// SessionKey is the storage key holding the logged-in identity of a client.
const SessionKey = "user"

// Toast messages shown to the user.
const (
	MsgCouponAlreadySaved = "Coupon already saved"
	MsgCouponSaved        = "Coupon saved successfully"
	MsgCouponRemoved      = "Coupon removed from saved list"
	MsgProfileUpdated     = "Profile updated successfully"
	MsgResetSent          = "Password reset instructions sent to your email"
)

// SessionManager owns the identity of one client: who is logged in and
// which coupons they bookmarked. The state is mirrored into the client's
// storage scope so it survives restarts.
//
// Business failures (bad credentials, duplicate email) are reported as a
// false result. Errors are reserved for storage or context failures, and a
// returned error never comes with a state change.
type SessionManager struct {
	mu      sync.Mutex
	current *domain.User

	users   domain.UserRepository
	storage domain.KeyValueStore
	scope   string

	notifier              domain.Notifier
	latency               Latency
	metrics               metrics.Recorder
	bcryptCost            int
	registerIntoDirectory bool
	now                   func() time.Time
	newID                 func() string
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

func WithLatency(l Latency) SessionOption {
	return func(m *SessionManager) { m.latency = l }
}

func WithNotifier(n domain.Notifier) SessionOption {
	return func(m *SessionManager) { m.notifier = n }
}

func WithMetrics(r metrics.Recorder) SessionOption {
	return func(m *SessionManager) { m.metrics = r }
}

func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

func WithIDGenerator(newID func() string) SessionOption {
	return func(m *SessionManager) { m.newID = newID }
}

func WithBcryptCost(cost int) SessionOption {
	return func(m *SessionManager) { m.bcryptCost = cost }
}

// WithDirectoryRegistration controls whether Register adds the new account
// to the user directory. When disabled, a registered account exists only in
// the client's session and cannot log in again after logout.
func WithDirectoryRegistration(enabled bool) SessionOption {
	return func(m *SessionManager) { m.registerIntoDirectory = enabled }
}

// NewSessionManager creates a logged-out manager for the given storage scope.
// Call Restore to pick up a previously persisted identity.
func NewSessionManager(users domain.UserRepository, storage domain.KeyValueStore, scope string, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		users:                 users,
		storage:               storage,
		scope:                 scope,
		notifier:              discardNotifier{},
		latency:               FixedLatency(DefaultLatency),
		metrics:               metrics.Nop{},
		bcryptCost:            bcrypt.DefaultCost,
		registerIntoDirectory: true,
		now:                   time.Now,
		newID:                 uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads the persisted identity, if any. A record that cannot be
// decoded is erased and the client stays logged out.
func (m *SessionManager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.storage.Get(ctx, m.scope, SessionKey)
	if errors.Is(err, domain.ErrNotFound) {
		m.current = nil
		m.metrics.RecordRestore("absent")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session record: %w", err)
	}

	user, err := decodeRecord(data)
	if err != nil {
		slog.Warn("discarding malformed session record", "scope", m.scope, "error", err)
		if err := m.storage.Delete(ctx, m.scope, SessionKey); err != nil {
			return fmt.Errorf("erase session record: %w", err)
		}
		m.current = nil
		m.metrics.RecordRestore("malformed")
		return nil
	}

	m.current = user
	m.metrics.RecordRestore("restored")
	return nil
}

// Login authenticates against the directory. Unknown email and wrong
// password are indistinguishable to the caller.
func (m *SessionManager) Login(ctx context.Context, email, password string) (bool, error) {
	if err := m.latency.Wait(ctx); err != nil {
		return false, err
	}

	user, err := m.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		m.metrics.RecordAuthAttempt("login", false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		m.metrics.RecordAuthAttempt("login", false)
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persist(ctx, user); err != nil {
		return false, err
	}
	m.current = user.Clone()
	m.metrics.RecordAuthAttempt("login", true)
	return true, nil
}

// Register creates a new account and logs it in. It returns false when the
// email is already taken.
func (m *SessionManager) Register(ctx context.Context, name, email, password string) (bool, error) {
	if err := m.latency.Wait(ctx); err != nil {
		return false, err
	}

	_, err := m.users.GetByEmail(ctx, email)
	if err == nil {
		m.metrics.RecordAuthAttempt("register", false)
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           m.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		SavedCoupons: []string{},
		CreatedAt:    m.now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persist(ctx, user); err != nil {
		return false, err
	}
	if m.registerIntoDirectory {
		if err := m.users.Create(ctx, user); err != nil {
			if rerr := m.restoreRecord(ctx); rerr != nil {
				return false, errors.Join(fmt.Errorf("create user: %w", err), rerr)
			}
			if errors.Is(err, domain.ErrDuplicateEmail) {
				m.metrics.RecordAuthAttempt("register", false)
				return false, nil
			}
			return false, fmt.Errorf("create user: %w", err)
		}
	}
	m.current = user
	m.metrics.RecordAuthAttempt("register", true)
	return true, nil
}

// restoreRecord puts the stored record back to match current after a
// registration could not be completed. Must be called with mu held.
func (m *SessionManager) restoreRecord(ctx context.Context) error {
	if m.current != nil {
		return m.persist(ctx, m.current)
	}
	if err := m.storage.Delete(ctx, m.scope, SessionKey); err != nil {
		return fmt.Errorf("erase session record: %w", err)
	}
	return nil
}

// Logout erases the persisted identity. Logging out twice is harmless.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.storage.Delete(ctx, m.scope, SessionKey); err != nil {
		return fmt.Errorf("erase session record: %w", err)
	}
	m.current = nil
	return nil
}

// SaveCoupon bookmarks a coupon for the logged-in user.
func (m *SessionManager) SaveCoupon(ctx context.Context, couponID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		m.metrics.RecordBookmark("save", "unauthorized")
		return domain.ErrUnauthorized
	}
	if m.current.HasSaved(couponID) {
		m.metrics.RecordBookmark("save", "duplicate")
		m.notifier.Notify(ctx, domain.Notification{Kind: domain.NotificationError, Message: MsgCouponAlreadySaved})
		return nil
	}

	next := m.current.Clone()
	next.SavedCoupons = append(next.SavedCoupons, couponID)
	if err := m.persist(ctx, next); err != nil {
		return err
	}
	m.current = next

	m.metrics.RecordBookmark("save", "saved")
	m.notifier.Notify(ctx, domain.Notification{Kind: domain.NotificationSuccess, Message: MsgCouponSaved})
	return nil
}

// RemoveSavedCoupon drops a bookmark. Removing a coupon that is not saved
// still persists and notifies.
func (m *SessionManager) RemoveSavedCoupon(ctx context.Context, couponID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		m.metrics.RecordBookmark("remove", "unauthorized")
		return domain.ErrUnauthorized
	}

	next := m.current.Clone()
	next.SavedCoupons = slices.DeleteFunc(next.SavedCoupons, func(id string) bool { return id == couponID })
	if err := m.persist(ctx, next); err != nil {
		return err
	}
	m.current = next

	m.metrics.RecordBookmark("remove", "removed")
	m.notifier.Notify(ctx, domain.Notification{Kind: domain.NotificationSuccess, Message: MsgCouponRemoved})
	return nil
}

// UpdateProfile overwrites the display name and email of the logged-in
// user. The new email is not checked against the directory.
func (m *SessionManager) UpdateProfile(ctx context.Context, name, email string) (bool, error) {
	if !m.IsAuthenticated() {
		return false, nil
	}
	if err := m.latency.Wait(ctx); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Logout may have won the race while we were waiting.
	if m.current == nil {
		return false, nil
	}

	next := m.current.Clone()
	next.Name = name
	next.Email = email
	if err := m.persist(ctx, next); err != nil {
		return false, err
	}
	m.current = next

	m.notifier.Notify(ctx, domain.Notification{Kind: domain.NotificationSuccess, Message: MsgProfileUpdated})
	return true, nil
}

// RequestPasswordReset reports whether the email belongs to a known account.
// No message is actually sent and credentials are never changed.
func (m *SessionManager) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	if err := m.latency.Wait(ctx); err != nil {
		return false, err
	}

	_, err := m.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		m.metrics.RecordAuthAttempt("password_reset", false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}

	m.metrics.RecordAuthAttempt("password_reset", true)
	m.notifier.Notify(ctx, domain.Notification{Kind: domain.NotificationSuccess, Message: MsgResetSent})
	return true, nil
}

// Current returns a copy of the logged-in identity, or nil.
func (m *SessionManager) Current() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	return m.current.Clone()
}

func (m *SessionManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// persist must be called with mu held.
func (m *SessionManager) persist(ctx context.Context, user *domain.User) error {
	data, err := encodeRecord(user)
	if err != nil {
		return err
	}
	if err := m.storage.Put(ctx, m.scope, SessionKey, data); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}
