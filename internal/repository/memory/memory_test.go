package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/msomdec/discount-pro/internal/domain"
)

type UserRepositorySuite struct {
	suite.Suite
	repo *UserRepository
	ctx  context.Context
}

func (s *UserRepositorySuite) SetupTest() {
	s.repo = NewUserRepository()
	s.ctx = context.Background()
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

func (s *UserRepositorySuite) newUser(id, email string) *domain.User {
	return &domain.User{
		ID:           id,
		Name:         "Test",
		Email:        email,
		PasswordHash: "hash",
		SavedCoupons: []string{"1"},
		CreatedAt:    time.Now(),
	}
}

func (s *UserRepositorySuite) TestCreationAndLookups() {
	s.Run("finds by id and email", func() {
		s.Require().NoError(s.repo.Create(s.ctx, s.newUser("u1", "a@example.com")))

		byID, err := s.repo.GetByID(s.ctx, "u1")
		s.Require().NoError(err)
		s.Equal("a@example.com", byID.Email)

		byEmail, err := s.repo.GetByEmail(s.ctx, "a@example.com")
		s.Require().NoError(err)
		s.Equal("u1", byEmail.ID)
	})

	s.Run("returns ErrNotFound for unknown keys", func() {
		_, err := s.repo.GetByID(s.ctx, "nope")
		s.Require().ErrorIs(err, domain.ErrNotFound)

		_, err = s.repo.GetByEmail(s.ctx, "nope@example.com")
		s.Require().ErrorIs(err, domain.ErrNotFound)
	})
}

func (s *UserRepositorySuite) TestEmailUniqueness() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newUser("u1", "dup@example.com")))
	err := s.repo.Create(s.ctx, s.newUser("u2", "dup@example.com"))
	s.Require().ErrorIs(err, domain.ErrDuplicateEmail)
}

func (s *UserRepositorySuite) TestReturnsCopies() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newUser("u1", "copy@example.com")))

	found, err := s.repo.GetByID(s.ctx, "u1")
	s.Require().NoError(err)
	found.SavedCoupons = append(found.SavedCoupons, "99")
	found.Name = "Mutated"

	again, err := s.repo.GetByID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Test", again.Name)
	s.Equal([]string{"1"}, again.SavedCoupons)
}

type KeyValueStoreSuite struct {
	suite.Suite
	store *KeyValueStore
	ctx   context.Context
}

func (s *KeyValueStoreSuite) SetupTest() {
	s.store = NewKeyValueStore()
	s.ctx = context.Background()
}

func TestKeyValueStoreSuite(t *testing.T) {
	suite.Run(t, new(KeyValueStoreSuite))
}

func (s *KeyValueStoreSuite) TestRoundTrip() {
	s.Require().NoError(s.store.Put(s.ctx, "c1", "user", []byte("v")))

	got, err := s.store.Get(s.ctx, "c1", "user")
	s.Require().NoError(err)
	s.Equal([]byte("v"), got)

	_, err = s.store.Get(s.ctx, "c2", "user")
	s.Require().ErrorIs(err, domain.ErrNotFound)
}

func (s *KeyValueStoreSuite) TestDeleteIsIdempotent() {
	s.Require().NoError(s.store.Put(s.ctx, "c1", "user", []byte("v")))
	s.Require().NoError(s.store.Delete(s.ctx, "c1", "user"))
	s.Require().NoError(s.store.Delete(s.ctx, "c1", "user"))
	s.Equal(0, s.store.Len())
}

func (s *KeyValueStoreSuite) TestValuesAreCopied() {
	value := []byte("abc")
	s.Require().NoError(s.store.Put(s.ctx, "c1", "user", value))
	value[0] = 'z'

	got, err := s.store.Get(s.ctx, "c1", "user")
	s.Require().NoError(err)
	s.Equal("abc", string(got))
}
