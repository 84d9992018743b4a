package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/suntzu974/zevis/internal/user"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *user.MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = user.NewMemoryStore()
}

func (s *MemoryStoreSuite) create(name, email string) user.User {
	u, err := s.store.Create(s.ctx, user.User{Name: name, Email: email})
	require.NoError(s.T(), err)
	return u
}

func (s *MemoryStoreSuite) TestCreateAssignsIDAndTimestamps() {
	u := s.create("Alice", "alice@example.com")

	s.Equal(int64(1), u.ID)
	s.False(u.CreatedAt.IsZero())
	s.Equal(u.CreatedAt, u.UpdatedAt)

	second := s.create("Bob", "bob@example.com")
	s.Equal(int64(2), second.ID)
}

func (s *MemoryStoreSuite) TestCreateRejectsDuplicateEmail() {
	s.create("Alice", "alice@example.com")

	_, err := s.store.Create(s.ctx, user.User{Name: "Other", Email: "ALICE@example.com"})
	s.ErrorIs(err, user.ErrEmailExists)
}

func (s *MemoryStoreSuite) TestFindByID() {
	created := s.create("Alice", "alice@example.com")

	found, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created, found)

	_, err = s.store.FindByID(s.ctx, 999)
	s.ErrorIs(err, user.ErrNotFound)
}

func (s *MemoryStoreSuite) TestFindByEmailIsCaseInsensitive() {
	created := s.create("Alice", "alice@example.com")

	found, err := s.store.FindByEmail(s.ctx, "Alice@Example.COM")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
}

func (s *MemoryStoreSuite) TestFindAllNewestFirst() {
	s.create("Alice", "alice@example.com")
	s.create("Bob", "bob@example.com")
	s.create("Carol", "carol@example.com")

	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Carol", all[0].Name)
	s.Equal("Alice", all[2].Name)
}

func (s *MemoryStoreSuite) TestDeleteReturnsFinalSnapshot() {
	created := s.create("Alice", "alice@example.com")

	deleted, err := s.store.Delete(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Email, deleted.Email)

	_, err = s.store.FindByID(s.ctx, created.ID)
	s.ErrorIs(err, user.ErrNotFound)

	_, err = s.store.Delete(s.ctx, created.ID)
	s.ErrorIs(err, user.ErrNotFound)
}
