//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/suntzu974/zevis/internal/cache"
	"github.com/suntzu974/zevis/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *cache.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = cache.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestSetAndGet() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "greeting", "hello", 0))

	value, err := s.store.Get(ctx, "greeting")
	s.Require().NoError(err)
	s.Equal("hello", value)
}

func (s *RedisStoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(context.Background(), "nope")
	s.ErrorIs(err, cache.ErrKeyNotFound)
}

func (s *RedisStoreSuite) TestTTLExpiresKey() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "session", "abc", time.Second))

	value, err := s.store.Get(ctx, "session")
	s.Require().NoError(err)
	s.Equal("abc", value)

	s.Require().Eventually(func() bool {
		_, err := s.store.Get(ctx, "session")
		return err != nil
	}, 3*time.Second, 100*time.Millisecond)
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "greeting", "hello", 0))

	deleted, err := s.store.Delete(ctx, "greeting")
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.Delete(ctx, "greeting")
	s.Require().NoError(err)
	s.False(deleted)
}
