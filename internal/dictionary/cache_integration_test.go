//go:build integration

package dictionary_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"lineage/internal/dictionary"
	"lineage/internal/platform/redis"
	"lineage/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *dictionary.MemoryStore
	store dictionary.Store
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))

	client, err := redis.New(s.redis.URL)
	s.Require().NoError(err)
	s.inner = dictionary.NewMemoryStore()
	s.store = dictionary.NewCachedStore(s.inner, client, slog.New(slog.DiscardHandler))
}

func (s *CachedStoreSuite) TestReadThroughCachesValues() {
	ctx := context.Background()
	s.inner.Put(dictionary.KindFirstName, 1, "Ivan")

	got, err := s.store.Lookup(ctx, dictionary.KindFirstName, []int64{1})
	s.Require().NoError(err)
	s.Equal("Ivan", got[1])

	// A later change to the backing table is not visible until the TTL
	// expires or the entry is invalidated.
	s.inner.Put(dictionary.KindFirstName, 1, "Jonas")
	got, err = s.store.Lookup(ctx, dictionary.KindFirstName, []int64{1})
	s.Require().NoError(err)
	s.Equal("Ivan", got[1])
}

func (s *CachedStoreSuite) TestInvalidateDropsEntry() {
	ctx := context.Background()
	s.inner.Put(dictionary.KindLastName, 2, "Petrov")

	got, err := s.store.Lookup(ctx, dictionary.KindLastName, []int64{2})
	s.Require().NoError(err)
	s.Equal("Petrov", got[2])

	s.inner.Put(dictionary.KindLastName, 2, "Petrauskas")
	cached, ok := s.store.(*dictionary.CachedStore)
	s.Require().True(ok)
	cached.Invalidate(ctx, dictionary.KindLastName, 2)

	got, err = s.store.Lookup(ctx, dictionary.KindLastName, []int64{2})
	s.Require().NoError(err)
	s.Equal("Petrauskas", got[2])
}

func (s *CachedStoreSuite) TestMissesFallThroughPerKind() {
	ctx := context.Background()
	s.inner.Put(dictionary.KindFirstName, 1, "Ivan")
	s.inner.Put(dictionary.KindFirstName, 2, "Jonas")

	got, err := s.store.Lookup(ctx, dictionary.KindFirstName, []int64{1})
	s.Require().NoError(err)
	s.Len(got, 1)

	// One cached hit plus one miss resolves both.
	got, err = s.store.Lookup(ctx, dictionary.KindFirstName, []int64{1, 2, 3})
	s.Require().NoError(err)
	s.Len(got, 2)
	s.Equal("Jonas", got[2])
}
