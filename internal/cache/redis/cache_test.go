package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ffmarket/internal/cache"
)

type CacheSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	cache *Cache
	ctx   context.Context
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.TTL = time.Minute

	s.cache = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *CacheSuite) TearDownTest() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
}

func (s *CacheSuite) TestVersionStartsAtZero() {
	v, err := s.cache.Version(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), v)
}

func (s *CacheSuite) TestBumpIncrementsVersion() {
	s.Require().NoError(s.cache.Bump(s.ctx))
	s.Require().NoError(s.cache.Bump(s.ctx))

	v, err := s.cache.Version(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), v)
}

func (s *CacheSuite) TestGetMiss() {
	_, err := s.cache.Get(s.ctx, "v0:{}")
	s.ErrorIs(err, cache.ErrMiss)
}

func (s *CacheSuite) TestSetAndGet() {
	s.Require().NoError(s.cache.Set(s.ctx, "v0:{}", []byte(`{"data":[]}`)))

	data, err := s.cache.Get(s.ctx, "v0:{}")
	s.Require().NoError(err)
	s.JSONEq(`{"data":[]}`, string(data))

	s.True(s.mini.Exists("ffm:transfers:list:v0:{}"))
}

func (s *CacheSuite) TestEntriesExpire() {
	s.Require().NoError(s.cache.Set(s.ctx, "v0:{}", []byte("x")))

	s.mini.FastForward(2 * time.Minute)

	_, err := s.cache.Get(s.ctx, "v0:{}")
	s.ErrorIs(err, cache.ErrMiss)
}
