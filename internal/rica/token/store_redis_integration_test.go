//go:build integration

package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pavrica/pkg/platform/sentinel"
	"pavrica/pkg/testutil/containers"
)

type RedisMirrorSuite struct {
	suite.Suite
	ctx    context.Context
	rd     *containers.RedisContainer
	mirror *RedisMirror
}

func TestRedisMirrorSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisMirrorSuite))
}

func (s *RedisMirrorSuite) SetupSuite() {
	s.ctx = context.Background()
	s.rd = containers.NewRedisContainer(s.T())
	s.mirror = NewRedisMirror(s.rd.Client)
}

func (s *RedisMirrorSuite) SetupTest() {
	s.Require().NoError(s.rd.FlushAll(s.ctx))
}

func (s *RedisMirrorSuite) TestLoadMissing() {
	_, err := s.mirror.Load(s.ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisMirrorSuite) TestSaveAndLoad() {
	tok := Token{Value: "tok-1", ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Millisecond)}
	s.Require().NoError(s.mirror.Save(s.ctx, tok))

	loaded, err := s.mirror.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(tok.Value, loaded.Value)
	s.True(tok.ExpiresAt.Equal(loaded.ExpiresAt))
}

func (s *RedisMirrorSuite) TestSaveExpiredTokenIsSkipped() {
	tok := Token{Value: "tok-stale", ExpiresAt: time.Now().Add(-time.Minute)}
	s.Require().NoError(s.mirror.Save(s.ctx, tok))

	_, err := s.mirror.Load(s.ctx)
	s.ErrorIs(err, sentinel.ErrNotFound, "an already-expired token must not be mirrored")
}

// TestEntryExpiresWithToken pins the TTL behaviour: the mirror entry lives no
// longer than the token it holds.
func (s *RedisMirrorSuite) TestEntryExpiresWithToken() {
	tok := Token{Value: "tok-short", ExpiresAt: time.Now().Add(time.Second)}
	s.Require().NoError(s.mirror.Save(s.ctx, tok))

	ttl, err := s.rd.Client.TTL(s.ctx, "pavrica:carrier-token").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Second)

	time.Sleep(1500 * time.Millisecond)
	_, err = s.mirror.Load(s.ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisMirrorSuite) TestSaveOverwrites() {
	s.Require().NoError(s.mirror.Save(s.ctx, Token{Value: "tok-old", ExpiresAt: time.Now().Add(time.Hour)}))
	s.Require().NoError(s.mirror.Save(s.ctx, Token{Value: "tok-new", ExpiresAt: time.Now().Add(2 * time.Hour)}))

	loaded, err := s.mirror.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal("tok-new", loaded.Value)
}
