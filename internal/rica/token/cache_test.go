package token

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pavrica/internal/rica/models"
)

type fakeAuth struct {
	calls atomic.Int32
	delay time.Duration
	token Token
	err   error
}

func (a *fakeAuth) Authenticate(_ context.Context, _ models.Credentials) (Token, error) {
	a.calls.Add(1)
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if a.err != nil {
		return Token{}, a.err
	}
	return a.token, nil
}

type fakeCreds struct {
	calls atomic.Int32
	creds models.Credentials
	err   error
}

func (c *fakeCreds) FetchCredentials(_ context.Context) (models.Credentials, error) {
	c.calls.Add(1)
	if c.err != nil {
		return models.Credentials{}, c.err
	}
	return c.creds, nil
}

type TokenCacheSuite struct {
	suite.Suite
	now   time.Time
	auth  *fakeAuth
	creds *fakeCreds
}

func TestTokenCacheSuite(t *testing.T) {
	suite.Run(t, new(TokenCacheSuite))
}

func (s *TokenCacheSuite) SetupTest() {
	s.reset()
}

// reset rebuilds the fixtures; subtests under s.Run share the suite instance,
// so each one starts from a clean slate explicitly.
func (s *TokenCacheSuite) reset() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.auth = &fakeAuth{token: Token{Value: "tok-1", ExpiresAt: s.now.Add(time.Hour)}}
	s.creds = &fakeCreds{creds: models.Credentials{Username: "u", Password: "p"}}
}

func (s *TokenCacheSuite) newCache(opts ...Option) *Cache {
	opts = append([]Option{WithClock(func() time.Time { return s.now })}, opts...)
	cache, err := NewCache(s.auth, s.creds, opts...)
	s.Require().NoError(err)
	return cache
}

func (s *TokenCacheSuite) TestNewCache() {
	s.Run("nil auth client returns error", func() {
		_, err := NewCache(nil, s.creds)
		s.Error(err)
	})

	s.Run("nil credential source returns error", func() {
		_, err := NewCache(s.auth, nil)
		s.Error(err)
	})
}

func (s *TokenCacheSuite) TestGetValidToken() {
	ctx := context.Background()

	s.Run("first call refreshes", func() {
		s.reset()
		cache := s.newCache()

		tok, err := cache.GetValidToken(ctx)
		s.NoError(err)
		s.Equal("tok-1", tok.Value)
		s.Equal(int32(1), s.auth.calls.Load())
		s.Equal(int32(1), s.creds.calls.Load())
	})

	s.Run("valid token is reused without an auth call", func() {
		s.reset()
		cache := s.newCache()

		_, err := cache.GetValidToken(ctx)
		s.Require().NoError(err)

		// Just inside the validity window.
		s.now = s.now.Add(59 * time.Minute)
		tok, err := cache.GetValidToken(ctx)
		s.NoError(err)
		s.Equal("tok-1", tok.Value)
		s.Equal(int32(1), s.auth.calls.Load(), "second request within expiry must not re-authenticate")
	})

	s.Run("expired token triggers exactly one refresh", func() {
		s.reset()
		cache := s.newCache()

		_, err := cache.GetValidToken(ctx)
		s.Require().NoError(err)

		s.now = s.now.Add(2 * time.Hour)
		s.auth.token = Token{Value: "tok-2", ExpiresAt: s.now.Add(time.Hour)}

		tok, err := cache.GetValidToken(ctx)
		s.NoError(err)
		s.Equal("tok-2", tok.Value, "a refresh supersedes the old token")
		s.Equal(int32(2), s.auth.calls.Load())
	})

	s.Run("auth failure propagates", func() {
		s.reset()
		s.auth.err = ErrAuthenticationFailed
		cache := s.newCache()

		_, err := cache.GetValidToken(ctx)
		s.ErrorIs(err, ErrAuthenticationFailed)
	})

	s.Run("credential failure propagates without an auth call", func() {
		s.reset()
		s.creds.err = context.DeadlineExceeded
		cache := s.newCache()

		_, err := cache.GetValidToken(ctx)
		s.Error(err)
		s.Equal(int32(0), s.auth.calls.Load())
	})
}

// TestSingleFlightRefresh verifies that N concurrent callers observing an
// expired slot issue exactly one auth call and share its result.
func (s *TokenCacheSuite) TestSingleFlightRefresh() {
	ctx := context.Background()
	s.auth.delay = 50 * time.Millisecond
	cache := s.newCache()

	const goroutines = 25
	var wg sync.WaitGroup
	tokens := make([]Token, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			tokens[idx], errs[idx] = cache.GetValidToken(ctx)
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), s.auth.calls.Load(), "concurrent refreshes must be deduplicated")
	for i := 0; i < goroutines; i++ {
		s.NoError(errs[i])
		s.Equal("tok-1", tokens[i].Value)
	}
}

func (s *TokenCacheSuite) TestMirror() {
	ctx := context.Background()

	s.Run("seed reuses a still-valid mirrored token", func() {
		s.reset()
		mirror := NewMemoryMirror()
		s.Require().NoError(mirror.Save(ctx, Token{Value: "tok-mirrored", ExpiresAt: s.now.Add(30 * time.Minute)}))

		cache := s.newCache(WithMirror(mirror))
		s.Require().NoError(cache.Seed(ctx))

		tok, err := cache.GetValidToken(ctx)
		s.NoError(err)
		s.Equal("tok-mirrored", tok.Value)
		s.Equal(int32(0), s.auth.calls.Load(), "restart with valid mirror must not re-authenticate")
	})

	s.Run("seed ignores an expired mirrored token", func() {
		s.reset()
		mirror := NewMemoryMirror()
		s.Require().NoError(mirror.Save(ctx, Token{Value: "tok-stale", ExpiresAt: s.now.Add(-time.Minute)}))

		cache := s.newCache(WithMirror(mirror))
		s.Require().NoError(cache.Seed(ctx))

		tok, err := cache.GetValidToken(ctx)
		s.NoError(err)
		s.Equal("tok-1", tok.Value)
		s.Equal(int32(1), s.auth.calls.Load())
	})

	s.Run("seed with empty mirror is a no-op", func() {
		s.reset()
		cache := s.newCache(WithMirror(NewMemoryMirror()))
		s.NoError(cache.Seed(ctx))
	})

	s.Run("refresh writes through to the mirror", func() {
		s.reset()
		mirror := NewMemoryMirror()
		cache := s.newCache(WithMirror(mirror))

		_, err := cache.GetValidToken(ctx)
		s.Require().NoError(err)

		mirrored, err := mirror.Load(ctx)
		s.NoError(err)
		s.Equal("tok-1", mirrored.Value)
	})
}
