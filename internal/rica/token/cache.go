package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pavrica/internal/platform/metrics"
	"pavrica/internal/rica/models"
	"pavrica/pkg/platform/sentinel"
)

// AuthClient obtains a fresh token from the carrier.
type AuthClient interface {
	Authenticate(ctx context.Context, creds models.Credentials) (Token, error)
}

// CredentialSource supplies the carrier basic-auth pair. Read once per
// refresh cycle, never cached here.
type CredentialSource interface {
	FetchCredentials(ctx context.Context) (models.Credentials, error)
}

// MirrorStore durably mirrors the last-known token so a restarted process can
// reuse it instead of forcing a fresh authentication.
type MirrorStore interface {
	Load(ctx context.Context) (Token, error)
	Save(ctx context.Context, tok Token) error
}

// Cache holds the single shared bearer token. All concurrent requests share
// one slot; refreshes are deduplicated so N callers observing an expired
// token issue exactly one auth call and share its result.
type Cache struct {
	mu      sync.RWMutex
	current Token

	auth    AuthClient
	creds   CredentialSource
	mirror  MirrorStore
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithMirror attaches a durable token mirror.
func WithMirror(mirror MirrorStore) Option {
	return func(c *Cache) { c.mirror = mirror }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithClock overrides wall-clock time for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache constructs the token cache.
func NewCache(auth AuthClient, creds CredentialSource, opts ...Option) (*Cache, error) {
	if auth == nil {
		return nil, fmt.Errorf("auth client is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential source is required")
	}

	cache := &Cache{
		auth:   auth,
		creds:  creds,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// Seed loads the mirrored token at startup. A missing or expired mirror entry
// is not an error; the first request will refresh lazily.
func (c *Cache) Seed(ctx context.Context) error {
	if c.mirror == nil {
		return nil
	}
	tok, err := c.mirror.Load(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load token mirror: %w", err)
	}
	if !tok.Valid(c.now()) {
		return nil
	}

	c.mu.Lock()
	c.current = tok
	c.mu.Unlock()

	c.logger.Info("seeded token cache from durable mirror",
		"expires_at", tok.ExpiresAt)
	return nil
}

// GetValidToken returns the cached token while it is still valid, otherwise
// refreshes via the carrier auth endpoint. Concurrent callers that observe an
// expired slot await one in-flight refresh and share its result.
func (c *Cache) GetValidToken(ctx context.Context) (Token, error) {
	c.mu.RLock()
	current := c.current
	c.mu.RUnlock()

	if current.Valid(c.now()) {
		c.metrics.IncrementTokenCacheHit()
		return current, nil
	}

	result, err, _ := c.group.Do("carrier-token", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return Token{}, err
	}
	return result.(Token), nil
}

// refresh runs inside the single flight. Re-checks the slot first: a caller
// queued behind a completed refresh must not trigger another auth call.
func (c *Cache) refresh(ctx context.Context) (Token, error) {
	c.mu.RLock()
	current := c.current
	c.mu.RUnlock()
	if current.Valid(c.now()) {
		return current, nil
	}

	creds, err := c.creds.FetchCredentials(ctx)
	if err != nil {
		return Token{}, err
	}

	tok, err := c.auth.Authenticate(ctx, creds)
	if err != nil {
		c.metrics.IncrementTokenRefresh("failure")
		return Token{}, err
	}
	c.metrics.IncrementTokenRefresh("success")

	c.mu.Lock()
	c.current = tok
	c.mu.Unlock()

	if c.mirror != nil {
		// Best effort; a mirror outage must not fail the refresh.
		if err := c.mirror.Save(ctx, tok); err != nil {
			c.logger.Warn("failed to mirror token", "error", err.Error())
		}
	}

	c.logger.Info("refreshed carrier token", "expires_at", tok.ExpiresAt)
	return tok, nil
}
