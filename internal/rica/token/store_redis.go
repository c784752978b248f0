package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pavrica/pkg/platform/sentinel"
)

const (
	// Redis key for the mirrored carrier token
	mirrorKey = "pavrica:carrier-token"
)

// RedisMirror is a Redis-backed durable token mirror. The entry expires with
// the token itself, so a stale mirror can never seed an expired token.
type RedisMirror struct {
	client *redis.Client
}

// NewRedisMirror constructs a Redis-backed token mirror.
func NewRedisMirror(client *redis.Client) *RedisMirror {
	return &RedisMirror{client: client}
}

func (m *RedisMirror) Save(ctx context.Context, tok Token) error {
	ttl := time.Until(tok.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token mirror: %w", err)
	}
	if err := m.client.Set(ctx, mirrorKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save token mirror: %w", err)
	}
	return nil
}

func (m *RedisMirror) Load(ctx context.Context) (Token, error) {
	payload, err := m.client.Get(ctx, mirrorKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Token{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("load token mirror: %w", err)
	}
	var tok Token
	if err := json.Unmarshal(payload, &tok); err != nil {
		return Token{}, fmt.Errorf("unmarshal token mirror: %w", err)
	}
	return tok, nil
}
