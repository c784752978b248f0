// Package token owns the carrier bearer token lifecycle: acquisition via
// basic-auth exchange, a process-wide cache with single-flight refresh, and
// an optional durable mirror so restarts reuse a still-valid token.
package token

import (
	"errors"
	"time"
)

// Token is a carrier-issued bearer credential. Superseded, never mutated:
// a refresh produces a new value.
type Token struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the token is usable at the given instant.
func (t Token) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

var (
	// ErrAuthenticationFailed covers transport and HTTP failures against the
	// carrier auth endpoint. Fatal for the current request, never retried.
	ErrAuthenticationFailed = errors.New("carrier authentication failed")

	// ErrMalformedResponse marks an auth response missing accessToken or
	// expiresIn.
	ErrMalformedResponse = errors.New("malformed carrier auth response")
)
