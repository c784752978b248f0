package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pavrica/internal/rica/models"
)

// Authenticator exchanges basic-auth credentials for a bearer token at the
// carrier auth endpoint. One POST with an empty body; no internal retries.
type Authenticator struct {
	client  *http.Client
	authURL string
	tracer  trace.Tracer
}

// NewAuthenticator builds an Authenticator. A nil client falls back to
// http.DefaultClient.
func NewAuthenticator(client *http.Client, authURL string) (*Authenticator, error) {
	if authURL == "" {
		return nil, fmt.Errorf("auth URL is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Authenticator{
		client:  client,
		authURL: authURL,
		tracer:  otel.Tracer("pavrica/rica/token"),
	}, nil
}

// authResponse is the carrier auth body. ExpiresIn is the token lifetime in
// seconds from the moment of issue.
type authResponse struct {
	AccessToken *string `json:"accessToken"`
	ExpiresIn   *int64  `json:"expiresIn"`
}

// Authenticate performs the basic-auth exchange and computes the absolute
// expiry instant from the server-reported lifetime.
func (a *Authenticator) Authenticate(ctx context.Context, creds models.Credentials) (Token, error) {
	ctx, span := a.tracer.Start(ctx, "carrier.authenticate",
		trace.WithAttributes(attribute.String("carrier.auth_url", a.authURL)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.authURL, nil)
	if err != nil {
		return Token{}, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Authorization", BasicAuthorizationHeader(creds.Username, creds.Password))

	issuedAt := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return Token{}, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Token{}, fmt.Errorf("%w: status %d", ErrAuthenticationFailed, resp.StatusCode)
	}

	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.AccessToken == nil || *body.AccessToken == "" || body.ExpiresIn == nil || *body.ExpiresIn <= 0 {
		return Token{}, fmt.Errorf("%w: missing accessToken or expiresIn", ErrMalformedResponse)
	}

	return Token{
		Value:     *body.AccessToken,
		ExpiresAt: issuedAt.Add(time.Duration(*body.ExpiresIn) * time.Second),
	}, nil
}

// BasicAuthorizationHeader renders base64("username:password") as a Basic
// credential.
func BasicAuthorizationHeader(username, password string) string {
	raw := username + ":" + password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}
