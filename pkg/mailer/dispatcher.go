package mailer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Dispatcher delivers a compiled document to a provider.
type Dispatcher interface {
	// Dispatch performs a single delivery attempt authorised by creds.
	// A nil creds must fail with ErrUnauthorized before any network call.
	// Transport failures wrap ErrTransport and return a nil Result.
	// Provider rejections return a Result and an error wrapping ErrRejected.
	Dispatch(ctx context.Context, doc *Document, creds oauth2.TokenSource) (*Result, error)
}

// Result describes a completed exchange with the provider.
type Result struct {
	DispatchID  string        // client-side id of the attempt, also sent as X-Request-ID
	Body        string        // raw provider response body
	Detail      string        // human readable outcome, set on failure
	ProviderIDs []string      // message ids reported by the provider, when known
	StatusCode  int           // HTTP status, 0 when the provider SDK hides it
	Duration    time.Duration // wall time of the exchange
	Success     bool
}

// BearerToken fetches a usable token from ts.
// Missing sources, token errors and empty tokens all wrap ErrUnauthorized.
func BearerToken(ts oauth2.TokenSource) (*oauth2.Token, error) {
	if ts == nil {
		return nil, ErrUnauthorized
	}
	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, ErrUnauthorized
	}
	return tok, nil
}

// StaticToken returns a token source that always yields token as a bearer token.
func StaticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}
