// Package auth obtains Strava access tokens via the refresh grant and
// persists rotated refresh tokens.
package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// TokenURL is Strava's OAuth token endpoint.
const TokenURL = "https://www.strava.com/oauth/token"

// Config holds the OAuth client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string // defaults to TokenURL
}

// TokenSource exchanges a refresh token for access tokens and invokes
// onRotate whenever the provider returns a new refresh token, before the
// access token is handed to any caller. Strava rotates refresh tokens on
// every exchange.
type TokenSource struct {
	src      oauth2.TokenSource
	current  string
	onRotate func(newToken string) error
	mu       sync.Mutex
}

// NewTokenSource creates a TokenSource seeded with the given refresh token.
// onRotate may be nil when rotation does not need to be persisted.
func NewTokenSource(cfg Config, refreshToken string, onRotate func(string) error) *TokenSource {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = TokenURL
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: tokenURL,
			// Strava wants client_id and client_secret in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// A token with no access token and no expiry is always stale, so the
	// first Token() call performs the refresh-grant exchange.
	seed := &oauth2.Token{RefreshToken: refreshToken}

	return &TokenSource{
		src:      oauthCfg.TokenSource(context.Background(), seed),
		current:  refreshToken,
		onRotate: onRotate,
	}
}

// Token returns a valid access token, refreshing if necessary. Any failure
// here is fatal to a sync run: there is no partial sync without credentials.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	tok, err := ts.src.Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing access token: %w", err)
	}

	if tok.RefreshToken != "" && tok.RefreshToken != ts.current {
		if ts.onRotate != nil {
			if err := ts.onRotate(tok.RefreshToken); err != nil {
				return nil, fmt.Errorf("persisting rotated refresh token: %w", err)
			}
		}
		ts.current = tok.RefreshToken
	}

	return tok, nil
}
