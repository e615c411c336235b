package google

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// NewTokenSource returns a token source for the given scopes.
// A configured credentials file wins; otherwise Application Default Credentials are used.
func NewTokenSource(ctx context.Context, cfg domain.GoogleSettings, scopes ...string) (oauth2.TokenSource, error) {
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		creds, err := googleoauth.CredentialsFromJSON(ctx, data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
		return creds.TokenSource, nil
	}

	creds, err := googleoauth.FindDefaultCredentials(ctx, scopes...)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// NewHTTPClient returns an authenticated, rate limited HTTP client.
func NewHTTPClient(ts oauth2.TokenSource, limiter *RateLimiter) *http.Client {
	base := http.RoundTripper(&oauth2.Transport{Source: ts, Base: http.DefaultTransport})
	if limiter != nil {
		base = limiter.Transport(base)
	}
	return &http.Client{Transport: base}
}

// ClientOptions builds the options every Google service in this module is created with.
func ClientOptions(ctx context.Context, cfg domain.GoogleSettings, scopes ...string) ([]option.ClientOption, error) {
	ts, err := NewTokenSource(ctx, cfg, scopes...)
	if err != nil {
		return nil, err
	}

	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		BurstSize:         cfg.Burst,
	})

	opts := []option.ClientOption{option.WithHTTPClient(NewHTTPClient(ts, limiter))}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}
	return opts, nil
}
