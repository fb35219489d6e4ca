package heyso

import (
	"context"

	"github.com/heyso/heyso-go/internal/api"
	"github.com/heyso/heyso-go/internal/types"
)

// Session returns the current auth state.
func (c *Client) Session() Session { return c.session.Current() }

// Profile returns the signed-in account's profile fields.
func (c *Client) Profile() Profile { return c.session.Profile() }

// TokenClaims decodes the bearer token's claims without verifying it, for
// diagnostics only.
func (c *Client) TokenClaims() (*TokenClaims, error) { return c.session.Claims() }

// ValidateAuth runs the bootstrap validation: at most one round trip per
// process. A stored token the server rejects - or any ambiguous outcome -
// clears the session (fail closed) and purges the caches.
func (c *Client) ValidateAuth(ctx context.Context) error {
	return c.session.Validate(ctx, c.ping)
}

// RevalidateAuth forces another validation round trip past the bootstrap
// guard.
func (c *Client) RevalidateAuth(ctx context.Context) error {
	return c.session.Revalidate(ctx, c.ping)
}

func (c *Client) ping(ctx context.Context) (int, error) {
	return api.ValidatePing(ctx, c.http, c.baseURL)
}

// SignInWithGoogle exchanges a Google id token for a bearer token, persists
// the session and marks it validated.
func (c *Client) SignInWithGoogle(ctx context.Context, idToken string) (*Profile, error) {
	req := types.GoogleSignInRequest{IDToken: idToken}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := api.GoogleSignIn(ctx, c.http, c.baseURL, req)
	if err != nil {
		return nil, err
	}
	if err := c.session.SetAuth(resp.AccessToken, resp.Profile); err != nil {
		return nil, err
	}
	p := resp.Profile
	return &p, nil
}

// SignOut clears the persisted session and purges every cached entity.
func (c *Client) SignOut() error { return c.session.ClearAuth() }
