package api

import (
	"context"
	"net/http"

	"github.com/heyso/heyso-go/internal/types"
)

// ValidatePing confirms the stored token against the server. It returns the
// HTTP status so the session holder can distinguish a definitive 401 from an
// ambiguous failure; transport errors come back classified.
func ValidatePing(ctx context.Context, hc HTTPClient, baseURL string) (int, error) {
	res, err := Do(ctx, hc, baseURL, http.MethodPost, "/api/auth/validate", nil, nil)
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// GoogleSignIn exchanges a Google id token for a bearer token and profile.
func GoogleSignIn(ctx context.Context, hc HTTPClient, baseURL string, req types.GoogleSignInRequest) (*types.GoogleSignInResponse, error) {
	res, err := Do(ctx, hc, baseURL, http.MethodPost, "/api/auth/oauth/google", nil, req)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("google sign-in", res)
	}
	var sr types.GoogleSignInResponse
	if err := res.Decode(&sr); err != nil {
		return nil, err
	}
	return &sr, nil
}
