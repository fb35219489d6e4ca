package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned by Claims when the session is anonymous.
var ErrNoToken = errors.New("session: no token")

// TokenClaims are the display-relevant claims of the bearer token. They are
// parsed WITHOUT signature verification; only the server's verdict counts,
// these are for diagnostics and "session expires at" UI.
type TokenClaims struct {
	Subject   string
	ExpiresAt *time.Time
	IssuedAt  *time.Time
}

// Claims decodes the current token's claims without verifying it.
func (s *Store) Claims() (*TokenClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}
	out := &TokenClaims{}
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		out.IssuedAt = &t
	}
	return out, nil
}
