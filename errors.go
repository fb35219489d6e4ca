package heyso

import (
	"errors"

	"github.com/heyso/heyso-go/internal/apierrors"
	"github.com/heyso/heyso-go/internal/cache"
)

// ErrNotSignedIn is returned by reads and mutations issued before a
// validated session with a token exists.
var ErrNotSignedIn = errors.New("heyso: not signed in")

// ErrSuperseded marks a fetch discarded because a newer fetch for the same
// key was issued first. Callers should suppress it; it is not a failure.
var ErrSuperseded = cache.ErrSuperseded

// IsSuperseded reports whether err is the superseded outcome.
func IsSuperseded(err error) bool { return cache.IsSuperseded(err) }

// UserError wraps a mutation failure with a short localized message. The
// optimistic patch has already been rolled back when one is returned.
type UserError = cache.UserError

// UserMessage extracts the localized message from err, or "".
func UserMessage(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return ""
}

// StatusOf extracts the HTTP status from err, or 0 for transport-level and
// non-HTTP failures.
func StatusOf(err error) int { return apierrors.StatusOf(err) }
