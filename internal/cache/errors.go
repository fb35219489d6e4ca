package cache

import "errors"

// ErrSuperseded is returned to a fetch whose key saw a newer fetch before it
// could commit. It is never a user-facing failure; the caller simply
// discarded its own request.
var ErrSuperseded = errors.New("cache: fetch superseded by a newer one")

// IsSuperseded reports whether err is the superseded outcome.
func IsSuperseded(err error) bool { return errors.Is(err, ErrSuperseded) }

// UserError carries the short localized message shown inline in the
// affected panel, wrapping the underlying failure.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error { return e.Err }
