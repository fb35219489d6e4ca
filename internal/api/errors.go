package api

import (
	"github.com/heyso/heyso-go/internal/apierrors"
)

// transportError classifies a network-level failure (always recoverable).
func transportError(method, path string, err error) error {
	return apierrors.FromTransport(method+" "+path, err)
}

// httpError classifies a non-2xx result for the given operation.
func httpError(op string, r *Result) error {
	body := r.Raw
	if body == "" && r.Data != nil {
		body = string(r.Data)
	}
	return apierrors.FromStatus(op, r.Status, body)
}
