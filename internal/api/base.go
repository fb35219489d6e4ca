// Package api holds one request function per backend endpoint, all built on
// a uniform Result shape so transport failures, HTTP errors and body-parse
// problems are surfaced the same way to every caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HTTPClient interface for dependency injection.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the uniform outcome of one request.
//
// OK is true iff the HTTP status is in [200,300). A body that fails to parse
// as JSON leaves Data nil with the text preserved in Raw; parse failure is
// orthogonal to the HTTP status and never fails the call.
type Result struct {
	OK     bool
	Status int
	Data   json.RawMessage
	Raw    string
}

// Decode unmarshals the JSON body into v.
func (r *Result) Decode(v any) error {
	if r.Data == nil {
		return fmt.Errorf("api: response body is not JSON")
	}
	return json.Unmarshal(r.Data, v)
}

// Do issues one request and normalizes the outcome.
//
// The returned error is non-nil only for caller cancellation (the context's
// error, so superseded requests stay distinguishable) and for transport-level
// failures, which come back classified as recoverable. HTTP error statuses
// are NOT errors here; they are a Result with OK=false.
func Do(ctx context.Context, hc HTTPClient, baseURL, method, path string, query url.Values, body any) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u := resolveURL(baseURL, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, u, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		// Cancellation must propagate as such, not as a transport failure,
		// so callers can suppress error handling for requests they
		// themselves discarded.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, transportError(method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	res := &Result{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, transportError(method, path, err)
	}
	raw := buf.Bytes()
	if json.Valid(raw) {
		res.Data = json.RawMessage(raw)
	} else {
		res.Raw = string(raw)
	}
	return res, nil
}

// resolveURL joins path to the base URL unless path is already absolute.
func resolveURL(baseURL, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + path
}
