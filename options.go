package heyso

// Functional options configuring the Client during construction. Kept in a
// standalone file so all available knobs are discoverable at a glance.

import (
	"fmt"
	"time"

	"github.com/heyso/heyso-go/internal/dispatch"
	"github.com/heyso/heyso-go/internal/session"
)

// Option configures a Client during construction in New.
//
// Options run before the bearer transport wrapper is installed, so
// transport-related options (like debug logging) sit underneath it.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client timeout.
//
// Prefer per-request context deadlines where possible; this is a coarse
// safety net bounding the total time of a single HTTP request. Must be
// greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the transport so each request/response is dumped to
// the log when enabled. Do not enable in production; dumps include headers.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithPersister overrides durable session storage. Tests pass a
// session.MemoryPersister; the default is a JSON file under the user config
// dir.
func WithPersister(p session.Persister) Option {
	return func(c *Client) error {
		if p == nil {
			return fmt.Errorf("persister cannot be nil")
		}
		c.persist = p
		return nil
	}
}

// WithMutationAttempts bounds how often a recoverable mutation failure is
// retried before the optimistic patch is rolled back. 1 disables retries.
// The remaining dispatcher tunables keep their HEYSO_DISPATCH_* environment
// values.
func WithMutationAttempts(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("mutation attempts must be > 0")
		}
		cfg, err := dispatch.LoadConfig()
		if err != nil {
			return err
		}
		cfg.MaxAttempts = n
		c.disp = dispatch.New(cfg)
		return nil
	}
}
