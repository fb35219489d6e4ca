// Package heyso is the Go client SDK for the Heyso Diary service. It owns
// the client side of the application's data layer: the auth session, the
// authenticated request wrapper and the keyed entity cache with optimistic
// updates. Rendering is the caller's concern.
package heyso

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/heyso/heyso-go/internal/cache"
	"github.com/heyso/heyso-go/internal/dispatch"
	"github.com/heyso/heyso-go/internal/session"
)

// Paging defaults mirror what the views request.
const (
	DefaultPage = 1
	DefaultSize = 20

	conversationsPage = 1
	conversationsSize = 100
	messageLimit      = 100
)

// Client is the SDK entry point. All methods are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	cache   *cache.Store
	disp    *dispatch.Dispatcher

	persist    session.Persister // set via option, resolved in New
	closedOnce uint32
}

// New constructs a Client for the given base URL. Additional options can be
// provided via functional arguments; a misconfigured option panics.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache.NewStore(),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	if c.persist == nil {
		fp, err := session.DefaultFilePersister()
		if err != nil {
			log.Warn().Err(err).Msg("heyso: no user config dir, session will not persist")
			c.persist = &session.MemoryPersister{}
		} else {
			c.persist = fp
		}
	}
	c.session = session.NewStore(c.persist)

	if c.disp == nil {
		cfg, err := dispatch.LoadConfig()
		if err != nil {
			panic(err)
		}
		c.disp = dispatch.New(cfg)
	}

	// Mutations for the same cache key run FIFO through the dispatcher.
	c.cache.SetCaller(func(ctx context.Context, key string, call func(context.Context) error) error {
		return c.disp.SubmitWait(ctx, key, dispatch.Func(call))
	})

	// Signing out purges every cached entity.
	c.session.OnClear(c.cache.Purge)

	c.wrapTransportWithBearer()

	return c
}

// wrapTransportWithBearer wraps the HTTP transport so every request carries
// the current session token, read at request time so sign-in and sign-out
// take effect immediately.
func (c *Client) wrapTransportWithBearer() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &bearerTransport{base: base, token: c.session.Token}
}

type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok := t.token()
	if tok == "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+tok)
	return t.base.RoundTrip(cloned)
}

// Close stops the background dispatcher. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.disp != nil {
		c.disp.Stop()
	}
	return nil
}

// requireSignIn gates cache reads and mutations the way the views do:
// nothing is fetched until the session is validated and a token is present.
func (c *Client) requireSignIn() error {
	if !c.session.Current().SignedIn() {
		return ErrNotSignedIn
	}
	return nil
}
