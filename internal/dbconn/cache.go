// Package dbconn memoizes one database connection per backend.
//
// A Cache holds at most one live handle and at most one in-flight connection
// attempt. Concurrent callers that arrive while an attempt is pending wait on
// that same attempt, so N callers produce exactly one dial. Failures are not
// cached: the next call dials again.
package dbconn

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/huangsam/devevent/internal/logging"
	"github.com/huangsam/devevent/schema"
	"golang.org/x/sync/singleflight"
)

// DefaultConnectTimeout bounds a single connection attempt.
const DefaultConnectTimeout = 10 * time.Second

// flightKey is the only key used with the singleflight group; one cache guards one handle.
const flightKey = "connect"

// URIResolver returns the connection URI, or an empty string when it is not configured.
type URIResolver func() string

// Dialer opens a new handle to the database service.
type Dialer[T any] func(ctx context.Context, uri string, opts ConnectOptions) (T, error)

// Closer releases a handle produced by a Dialer.
type Closer[T any] func(ctx context.Context, conn T) error

// ConnectOptions are passed through to the Dialer.
type ConnectOptions struct {
	// BufferCommands allows the dialer to hand out a handle before the server
	// is reachable. When false the dialer must verify readiness first.
	BufferCommands bool
	ConnectTimeout time.Duration
	AppName        string
}

// DefaultConnectOptions returns options with command buffering disabled.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		BufferCommands: false,
		ConnectTimeout: DefaultConnectTimeout,
		AppName:        "devevent",
	}
}

// Config describes how a Cache resolves, opens and closes its handle.
type Config[T any] struct {
	Backend string      // Used in errors and status output
	URIKey  string      // Configuration key named in configuration errors
	Resolve URIResolver // Called on every attempt; never cached
	Dial    Dialer[T]
	Close   Closer[T] // Optional
	Options ConnectOptions
}

// Cache is a memoized connection handle.
type Cache[T any] struct {
	cfg   Config[T]
	group singleflight.Group

	mu          sync.RWMutex // Protects the fields below
	conn        T
	connected   bool
	connectedAt time.Time
	lastErr     string

	attempts atomic.Int64
	inflight atomic.Bool
	waiters  atomic.Int64
}

// New creates an empty Cache.
func New[T any](cfg Config[T]) *Cache[T] {
	if cfg.Options.ConnectTimeout <= 0 {
		cfg.Options.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.URIKey == "" {
		cfg.URIKey = "connection URI"
	}
	return &Cache[T]{cfg: cfg}
}

// Get returns the shared handle, connecting on first use.
//
// Cancelling ctx only stops this caller from waiting. The shared attempt keeps
// running for the other callers and still populates the cache.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	if conn, ok := c.load(); ok {
		return conn, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		return c.connect(detached)
	})
	// DoChan has joined or started the flight by the time it returns.
	c.waiters.Add(1)
	defer c.waiters.Add(-1)

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// connect runs inside the single flight.
func (c *Cache[T]) connect(ctx context.Context) (any, error) {
	// A flight that finished between load() and DoChan already stored the handle.
	if conn, ok := c.load(); ok {
		return conn, nil
	}

	var uri string
	if c.cfg.Resolve != nil {
		uri = strings.TrimSpace(c.cfg.Resolve())
	}
	if uri == "" {
		return nil, missingURI(c.cfg.URIKey)
	}

	c.inflight.Store(true)
	defer c.inflight.Store(false)
	c.attempts.Add(1)

	logger := logging.FromContext(ctx).With().Str("backend", c.cfg.Backend).Logger()
	logger.Debug().Int64("attempt", c.attempts.Load()).Msg("connecting to database")

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.Options.ConnectTimeout)
	defer cancel()

	conn, err := c.cfg.Dial(dialCtx, uri, c.cfg.Options)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err.Error()
		c.mu.Unlock()
		logger.Error().Err(err).Msg("database connection failed")
		return nil, &ConnectionError{Backend: c.cfg.Backend, Err: err}
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.connectedAt = time.Now()
	c.lastErr = ""
	c.mu.Unlock()

	logger.Info().Msg("database connected successfully")
	return conn, nil
}

// load returns the cached handle if there is one.
func (c *Cache[T]) load() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn, c.connected
}

// Attempts returns the number of dials performed so far.
func (c *Cache[T]) Attempts() int64 {
	return c.attempts.Load()
}

// Waiters returns the number of callers currently waiting on a flight.
func (c *Cache[T]) Waiters() int64 {
	return c.waiters.Load()
}

// Status returns a snapshot of the cache state.
func (c *Cache[T]) Status() schema.ConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := schema.StateEmpty
	switch {
	case c.connected:
		state = schema.StateConnected
	case c.inflight.Load():
		state = schema.StatePending
	}

	return schema.ConnectionStatus{
		Backend:     c.cfg.Backend,
		State:       state,
		Attempts:    c.attempts.Load(),
		Waiters:     c.waiters.Load(),
		ConnectedAt: c.connectedAt,
		LastError:   c.lastErr,
	}
}

// Close releases the live handle and resets the cache to empty.
// The next Get dials again. An attempt still in flight is not affected.
func (c *Cache[T]) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	var zero T
	c.conn = zero
	c.connected = false
	c.connectedAt = time.Time{}
	c.mu.Unlock()

	if c.cfg.Close == nil {
		return nil
	}
	return c.cfg.Close(ctx, conn)
}
