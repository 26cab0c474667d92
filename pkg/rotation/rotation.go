// Package rotation implements credential rotation for the generative-AI
// backend: a pool of API keys tried in a freshly shuffled order on every
// call, so load spreads across keys and a quota-exhausted key is skipped
// rather than failing the request.
package rotation

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/debug"
	"github.com/mimart/storefront/pkg/provider"
)

// Operation is the caller-supplied work executed against one model handle.
type Operation func(ctx context.Context, client provider.Client) error

// Rotator executes operations against a pool of API keys. Each call
// shuffles the pool and tries keys sequentially until one succeeds.
// Retryable failures (rate limiting, credential rejection) advance to the
// next key; any other failure is returned immediately. Nothing is cached
// across calls: a later call may succeed with a different key.
type Rotator struct {
	keys    []string
	factory provider.Factory
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Rotator.
type Option func(*Rotator)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rotator) { r.logger = l }
}

// WithRand sets the random source used for shuffling. Tests inject a
// seeded source for deterministic key order.
func WithRand(rng *rand.Rand) Option {
	return func(r *Rotator) { r.rng = rng }
}

// New creates a Rotator over the given key pool. An empty pool is allowed;
// every Do call then fails with a configuration error.
func New(keys []string, factory provider.Factory, opts ...Option) *Rotator {
	r := &Rotator{
		keys:    append([]string(nil), keys...),
		factory: factory,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Keys returns the number of keys in the pool.
func (r *Rotator) Keys() int {
	return len(r.keys)
}

// Do executes op once per key in a freshly shuffled order until one
// invocation succeeds. On success it returns immediately, skipping the
// remaining keys. A retryable error advances to the next key; a fatal
// error is returned without trying further keys. When every key has been
// tried without success, the last-seen error is returned.
func (r *Rotator) Do(ctx context.Context, model string, op Operation) error {
	if len(r.keys) == 0 {
		return api.NewServerError("no API credentials configured")
	}

	keys := r.shuffled()

	var lastErr error
	for i, key := range keys {
		debug.Log("rotation", "trying credential", "attempt", i+1, "of", len(keys), "key_prefix", keyPrefix(key))
		client, err := r.factory(key, model)
		if err != nil {
			// A factory failure is a configuration problem, not a
			// per-key quota problem.
			return err
		}

		err = op(ctx, client)
		client.Close()
		if err == nil {
			return nil
		}
		lastErr = err

		if !api.RetryableError(err) {
			return err
		}

		r.logger.Warn("credential failed, rotating to next key",
			slog.String("key_prefix", keyPrefix(key)),
			slog.String("model", model),
			slog.String("error", err.Error()))
	}

	return lastErr
}

// shuffled returns a uniform random permutation of the key pool.
func (r *Rotator) shuffled() []string {
	keys := append([]string(nil), r.keys...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rng != nil {
		r.rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	} else {
		rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	}
	return keys
}

// keyPrefix returns the first few characters of a key for log lines,
// never the full credential.
func keyPrefix(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}
