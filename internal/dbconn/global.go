package dbconn

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/huangsam/devevent/schema"
)

// handle is the type-erased view of a Cache kept in the registry.
type handle interface {
	Close(ctx context.Context) error
	Status() schema.ConnectionStatus
}

// registry anchors caches in process-wide storage so that repeated lookups,
// from any package and any number of times, see the same cache.
var (
	registryMu sync.Mutex
	registry   = map[string]handle{}
)

// Shared returns the process-wide cache stored under key, calling build
// exactly once to create it. A key must always be used with the same T.
func Shared[T any](key string, build func() *Cache[T]) *Cache[T] {
	registryMu.Lock()
	defer registryMu.Unlock()

	if h, ok := registry[key]; ok {
		cache, ok := h.(*Cache[T])
		if !ok {
			panic(fmt.Sprintf("dbconn: key %q already holds a %T", key, h))
		}
		return cache
	}

	cache := build()
	registry[key] = cache
	return cache
}

// Statuses returns the status of every registered cache, sorted by key.
func Statuses() []schema.ConnectionStatus {
	registryMu.Lock()
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	statuses := make([]schema.ConnectionStatus, 0, len(keys))
	for _, k := range keys {
		statuses = append(statuses, registry[k].Status())
	}
	registryMu.Unlock()
	return statuses
}

// CloseAll closes every registered cache. It should be called on application shutdown.
func CloseAll(ctx context.Context) error {
	registryMu.Lock()
	handles := make([]handle, 0, len(registry))
	for _, h := range registry {
		handles = append(handles, h)
	}
	registryMu.Unlock()

	var errs []error
	for _, h := range handles {
		if err := h.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
