package dbconn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetRegistry drops all caches without closing them.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[string]handle{}
}

func TestShared(t *testing.T) {
	t.Run("same key returns same cache", func(t *testing.T) {
		resetRegistry()
		defer resetRegistry()

		builds := 0
		build := func() *Cache[*fakeConn] {
			builds++
			return New(Config[*fakeConn]{Backend: "fake"})
		}

		// Simulates the hosting code being re-run several times.
		first := Shared("fake", build)
		second := Shared("fake", build)
		third := Shared("fake", build)

		assert.Same(t, first, second)
		assert.Same(t, first, third)
		assert.Equal(t, 1, builds, "Cache should be built exactly once")
	})

	t.Run("state survives re-lookup", func(t *testing.T) {
		resetRegistry()
		defer resetRegistry()

		d := &fakeDialer{}
		lookup := func() *Cache[*fakeConn] {
			return Shared("fake", func() *Cache[*fakeConn] {
				return newTestCache(d, uriValue("fake://db"))
			})
		}

		conn, err := lookup().Get(context.Background())
		require.NoError(t, err)
		again, err := lookup().Get(context.Background())
		require.NoError(t, err)

		assert.Same(t, conn, again)
		assert.Equal(t, int64(1), d.calls.Load())
	})

	t.Run("type mismatch panics", func(t *testing.T) {
		resetRegistry()
		defer resetRegistry()

		Shared("fake", func() *Cache[*fakeConn] { return New(Config[*fakeConn]{}) })
		assert.Panics(t, func() {
			Shared("fake", func() *Cache[string] { return New(Config[string]{}) })
		})
	})
}

func TestStatusesAndCloseAll(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	closeErr := errors.New("boom")
	closedB := false
	a := Shared("a", func() *Cache[*fakeConn] {
		return New(Config[*fakeConn]{
			Backend: "a",
			Resolve: func() string { return "fake://a" },
			Dial:    (&fakeDialer{}).dial,
			Close:   func(context.Context, *fakeConn) error { return closeErr },
		})
	})
	b := Shared("b", func() *Cache[*fakeConn] {
		return New(Config[*fakeConn]{
			Backend: "b",
			Resolve: func() string { return "fake://b" },
			Dial:    (&fakeDialer{}).dial,
			Close: func(context.Context, *fakeConn) error {
				closedB = true
				return nil
			},
		})
	})

	_, err := a.Get(context.Background())
	require.NoError(t, err)
	_, err = b.Get(context.Background())
	require.NoError(t, err)

	statuses := Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "a", statuses[0].Backend)
	assert.Equal(t, "b", statuses[1].Backend)

	err = CloseAll(context.Background())
	assert.ErrorIs(t, err, closeErr, "Close errors should be joined")
	assert.True(t, closedB, "Every cache should be closed even if one fails")
}
