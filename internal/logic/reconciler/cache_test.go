package reconciler_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

func TestSnapshotCache(t *testing.T) {
	t.Parallel()

	t.Run("empty cache loads nothing", func(t *testing.T) {
		t.Parallel()

		cache := reconciler.NewSnapshotCache()

		snapshot, ok := cache.Load()
		require.False(t, ok)
		require.Nil(t, snapshot)
	})

	t.Run("store replaces wholesale", func(t *testing.T) {
		t.Parallel()

		cache := reconciler.NewSnapshotCache()

		cache.Store(&reconciler.Snapshot{
			Records:    map[string][]reconciler.Record{"a.com": {{Domain: "a.com", Name: "x"}}},
			ObservedAt: time.Now(),
		})
		cache.Store(&reconciler.Snapshot{
			Records:    map[string][]reconciler.Record{"b.com": {{Domain: "b.com", Name: "y"}}},
			ObservedAt: time.Now(),
		})

		snapshot, ok := cache.Load()
		require.True(t, ok)
		require.Contains(t, snapshot.Records, "b.com")
		require.NotContains(t, snapshot.Records, "a.com")
	})

	t.Run("concurrent store and load", func(t *testing.T) {
		t.Parallel()

		cache := reconciler.NewSnapshotCache()

		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(2)

			go func() {
				defer wg.Done()

				cache.Store(&reconciler.Snapshot{ObservedAt: time.Now()})
			}()

			go func() {
				defer wg.Done()

				_, _ = cache.Load()
			}()
		}

		wg.Wait()

		_, ok := cache.Load()
		require.True(t, ok)
	})
}
