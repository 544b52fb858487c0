package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"holidaycal/internal/cache"
)

func TestGetReturnsFreshValue(t *testing.T) {
	store := cache.New()
	store.Set("feed", []byte("BEGIN:VCALENDAR"), time.Minute)

	got, ok := store.Get("feed")
	require.True(t, ok)
	require.Equal(t, []byte("BEGIN:VCALENDAR"), got)
}

func TestGetMissingKey(t *testing.T) {
	store := cache.New()
	_, ok := store.Get("absent")
	require.False(t, ok)
}

func TestExpiredEntryIsAbsentAndEvicted(t *testing.T) {
	store := cache.New()
	store.Set("feed", []byte("v"), 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, ok := store.Get("feed")
	require.False(t, ok)
	require.Equal(t, 0, store.Len())
}

func TestSetOverwritesExistingEntry(t *testing.T) {
	store := cache.New()
	store.Set("feed", []byte("old"), time.Minute)
	store.Set("feed", []byte("new"), time.Minute)

	got, ok := store.Get("feed")
	require.True(t, ok)
	require.Equal(t, []byte("new"), got)
	require.Equal(t, 1, store.Len())
}

func TestSweepEvictsOnlyExpired(t *testing.T) {
	store := cache.New()
	store.Set("stale", []byte("a"), 10*time.Millisecond)
	store.Set("fresh", []byte("b"), time.Minute)

	time.Sleep(20 * time.Millisecond)
	store.Sweep()

	require.Equal(t, 1, store.Len())
	_, ok := store.Get("fresh")
	require.True(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	store := cache.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%4)
			for j := 0; j < 100; j++ {
				store.Set(key, []byte("v"), time.Minute)
				store.Get(key)
				store.Sweep()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 4, store.Len())
}
