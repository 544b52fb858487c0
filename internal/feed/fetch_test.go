package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"holidaycal/internal/cache"
	"holidaycal/internal/feed"
)

func TestFetchPopulatesAndUsesCache(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "holidaycal/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	}))
	defer upstream.Close()

	fetcher := feed.NewFetcher(cache.New(), time.Minute)

	first, err := fetcher.Fetch(context.Background(), upstream.URL)
	require.NoError(t, err)
	require.Contains(t, string(first), "BEGIN:VCALENDAR")

	second, err := fetcher.Fetch(context.Background(), upstream.URL)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Equal(t, int32(1), hits.Load(), "second fetch must be served from cache")
}

func TestFetchExpiredCacheRefetches(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	}))
	defer upstream.Close()

	fetcher := feed.NewFetcher(cache.New(), 10*time.Millisecond)

	_, err := fetcher.Fetch(context.Background(), upstream.URL)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = fetcher.Fetch(context.Background(), upstream.URL)
	require.NoError(t, err)
	require.Equal(t, int32(2), hits.Load())
}

func TestFetchNonSuccessStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	fetcher := feed.NewFetcher(cache.New(), time.Minute)

	_, err := fetcher.Fetch(context.Background(), upstream.URL)
	require.ErrorIs(t, err, feed.ErrUpstreamUnavailable)
}

func TestFetchTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer upstream.Close()

	fetcher := feed.NewFetcher(cache.New(), time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fetcher.Fetch(ctx, upstream.URL)
	require.ErrorIs(t, err, feed.ErrUpstreamTimeout)
}

func TestFetchTransportError(t *testing.T) {
	fetcher := feed.NewFetcher(cache.New(), time.Minute)

	_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/holidays.ics")
	require.ErrorIs(t, err, feed.ErrUpstreamUnavailable)
}
