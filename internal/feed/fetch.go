package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"holidaycal/internal/cache"
	appLog "holidaycal/internal/log"
)

// Sentinel errors for upstream failures. Both are transient: the
// boundary reports them without crashing the serving process.
var (
	ErrUpstreamUnavailable = errors.New("upstream feed unavailable")
	ErrUpstreamTimeout     = errors.New("upstream feed timed out")
)

const (
	// userAgent is the fixed client identifier sent to the upstream host.
	userAgent = "holidaycal/1.0"

	defaultFetchTimeout = 15 * time.Second
)

// Fetcher retrieves raw feed content for a URL, consulting and
// populating the shared feed cache so the upstream provider is
// shielded from repeated requests.
type Fetcher struct {
	client *http.Client
	cache  *cache.Store
	ttl    time.Duration
}

// NewFetcher creates a Fetcher backed by store. A non-positive ttl
// falls back to the cache default.
func NewFetcher(store *cache.Store, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Fetcher{
		client: &http.Client{Timeout: defaultFetchTimeout},
		cache:  store,
		ttl:    ttl,
	}
}

// Fetch returns the raw feed body for url. A cache hit returns the
// cached body without a network call; otherwise the body is fetched,
// cached under a key derived from url, and returned.
//
// Two concurrent misses on the same key may both fetch; the second
// writer simply overwrites the first, both bodies coming from the same
// idempotent source.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrUpstreamUnavailable)
	}

	key := cacheKey(url)
	if body, ok := f.cache.Get(key); ok {
		appLog.Debug("feed cache hit", "url", redactURL(url))
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	appLog.Info("feed fetch start", "url", redactURL(url))

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %s", ErrUpstreamUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	f.cache.Set(key, body, f.ttl)
	appLog.Info("feed fetch success", "url", redactURL(url), "bytes", len(body))

	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "feed:" + hex.EncodeToString(sum[:8])
}

// redactURL hides the path and query of a feed URL for logging.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := -1
	for idx := 0; idx+2 < len(u); idx++ {
		if u[idx:idx+3] == "://" {
			i = idx + 3
			break
		}
	}
	if i == -1 {
		return "feed://...(redacted)"
	}

	j := i
	for j < len(u) && u[j] != '/' {
		j++
	}
	return u[:j] + redactedSuffix
}
