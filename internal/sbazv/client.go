package sbazv

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/ics"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

const (
	// FetchTimeout bounds one upstream fetch including retries.
	FetchTimeout = 15 * time.Second

	// CacheTTL is how long a fetched calendar is served without
	// contacting the upstream again.
	CacheTTL = 12 * time.Hour

	acceptHeader = "text/calendar, application/ics, */*"
	userAgent    = "gemeinde-portal-abfall-feed/1.0"

	calendarMarker = "BEGIN:VCALENDAR"
)

// Client fetches the waste collection calendar from the SBAZV feed
// service. Every failure along the way degrades to cached or generated
// data; the public fetch operations never return an error.
type Client struct {
	feedURL string
	ttl     time.Duration
	timeout time.Duration
	cache   *Cache
	http    *retryablehttp.Client
	now     func() time.Time
	log     *logrus.Logger
}

// ClientConfig configures a Client. The zero value is usable: no feed URL
// (fallback mode), default TTL and timeout, a fresh cache.
type ClientConfig struct {
	// FeedURL is the optional global feed URL. Empty is a valid,
	// expected state and not an error.
	FeedURL string
	TTL     time.Duration
	Timeout time.Duration
	Cache   *Cache
	Logger  *logrus.Logger
	// Now is a test hook for the clock.
	Now func() time.Time
}

// NewClient builds a Client from cfg, filling in defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.TTL <= 0 {
		cfg.TTL = CacheTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = FetchTimeout
	}
	if cfg.Cache == nil {
		cfg.Cache = NewCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.Logger = stdlog.New(io.Discard, "", 0)
	retryClient.HTTPClient.Timeout = cfg.Timeout

	return &Client{
		feedURL: cfg.FeedURL,
		ttl:     cfg.TTL,
		timeout: cfg.Timeout,
		cache:   cfg.Cache,
		http:    retryClient,
		now:     cfg.Now,
		log:     cfg.Logger,
	}
}

// Configured reports whether a global feed URL is set.
func (c *Client) Configured() bool {
	return c.feedURL != ""
}

// CacheStatus returns the diagnostic view of the cache.
func (c *Client) CacheStatus() CacheStatus {
	return c.cache.Status(c.now())
}

// InvalidateCache clears the cache unconditionally.
func (c *Client) InvalidateCache() {
	c.cache.Invalidate()
}

// FetchCalendar returns the collection schedule, preferring the fresh
// cache, then a live fetch of the configured feed URL, then the stale
// cache, then the generated fallback schedule. A non-empty street narrows
// cached results to that street and tags fetched records with it.
func (c *Client) FetchCalendar(ctx context.Context, street string) waste.FetchResult {
	if result, ok := c.fromFreshCache(street); ok {
		return result
	}
	if c.feedURL == "" {
		c.log.Info("no SBAZV feed URL configured, serving degraded schedule")
		return c.degrade(street, "no feed URL configured", true)
	}
	return c.fetchAndCache(ctx, c.feedURL, street)
}

// FetchFromURL fetches a caller-supplied feed URL, bypassing the cache
// freshness check and the configured URL. The cache is still updated on
// success so subsequent FetchCalendar calls benefit.
func (c *Client) FetchFromURL(ctx context.Context, feedURL, street string) waste.FetchResult {
	return c.fetchAndCache(ctx, feedURL, street)
}

// FetchForStreet resolves the street through the registry lookup. The
// lookup holds no per-address feed URLs yet (see FeedURLForStreet), so
// this degrades to the cache or the fallback schedule until a mapping
// table exists.
func (c *Client) FetchForStreet(ctx context.Context, street string) waste.FetchResult {
	if result, ok := c.fromFreshCache(street); ok {
		return result
	}
	feedURL, ok := FeedURLForStreet(street)
	if !ok {
		return c.degrade(street, fmt.Sprintf("no feed URL known for street %q", street), true)
	}
	return c.fetchAndCache(ctx, feedURL, street)
}

// ImportICS runs manually uploaded calendar text through the same
// validate, parse and map pipeline as a live fetch and updates the cache
// on success. Invalid content yields a failure result, not an error.
func (c *Client) ImportICS(text, street string) waste.FetchResult {
	if !strings.Contains(text, calendarMarker) {
		return waste.FetchResult{
			Success:   false,
			FetchedAt: c.now(),
			Source:    waste.SourceSBAZV,
			Error:     fmt.Sprintf("content is not a calendar (missing %s)", calendarMarker),
		}
	}

	collections := waste.ToCollections(ics.Parse(text), street)
	fetchedAt := c.now()
	c.cache.Update(collections, fetchedAt)
	c.log.Infof("imported %d collections from uploaded calendar", len(collections))

	return waste.FetchResult{
		Success:     true,
		Collections: collections,
		FetchedAt:   fetchedAt,
		Source:      waste.SourceSBAZV,
	}
}

// FeedTest is the outcome of probing a candidate feed URL. The cache is
// never touched by a probe.
type FeedTest struct {
	OK         bool   `json:"ok"`
	ValidShape bool   `json:"validShape"`
	EventCount int    `json:"eventCount"`
	Error      string `json:"error,omitempty"`
	Preview    string `json:"preview,omitempty"`
}

// TestFeedURL checks a candidate URL's shape and probes it live with the
// same timeout and validation rules as a regular fetch.
func (c *Client) TestFeedURL(ctx context.Context, feedURL string) FeedTest {
	test := FeedTest{ValidShape: IsValidFeedURL(feedURL)}

	body, err := c.fetchBody(ctx, feedURL)
	if err != nil {
		test.Error = err.Error()
		return test
	}
	if err := validateCalendar(body); err != nil {
		test.Error = err.Error()
		test.Preview = preview(body)
		return test
	}

	test.OK = true
	test.EventCount = strings.Count(body, "BEGIN:VEVENT")
	return test
}

// fromFreshCache serves the cached batch when it is younger than the TTL.
func (c *Client) fromFreshCache(street string) (waste.FetchResult, bool) {
	collections, fetchedAt, ok := c.cache.Snapshot()
	if !ok || c.now().Sub(fetchedAt) >= c.ttl {
		return waste.FetchResult{}, false
	}
	return waste.FetchResult{
		Success:     true,
		Collections: filterStreet(collections, street),
		FetchedAt:   fetchedAt,
		Source:      waste.SourceCache,
	}, true
}

// fetchAndCache performs a live fetch and caches the full result set.
func (c *Client) fetchAndCache(ctx context.Context, feedURL, street string) waste.FetchResult {
	body, err := c.fetchBody(ctx, feedURL)
	if err == nil {
		err = validateCalendar(body)
	}
	if err != nil {
		c.log.Warnf("SBAZV fetch failed: %v", err)
		return c.degrade(street, fmt.Sprintf("fetch failed: %v", err), false)
	}

	collections := waste.ToCollections(ics.Parse(body), street)
	fetchedAt := c.now()
	c.cache.Update(collections, fetchedAt)
	c.log.Infof("fetched %d collections from SBAZV feed", len(collections))

	return waste.FetchResult{
		Success:     true,
		Collections: collections,
		FetchedAt:   fetchedAt,
		Source:      waste.SourceSBAZV,
	}
}

// degrade resolves a failed or skipped fetch: stale cached data wins over
// the generated fallback schedule. expected marks recognized states such
// as missing configuration, which keep Success true even on fallback.
func (c *Client) degrade(street, reason string, expected bool) waste.FetchResult {
	if collections, fetchedAt, ok := c.cache.Snapshot(); ok {
		return waste.FetchResult{
			Success:     true,
			Collections: filterStreet(collections, street),
			FetchedAt:   fetchedAt,
			Source:      waste.SourceCache,
			Error:       reason + "; serving stale cached data",
		}
	}
	return waste.FetchResult{
		Success:     expected,
		Collections: waste.GenerateFallback(street),
		FetchedAt:   c.now(),
		Source:      waste.SourceFallback,
		Error:       reason + "; serving generated fallback schedule",
	}
}

// fetchBody retrieves the feed URL within the fetch timeout. Non-2xx
// responses are errors.
func (c *Client) fetchBody(ctx context.Context, feedURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request feed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warnf("Error closing feed response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// validateCalendar checks the minimal content marker of an ICS feed.
func validateCalendar(body string) error {
	if !strings.Contains(body, calendarMarker) {
		return fmt.Errorf("response is not a calendar (missing %s)", calendarMarker)
	}
	return nil
}

// filterStreet narrows a cached batch to one street; an empty street
// returns the batch unchanged.
func filterStreet(collections []waste.Collection, street string) []waste.Collection {
	if street == "" {
		return collections
	}
	var filtered []waste.Collection
	for _, collection := range collections {
		if collection.Street == street {
			filtered = append(filtered, collection)
		}
	}
	return filtered
}

// preview returns the first part of a response body for diagnostics.
func preview(body string) string {
	const max = 200
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return body
}
