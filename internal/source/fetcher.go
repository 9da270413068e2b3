package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/legalese/internal/util"
	"github.com/ppiankov/legalese/internal/worker"
)

// fetchAfterFunc is overridden in tests
var fetchAfterFunc = time.After

const (
	maxFetchAttempts = 3
	maxRedirects     = 3
	fetchBackoff     = time.Second
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// ErrTooLarge is returned when a document exceeds the size limit
var ErrTooLarge = errors.New("document exceeds size limit")

// StatusError is a non-2xx HTTP answer
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.StatusCode, e.Status)
}

// Fetcher fetches legal documents over HTTP
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	hosts      *worker.Limiter // paces hosts that publish a Crawl-delay
	userAgent  string
	maxBytes   int64
	logger     *zap.Logger
}

// FetchResult contains the fetched body and metadata
type FetchResult struct {
	Body         []byte
	ContentType  string
	LastModified string
	FinalURL     string
	Name         string
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy, noProxy string) *Fetcher {
	client := util.NewHTTPClient(timeout, httpProxy, httpsProxy, noProxy)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	return &Fetcher{
		httpClient: client,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
		logger:     zap.NewNop(),
	}
}

// WithRobots enables robots.txt checks using the fetcher's client.
// Hosts that publish a Crawl-delay are fetched at most once per delay.
func (f *Fetcher) WithRobots() *Fetcher {
	f.robots = util.NewRobotsChecker(f.userAgent, f.httpClient)
	f.hosts = worker.NewLimiter(0, 1)
	return f
}

// WithLogger sets the logger used for retry diagnostics
func (f *Fetcher) WithLogger(logger *zap.Logger) *Fetcher {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// Fetch retrieves a document from the given URL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if err := f.waitForHost(ctx, rawURL, crawlDelay); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	// Read one byte past the limit to detect oversized documents
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%s: %w (%d bytes)", rawURL, ErrTooLarge, f.maxBytes)
	}

	finalURL := resp.Request.URL.String()

	return &FetchResult{
		Body:         body,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		FinalURL:     finalURL,
		Name:         nameFromURL(finalURL),
	}, nil
}

// FetchWithRetry retries transient failures (429, 5xx, network errors)
// with linear backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == maxFetchAttempts {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		wait := time.Duration(attempt) * fetchBackoff
		f.logger.Debug("retrying fetch",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-fetchAfterFunc(wait):
		}
	}
	return nil, lastErr
}

// waitForHost applies the host's crawl delay before a request
func (f *Fetcher) waitForHost(ctx context.Context, rawURL string, crawlDelay time.Duration) error {
	host := worker.HostKey(rawURL)
	if f.hosts == nil || host == "" {
		return nil
	}

	f.hosts.SetInterval(host, crawlDelay)
	if err := f.hosts.Wait(ctx, host); err != nil {
		return fmt.Errorf("crawl delay for %s: %w", host, err)
	}
	return nil
}

// isRetryableFetchError reports whether err may succeed on a later attempt
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// nameFromURL derives a display name from the last path segment
func nameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	p := strings.Trim(parsed.Path, "/")
	if p == "" {
		return parsed.Host
	}

	last := path.Base(p)
	if ext := path.Ext(last); ext != "" && ext != last {
		last = strings.TrimSuffix(last, ext)
	}

	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	return last
}
