package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"subwaystatus.org/internal/logging"
)

const (
	// RealtimeTimeout bounds one GTFS-realtime fetch.
	RealtimeTimeout = 30 * time.Second
	// OutagesTimeout bounds one outage document fetch.
	OutagesTimeout = 20 * time.Second

	maxBodySize = 25 * 1024 * 1024
	userAgent   = "subway-status/1.0"
)

// Fetcher performs single, bounded GET requests. It never retries and keeps
// nothing between calls.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher using client, or a dedicated client with a
// cloned default transport when client is nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = newFeedHTTPClient()
	}
	return &Fetcher{client: client}
}

func newFeedHTTPClient() *http.Client {
	var transport *http.Transport
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		transport = t.Clone()
	} else {
		transport = &http.Transport{}
	}
	transport.MaxIdleConns = 20
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 90 * time.Second
	transport.TLSHandshakeTimeout = 10 * time.Second

	return &http.Client{
		// Per-call deadlines come from Fetch; this only catches callers that
		// bypass it.
		Timeout:   2 * RealtimeTimeout,
		Transport: transport,
	}
}

// Fetch downloads url within timeout and returns the full body. Failures are
// *Error values of KindFetchTimeout or KindFetchTransport; a non-2xx
// response records its status code.
func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindFetchTransport, Op: "fetch", URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, url, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		logging.FromContext(ctx).With(slog.String("component", "feed_fetcher")),
		"http_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindFetchTransport,
			Op:         "fetch",
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, classifyTransportError(ctx, url, fmt.Errorf("reading response body: %w", err))
	}
	if len(body) > maxBodySize {
		return nil, &Error{
			Kind: KindFetchTransport,
			Op:   "fetch",
			URL:  url,
			Err:  fmt.Errorf("response exceeds size limit of %d bytes", maxBodySize),
		}
	}

	return body, nil
}

func classifyTransportError(ctx context.Context, url string, err error) error {
	kind := KindFetchTransport
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = KindFetchTimeout
	} else {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			kind = KindFetchTimeout
		}
	}
	return &Error{Kind: kind, Op: "fetch", URL: url, Err: err}
}
