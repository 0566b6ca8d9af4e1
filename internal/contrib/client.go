package contrib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxPayloadBytes = 4 << 20

// Fetcher retrieves the raw contribution calendar for a user.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (*Payload, error)
}

// ClientOptions configures an HTTPClient.
type ClientOptions struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts uint
	Transport   http.RoundTripper
}

// HTTPClient fetches calendars from the github-contributions-api service.
type HTTPClient struct {
	baseURL     string
	timeout     time.Duration
	maxAttempts uint
	http        *http.Client
}

// NewHTTPClient creates a client. Requests are traced with otelhttp.
func NewHTTPClient(opts ClientOptions) *HTTPClient {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 1
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		timeout:     opts.Timeout,
		maxAttempts: opts.MaxAttempts,
		http:        &http.Client{Transport: otelhttp.NewTransport(transport)},
	}
}

// Fetch performs GET {base}/{user}.json?flat=true. Every failure is an
// *UpstreamError. Server errors and transport failures are retried up to
// MaxAttempts; client errors are not.
func (c *HTTPClient) Fetch(ctx context.Context, username string) (*Payload, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/%s.json?flat=true", c.baseURL, url.PathEscape(username))
	attempt := 0
	op := func() (*Payload, error) {
		attempt++
		p, err := c.fetchOnce(ctx, endpoint, username)
		if err != nil {
			slog.Debug("Contribution fetch failed", "username", username, "attempt", attempt, "error", err)
		}
		return p, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	p, err := backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(c.maxAttempts))
	if err != nil {
		var upErr *UpstreamError
		if errors.As(err, &upErr) {
			return nil, upErr
		}
		return nil, &UpstreamError{Username: username, Err: err}
	}
	return p, nil
}

func (c *HTTPClient) fetchOnce(ctx context.Context, endpoint, username string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(&UpstreamError{Username: username, Err: err})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		upErr := &UpstreamError{Username: username, Err: err}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(upErr)
		}
		return nil, upErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		upErr := &UpstreamError{Username: username, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(upErr)
		}
		return nil, upErr
	}

	var p Payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&p); err != nil {
		return nil, backoff.Permanent(&UpstreamError{Username: username, Err: fmt.Errorf("decode payload: %w", err)})
	}
	if p.Contributions == nil {
		return nil, backoff.Permanent(&UpstreamError{Username: username, Err: errNoContributions})
	}
	return &p, nil
}
