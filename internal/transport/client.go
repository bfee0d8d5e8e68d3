// Package transport provides the HTTP client shared by the catalog and
// image layers. It enforces a request timeout and maps transport failures
// onto the amiibodex error taxonomy.
package transport

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brookstreetgames/amiibodex/pkg/errors"
)

// DefaultTimeout bounds every request issued by the client. The remote
// catalog host is slow on cold caches, so this is deliberately generous.
const DefaultTimeout = 10 * time.Second

// Client wraps http.Client with timeout enforcement and error mapping.
type Client struct {
	http *http.Client
}

// New creates a transport client. A non-positive timeout falls back to
// DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request and returns the response body. Non-2xx
// responses, timeouts, and connection failures all surface as taxonomy
// errors; no retries are performed.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		switch {
		case stderrors.Is(err, context.Canceled):
			return nil, fmt.Errorf("GET %s: %w", url, errors.ErrCanceled)
		case stderrors.Is(err, context.DeadlineExceeded), isTimeout(err):
			return nil, fmt.Errorf("GET %s: %w", url, errors.ErrTimeout)
		default:
			return nil, errors.WrapAPI(url, 0, err)
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapAPI(url, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewAPIError(url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return body, nil
}

// Fetch implements the image downloader contract.
func (c *Client) Fetch(ctx context.Context, address string) ([]byte, error) {
	return c.Get(ctx, address)
}

// isTimeout reports whether err is a net-level timeout.
func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return stderrors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
