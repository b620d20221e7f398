package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Retry profile for the portal's route service. The service throttles with
// 429 and its gateway occasionally answers 408/502/504 under load; all of
// those are worth a short backoff, anything else 4xx is the caller's bug.
const (
	maxAttempts    = 3
	initialBackoff = 250 * time.Millisecond
)

var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("route service status %d: %s", e.Code, e.Body)
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// doWithRetry issues the request up to maxAttempts times, backing off
// exponentially on throttling, transient service errors and network
// failures. Context cancellation wins over any remaining attempts.
func (c *Client) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := initialBackoff

	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.session.Do(req)
		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}

		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err = &httpStatusError{
				Code: resp.StatusCode,
				Body: strings.TrimSpace(string(b)),
			}
		}
		lastErr = err

		if !retryable(err) || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		return retryableStatus[he.Code]
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
