// Package sec talks to the SEC EDGAR endpoints: the ticker to CIK mapping,
// company submissions, and filing documents. EDGAR enforces a fair-access
// policy, so every request carries a User-Agent with contact info and goes
// through a shared rate limiter.
package sec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"sweepscan/internal/breaker"
)

const (
	secBaseURL     = "https://www.sec.gov"
	secDataBaseURL = "https://data.sec.gov"

	// EDGAR allows 10 requests per second; one every 210ms keeps a margin.
	requestInterval = 210 * time.Millisecond

	maxAttempts  = 5
	initialDelay = 1 * time.Second
	maxDelay     = 10 * time.Second

	defaultUserAgent = "sweepscan/1.0 (admin@sweepscan.local)"
)

// httpError is a non-2xx EDGAR response. 429 and 5xx are worth retrying;
// a Retry-After header overrides the exponential backoff.
type httpError struct {
	status     int
	retryAfter time.Duration
}

func (e *httpError) Error() string {
	return fmt.Sprintf("sec: unexpected status %d", e.status)
}

func (e *httpError) retryable() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// Client is a rate-limited EDGAR HTTP client.
type Client struct {
	client  *http.Client
	breaker *breaker.Breaker
	limiter *rate.Limiter

	// BaseURL and DataBaseURL override the EDGAR hosts in tests.
	BaseURL     string
	DataBaseURL string
	UserAgent   string
}

func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		client:    &http.Client{Timeout: 30 * time.Second},
		breaker:   breaker.New("sec"),
		limiter:   rate.NewLimiter(rate.Every(requestInterval), 1),
		UserAgent: userAgent,
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return secBaseURL
}

func (c *Client) dataBaseURL() string {
	if c.DataBaseURL != "" {
		return c.DataBaseURL
	}
	return secDataBaseURL
}

// do runs one request through the breaker. Transport failures and 5xx count
// against the breaker; other statuses are left to the retry loop.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	v, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			he := &httpError{status: resp.StatusCode, retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, he
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}

// get fetches url with retries. 429 and 5xx back off and try again, up to
// maxAttempts; any other non-200 fails immediately.
func (c *Client) get(url string) ([]byte, error) {
	delay := initialDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return nil, err
		}
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.do(req)
		if err == nil {
			if resp.StatusCode == http.StatusOK {
				body, readErr := io.ReadAll(resp.Body)
				resp.Body.Close()
				if readErr == nil {
					return body, nil
				}
				err = readErr
			} else {
				he := &httpError{status: resp.StatusCode, retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				err = he
			}
		}
		lastErr = err

		var he *httpError
		if errors.As(err, &he) && !he.retryable() {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}
		wait := delay
		if errors.As(err, &he) && he.retryAfter > 0 {
			wait = he.retryAfter
		}
		slog.Warn("sec request failed, retrying", "url", url, "attempt", attempt, "wait", wait, "error", err)
		time.Sleep(wait)
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return nil, fmt.Errorf("sec: giving up after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) getJSON(url string, v any) error {
	body, err := c.get(url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("sec: decode %s: %w", url, err)
	}
	return nil
}

// Download fetches url and writes the body to outPath, creating parent
// directories as needed.
func (c *Client) Download(url, outPath string) error {
	body, err := c.get(url)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outPath, body, 0644)
}
