// Package tiingo implements a market-data client for the Tiingo IEX
// intraday endpoint. Unlike Polygon there is no key rotation; a single
// token is paced by a rate limiter.
package tiingo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"sweepscan/internal/breaker"
	"sweepscan/internal/model"
)

const tiingoBaseURL = "https://api.tiingo.com"

const maxRetries = 3
const retryDelay = 5 * time.Second

// priceRow is one resampled IEX price row.
type priceRow struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Client fetches intraday bars from Tiingo.
type Client struct {
	client  *http.Client
	breaker *breaker.Breaker
	limiter *rate.Limiter
	apiKey  string

	BaseURL   string
	Timeframe model.Timeframe // Zero value means 1-minute bars.
	LogFunc   func(msg string)
}

// NewClient creates a Tiingo client for the given API token.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tiingo API key must not be empty")
	}
	return &Client{
		client:  &http.Client{Timeout: 2 * time.Minute},
		breaker: breaker.New("tiingo"),
		// Free tier allows 1000 requests/day; 1 req/s stays inside the burst limits.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		apiKey:  apiKey,
		BaseURL: tiingoBaseURL,
	}, nil
}

func (c *Client) GetName() string { return "Tiingo" }

func (c *Client) Close() error { return nil }

func (c *Client) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c.LogFunc != nil {
		c.LogFunc(msg)
	} else {
		slog.Info(msg)
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return tiingoBaseURL
}

// resampleFreq converts a timeframe to Tiingo notation (1min, 5min, 1hour).
func resampleFreq(tf model.Timeframe) string {
	switch tf.Timespan {
	case "hour":
		return fmt.Sprintf("%dhour", tf.Multiplier)
	case "day":
		return fmt.Sprintf("%dday", tf.Multiplier)
	default:
		return fmt.Sprintf("%dmin", tf.Multiplier)
	}
}

// FetchMinuteBars fetches resampled IEX bars for [from, to]. The IEX
// endpoint accepts the full range in one request, so there is no
// chunking here.
func (c *Client) FetchMinuteBars(ticker string, from, to time.Time) ([]model.Bar, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return nil, err
		}
	}

	tf := c.Timeframe.OrDefault()
	u, err := url.Parse(fmt.Sprintf("%s/iex/%s/prices", c.baseURL(), ticker))
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	q := u.Query()
	q.Set("startDate", from.UTC().Format("2006-01-02"))
	q.Set("endDate", to.UTC().Format("2006-01-02"))
	q.Set("resampleFreq", resampleFreq(tf))
	q.Set("columns", "open,high,low,close,volume")
	u.RawQuery = q.Encode()

	rows, err := c.fetchPrices(u.String())
	if err != nil {
		return nil, err
	}

	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(time.RFC3339, row.Date)
		if err != nil {
			return nil, fmt.Errorf("parse bar date %q: %w", row.Date, err)
		}
		bars = append(bars, model.Bar{
			Timestamp: ts.UnixMilli(),
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		})
	}
	c.logf("[%s] Tiingo returned %d bars", ticker, len(bars))
	return bars, nil
}

func (c *Client) fetchPrices(rawURL string) ([]priceRow, error) {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err := c.do(req)
		if err != nil {
			if attempt < maxRetries {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("API call failed after %d attempts: %w", maxRetries, err)
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
				time.Sleep(retryDelay * time.Duration(attempt))
				continue
			}
			return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
		}

		var rows []priceRow
		if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		resp.Body.Close()
		return rows, nil
	}
	return nil, fmt.Errorf("no response")
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	client := c.client
	if client == nil {
		client = http.DefaultClient
	}
	if c.breaker == nil {
		return client.Do(req)
	}
	v, err := c.breaker.Execute(func() (any, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}
