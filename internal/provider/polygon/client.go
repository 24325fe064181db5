package polygon

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"sweepscan/internal/breaker"
	"sweepscan/internal/model"
	"sweepscan/internal/saver"
)

const polygonBaseURL = "https://api.polygon.io"

const (
	// Max 50k results per request
	maxLimit = 50000

	// Max days per 1-minute aggregates request (~50k bars / ~960 min/day ≈ 52 days; use 50 for safety)
	maxDaysPerRequest = 50

	// KeyCooldownSec: Polygon 5 req/min => 12s between requests per key
	KeyCooldownSec = 12

	// Minutes per trading day (max, extended hours)
	minPerDay = 960
)

// estimatedBars returns pre-alloc capacity for [from, to]. days * 960 + 10% buffer. No grow.
func estimatedBars(from, to time.Time) int {
	if !from.Before(to) && !from.Equal(to) {
		return 0
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	n := days * minPerDay
	// +10% buffer so we never realloc
	n = n + n/10
	if n > 500000 {
		n = 500000 // 504 days * 960 min/day
	}
	return n
}

// LogFunc emits a log line. When set, used instead of slog (fan-in logger).
type LogFunc func(msg string)

// Client fetches bar aggregates from the Polygon API and optionally
// persists raw packets to disk.
type Client struct {
	client   *http.Client
	keys     *KeyPool
	breaker  *breaker.Breaker
	cooldown time.Duration

	BaseURL       string
	Timeframe     model.Timeframe   // Zero value means 1-minute bars.
	SavePacketDir string
	PacketSaver   saver.PacketSaver // When non-nil, used to persist raw packets.
	SavePerDay    bool              // When true, saves one file per day {ticker}_{date}.ext; otherwise a single range file.
	LogFunc       LogFunc           // Optional fan-in logger for fetch progress and diagnostics.
}

func (c *Client) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c.LogFunc != nil {
		c.LogFunc(msg)
	} else {
		slog.Info(msg)
	}
}

// Close closes connections
func (c *Client) Close() error {
	if c.keys != nil {
		return c.keys.Close()
	}
	return nil
}

// Keys returns the configured API keys for callers that schedule keys
// themselves.
func (c *Client) Keys() []string {
	if c.keys == nil {
		return nil
	}
	return c.keys.Keys()
}

// KeyStats returns per-key usage counters.
func (c *Client) KeyStats() map[string]any {
	if c.keys == nil {
		return nil
	}
	return c.keys.Stats()
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return polygonBaseURL
}

// saveBarsPacket writes bars to SavePacketDir using PacketSaver if configured.
func (c *Client) saveBarsPacket(ticker string, from, to time.Time, bars []model.Bar) {
	if c.SavePacketDir == "" || c.PacketSaver == nil || len(bars) == 0 {
		return
	}
	tickerDir := filepath.Join(c.SavePacketDir, ticker)
	if err := os.MkdirAll(tickerDir, 0755); err != nil {
		c.logf("[%s] Save: cannot create folder %s: %v", ticker, tickerDir, err)
		return
	}
	ext := c.PacketSaver.Extension()
	var packetName string
	if c.SavePerDay {
		packetName = fmt.Sprintf("%s_%s.%s", ticker, from.Format("2006-01-02"), ext)
	} else {
		packetName = fmt.Sprintf("%s_%s_to_%s.%s", ticker, from.Format("2006-01-02"), to.Format("2006-01-02"), ext)
	}
	packetPath := filepath.Join(tickerDir, packetName)
	if err := c.PacketSaver.SaveBars(bars, packetPath); err != nil {
		c.logf("[%s] Save: failed to write %s: %v", ticker, packetPath, err)
	} else {
		c.logf("[%s] Saved 1 file (%s): %s (%d bars)", ticker, ext, packetPath, len(bars))
	}
}

// splitDateRangeIntoChunks splits [from, to] into day chunks so each request stays under ~maxLimit bars
func splitDateRangeIntoChunks(from, to time.Time, maxDays int) [][2]time.Time {
	var chunks [][2]time.Time
	start := from.UTC()
	end := to.UTC()

	if !start.Before(end) && !start.Equal(end) {
		return chunks
	}

	for currentStart := start; !currentStart.After(end); {
		currentEnd := currentStart.AddDate(0, 0, maxDays-1)
		if currentEnd.After(end) {
			currentEnd = end
		}

		chunks = append(chunks, [2]time.Time{currentStart, currentEnd})

		if currentEnd.Equal(end) {
			break
		}

		currentStart = currentEnd.AddDate(0, 0, 1)
	}

	return chunks
}

// adjustLastChunkToAvoidDelayed returns chunkTo unchanged, or end of previous day if chunkTo is today/future (avoids DELAYED).
func adjustLastChunkToAvoidDelayed(chunkTo time.Time, isLastChunk bool) time.Time {
	if !isLastChunk {
		return chunkTo
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	chunkToDate := time.Date(chunkTo.Year(), chunkTo.Month(), chunkTo.Day(), 0, 0, 0, 0, time.UTC)
	if chunkToDate.Equal(today) || chunkToDate.After(today) {
		return today.AddDate(0, 0, -1).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return chunkTo
}

const maxRetries = 3
const retryDelay = 15 * time.Second

// buildAggregatesURL builds the aggregates URL for one chunk (adjusted, limit, sort, apiKey).
func (c *Client) buildAggregatesURL(ticker string, fromMillis, toMillis int64, apiKey string) (string, error) {
	tf := c.Timeframe.OrDefault()
	rawURL := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/%d/%s/%d/%d",
		c.baseURL(), ticker, tf.Multiplier, tf.Timespan, fromMillis, toMillis)
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	q := u.Query()
	q.Set("adjusted", "true")
	q.Set("limit", strconv.Itoa(maxLimit))
	q.Set("sort", "asc")
	q.Set("apiKey", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// withAPIKey returns the pagination URL with the apiKey query parameter set.
// next_url from the API does not carry the key.
func withAPIKey(rawURL, apiKey string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse next_url: %w", err)
	}
	q := u.Query()
	q.Set("apiKey", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func newAggregatesRequest(rawURL string) (*http.Request, error) {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Connection", "close")
	return req, nil
}

// do runs one round trip through the circuit breaker. A 5xx status counts
// as a breaker failure and surfaces as an error so the retry loop sees it.
func (c *Client) do(client *http.Client, req *http.Request) (*http.Response, error) {
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

// doAggregatesRequest runs one GET request with retries. On 429 calls on429 before retry.
// Returns (nil, nil) when status is DELAYED (caller should skip chunk); (nil, err) on error; (resp, nil) on success.
func (c *Client) doAggregatesRequest(client *http.Client, req *http.Request, on429 func()) (*AggregatesResponse, error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err := c.do(client, req)
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
			if resp.StatusCode == http.StatusTooManyRequests {
				if attempt < maxRetries {
					time.Sleep(retryDelay)
					if on429 != nil {
						on429()
					}
					continue
				}
				return nil, fmt.Errorf("API rate limit (429) after %d attempts: %s", maxRetries, string(body))
			}
			return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
		}

		var result AggregatesResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			resp.Body.Close()
			if attempt < maxRetries {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		resp.Body.Close()

		if result.Status != "OK" {
			if result.Status == "DELAYED" {
				return nil, nil // caller skips chunk
			}
			return nil, fmt.Errorf("API status not OK: %s", result.Status)
		}
		return &result, nil
	}
	return nil, fmt.Errorf("no response")
}

// keyCooldown sleeps the per-key interval so one key never exceeds 5 req/min.
func (c *Client) keyCooldown(ticker, stage, prefix string) {
	if c.cooldown <= 0 {
		return
	}
	c.logf("[RATE] [%s] %s: cooldown %ds (key=%s) start", ticker, stage, int(c.cooldown.Seconds()), prefix)
	start := time.Now()
	time.Sleep(c.cooldown)
	c.logf("[RATE] [%s] %s: cooldown done (waited %.2fs)", ticker, stage, time.Since(start).Seconds())
}

// FetchMinuteBarsWithKey fetches bar aggregates for the given ticker and time range
// using the provided API key. Callers are responsible for API-key rotation; the
// client still paces requests on the key with the per-key cooldown.
func (c *Client) FetchMinuteBarsWithKey(ticker, apiKey string, from, to time.Time) ([]model.Bar, error) {
	client := c.client
	if client == nil {
		client = http.DefaultClient
	}

	allBars := make([]model.Bar, 0, estimatedBars(from, to))
	chunks := splitDateRangeIntoChunks(from, to, maxDaysPerRequest)
	if len(chunks) == 0 {
		c.logf("[%s] No chunks in date range %s to %s", ticker, from, to)
		return allBars, nil
	}

	prefix := keyPrefix(apiKey)
	c.logf("[%s] Split into %d chunks (key=%s)", ticker, len(chunks), prefix)

	for chunkIndex, ch := range chunks {
		if chunkIndex > 0 {
			c.keyCooldown(ticker, fmt.Sprintf("chunk %d/%d", chunkIndex+1, len(chunks)), prefix)
		}

		chunkFrom := ch[0]
		chunkTo := adjustLastChunkToAvoidDelayed(ch[1], chunkIndex == len(chunks)-1)

		pageURL, err := c.buildAggregatesURL(ticker, chunkFrom.UnixMilli(), chunkTo.UnixMilli(), apiKey)
		if err != nil {
			return nil, err
		}
		for page := 1; pageURL != ""; page++ {
			if page > 1 {
				c.keyCooldown(ticker, fmt.Sprintf("page %d", page), prefix)
			}
			req, err := newAggregatesRequest(pageURL)
			if err != nil {
				return nil, err
			}
			response, err := c.doAggregatesRequest(client, req, nil)
			if err != nil {
				return nil, err
			}
			if response == nil {
				c.logf("[%s] chunk %d/%d DELAYED, skipping", ticker, chunkIndex+1, len(chunks))
				break
			}

			for _, barRaw := range response.Results {
				allBars = append(allBars, barRaw.ToBar())
			}

			if response.NextURL == "" {
				break
			}
			pageURL, err = withAPIKey(response.NextURL, apiKey)
			if err != nil {
				return nil, err
			}
		}

		// Cooldown after last chunk before handing the key back (key ready for next request)
		if chunkIndex == len(chunks)-1 {
			c.keyCooldown(ticker, "last chunk done", prefix)
		}
	}
	c.saveBarsPacket(ticker, from, to, allBars)
	return allBars, nil
}

// FetchMinuteBars fetches bars using the next key from the pool. Callers
// that rotate keys themselves should use FetchMinuteBarsWithKey.
func (c *Client) FetchMinuteBars(ticker string, from, to time.Time) ([]model.Bar, error) {
	if c.keys == nil {
		return nil, fmt.Errorf("no API keys configured")
	}
	info, err := c.keys.GetAvailableKey()
	if err != nil {
		return nil, err
	}
	return c.FetchMinuteBarsWithKey(ticker, info.Key, from, to)
}
