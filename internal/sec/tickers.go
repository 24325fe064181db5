package sec

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const tickerMapFile = "company_tickers.json"

type companyTicker struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// TickerMap resolves an uppercase ticker to its ten-digit CIK.
type TickerMap map[string]string

// CIK returns the zero-padded CIK for ticker, case-insensitive.
func (m TickerMap) CIK(ticker string) (string, bool) {
	cik, ok := m[strings.ToUpper(ticker)]
	return cik, ok
}

// LoadTickerMap reads the EDGAR company_tickers.json mapping, using a copy
// under cacheDir when one exists and caching the download otherwise. The
// file rarely changes; delete the cache to force a refresh.
func (c *Client) LoadTickerMap(cacheDir string) (TickerMap, error) {
	cachePath := filepath.Join(cacheDir, tickerMapFile)
	data, err := os.ReadFile(cachePath)
	if err != nil {
		data, err = c.get(c.baseURL() + "/files/" + tickerMapFile)
		if err != nil {
			return nil, fmt.Errorf("fetch ticker map: %w", err)
		}
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			slog.Warn("could not create ticker map cache dir", "dir", cacheDir, "error", err)
		} else if err := os.WriteFile(cachePath, data, 0644); err != nil {
			slog.Warn("could not cache ticker map", "path", cachePath, "error", err)
		}
	}

	// Top-level object keyed by row number, one company per entry.
	var raw map[string]companyTicker
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ticker map: %w", err)
	}
	m := make(TickerMap, len(raw))
	for _, t := range raw {
		if t.Ticker == "" {
			continue
		}
		m[strings.ToUpper(t.Ticker)] = fmt.Sprintf("%010d", t.CIK)
	}
	return m, nil
}
