package polygon

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
)

// MarketSnapshotResponse is the Full Market Snapshot API response
type MarketSnapshotResponse struct {
	Status    string                 `json:"status"`
	RequestID string                 `json:"request_id,omitempty"`
	Results   []MarketSnapshotTicker `json:"results"`
}

// MarketSnapshotTicker holds one ticker from the market snapshot
type MarketSnapshotTicker struct {
	Ticker          string `json:"T"`
	Name            string `json:"name,omitempty"`
	Market          string `json:"market,omitempty"`
	Locale          string `json:"locale,omitempty"`
	PrimaryExchange string `json:"primary_exchange,omitempty"`
	Type            string `json:"type,omitempty"`
	Active          bool   `json:"active,omitempty"`
	Currency        string `json:"currency_name,omitempty"`

	Day struct {
		Open   float64 `json:"o"`
		High   float64 `json:"h"`
		Low    float64 `json:"l"`
		Close  float64 `json:"c"`
		Volume int64   `json:"v"`
		VWAP   float64 `json:"vw"`
	} `json:"day"`

	PrevDay struct {
		Open   float64 `json:"o"`
		High   float64 `json:"h"`
		Low    float64 `json:"l"`
		Close  float64 `json:"c"`
		Volume int64   `json:"v"`
		VWAP   float64 `json:"vw"`
	} `json:"prevDay"`

	MarketCap float64 `json:"market_cap,omitempty"`
}

// SortBy selects the ranking criterion for GetTopStocks
type SortBy int

const (
	SortByVolume SortBy = iota
	SortByMarketCap
	SortByVWAP
)

// GetTopStocks fetches the full market snapshot and returns the top N
// active stock tickers ranked by the given criterion.
func (c *Client) GetTopStocks(count int, sortBy SortBy) ([]string, error) {
	if c.keys == nil {
		return nil, fmt.Errorf("no API keys configured")
	}
	info, err := c.keys.GetAvailableKey()
	if err != nil {
		return nil, err
	}

	requestURL := fmt.Sprintf("%s/v2/snapshot/locale/us/markets/stocks/tickers?apiKey=%s",
		c.baseURL(), info.Key)

	c.logf("Fetching full market snapshot...")

	req, err := newAggregatesRequest(requestURL)
	if err != nil {
		return nil, err
	}
	client := c.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := c.do(client, req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
	}

	var result MarketSnapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if result.Status != "OK" {
		return nil, fmt.Errorf("API status not OK: %s", result.Status)
	}

	c.logf("Snapshot returned %d tickers", len(result.Results))

	var active []MarketSnapshotTicker
	for _, t := range result.Results {
		if t.Active && t.Market == "stocks" {
			active = append(active, t)
		}
	}

	switch sortBy {
	case SortByMarketCap:
		sort.Slice(active, func(i, j int) bool {
			// Without market cap, volume * close is the proxy
			capI := active[i].MarketCap
			if capI == 0 {
				capI = float64(active[i].Day.Volume) * active[i].Day.Close
			}
			capJ := active[j].MarketCap
			if capJ == 0 {
				capJ = float64(active[j].Day.Volume) * active[j].Day.Close
			}
			return capI > capJ
		})
	case SortByVWAP:
		sort.Slice(active, func(i, j int) bool {
			return active[i].Day.VWAP > active[j].Day.VWAP
		})
	default: // SortByVolume
		sort.Slice(active, func(i, j int) bool {
			return active[i].Day.Volume > active[j].Day.Volume
		})
	}

	if len(active) > count {
		active = active[:count]
	}
	tickers := make([]string, len(active))
	for i, t := range active {
		tickers[i] = t.Ticker
	}
	c.logf("Top %d stocks selected", len(tickers))
	return tickers, nil
}

// GetTopStocksByVolume returns the top N stocks by day volume.
func (c *Client) GetTopStocksByVolume(count int) ([]string, error) {
	return c.GetTopStocks(count, SortByVolume)
}

// GetReferenceTickers lists active US stock tickers from the reference
// endpoint, following next_url pages until targetCount is reached.
func (c *Client) GetReferenceTickers(targetCount int) ([]string, error) {
	if c.keys == nil {
		return nil, fmt.Errorf("no API keys configured")
	}
	client := c.client
	if client == nil {
		client = http.DefaultClient
	}

	var allTickers []string
	seen := make(map[string]bool)

	nextURL := fmt.Sprintf("%s/v3/reference/tickers?market=stocks&active=true&limit=1000&order=asc",
		c.baseURL())

	for len(allTickers) < targetCount && nextURL != "" {
		info, err := c.keys.GetAvailableKey()
		if err != nil {
			return nil, err
		}
		pageURL, err := withAPIKey(nextURL, info.Key)
		if err != nil {
			return nil, err
		}

		req, err := newAggregatesRequest(pageURL)
		if err != nil {
			return nil, err
		}
		resp, err := c.do(client, req)
		if err != nil {
			return nil, fmt.Errorf("reference tickers request: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
		}

		var result TickersResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		resp.Body.Close()

		if result.Status != "OK" {
			return nil, fmt.Errorf("API status not OK: %s", result.Status)
		}

		batch := 0
		for _, t := range result.Results {
			if t.Market == "stocks" && t.Active && !seen[t.Ticker] {
				allTickers = append(allTickers, t.Ticker)
				seen[t.Ticker] = true
				batch++
				if len(allTickers) >= targetCount {
					break
				}
			}
		}
		c.logf("Reference page: %d tickers (total %d)", batch, len(allTickers))

		if result.NextURL != "" && len(allTickers) < targetCount {
			nextURL = result.NextURL
		} else {
			nextURL = ""
		}
	}

	if len(allTickers) > targetCount {
		allTickers = allTickers[:targetCount]
	}
	return allTickers, nil
}
