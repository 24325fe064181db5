package tiingo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"sweepscan/internal/model"
)

func TestResampleFreq(t *testing.T) {
	cases := []struct {
		tf   model.Timeframe
		want string
	}{
		{model.Timeframe{Multiplier: 1, Timespan: "minute"}, "1min"},
		{model.Timeframe{Multiplier: 5, Timespan: "minute"}, "5min"},
		{model.Timeframe{Multiplier: 1, Timespan: "hour"}, "1hour"},
		{model.Timeframe{Multiplier: 1, Timespan: "day"}, "1day"},
	}
	for _, c := range cases {
		if got := resampleFreq(c.tf); got != c.want {
			t.Errorf("resampleFreq(%v) = %s, want %s", c.tf, got, c.want)
		}
	}
}

func TestFetchMinuteBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token k" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("resampleFreq"); got != "1min" {
			t.Errorf("resampleFreq = %q", got)
		}
		if got := r.URL.Query().Get("startDate"); got != "2024-01-02" {
			t.Errorf("startDate = %q", got)
		}
		fmt.Fprint(w, `[
			{"date":"2024-01-02T14:30:00.000Z","open":10,"high":11,"low":9.5,"close":10.5,"volume":1000},
			{"date":"2024-01-02T14:31:00.000Z","open":10.5,"high":10.8,"low":10.2,"close":10.6,"volume":800}
		]`)
	}))
	defer srv.Close()

	c := &Client{
		client:  srv.Client(),
		limiter: rate.NewLimiter(rate.Inf, 0),
		apiKey:  "k",
		BaseURL: srv.URL,
	}
	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	bars, err := c.FetchMinuteBars("AAPL", from, to)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	wantTS := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC).UnixMilli()
	if bars[0].Timestamp != wantTS {
		t.Errorf("timestamp = %d, want %d", bars[0].Timestamp, wantTS)
	}
	if bars[0].Close != 10.5 || bars[1].Volume != 800 {
		t.Errorf("bars = %+v", bars)
	}
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &Client{
		client:  srv.Client(),
		limiter: rate.NewLimiter(rate.Inf, 0),
		apiKey:  "k",
		BaseURL: srv.URL,
	}
	_, err := c.FetchMinuteBars("AAPL", time.Now().AddDate(0, 0, -1), time.Now())
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("NewClient(\"\") should fail")
	}
}
