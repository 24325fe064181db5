package sec

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sweepscan/internal/model"
)

func screenerServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."}}`)
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, submissionsJSON(
			[]string{"8-K", "10-Q"},
			[]string{"2024-05-06", "2024-05-03"},
			[]string{"", "2024-03-30"},
			[]string{"acc-8k", "0000320193-24-000069"},
			[]string{"8k.htm", "aapl-20240330.htm"},
		))
	})
	mux.HandleFunc("/Archives/edgar/data/320193/000032019324000069/aapl-20240330.htm", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>10-Q</html>")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScreenerRun(t *testing.T) {
	srv := screenerServer(t)
	dir := t.TempDir()
	s := &Screener{
		Client:     testClient(srv),
		CacheDir:   filepath.Join(dir, ".cache"),
		FilingsDir: filepath.Join(dir, "sec_filings"),
	}

	rows := s.Run([]Company{
		{Name: "Apple", Ticker: "AAPL"},
		{Name: "Figma"},
		{Name: "Unknown Co", Ticker: "ZZZZ"},
	})
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	apple := rows[0]
	if apple.Status != model.ScreenerOK {
		t.Fatalf("apple status = %q, notes = %q", apple.Status, apple.Notes)
	}
	if apple.CIK != "0000320193" || apple.Quarter != "Q1" || apple.ReportDate != "2024-03-30" {
		t.Errorf("apple row = %+v", apple)
	}
	if !strings.HasSuffix(apple.SavedPath, filepath.Join("AAPL", "AAPL_2024-03-30_Q1_10-Q.htm")) {
		t.Errorf("saved path = %q", apple.SavedPath)
	}
	data, err := os.ReadFile(apple.SavedPath)
	if err != nil {
		t.Fatalf("read downloaded filing: %v", err)
	}
	if string(data) != "<html>10-Q</html>" {
		t.Errorf("document = %q", data)
	}
	if !strings.Contains(apple.FactsURL, "/api/xbrl/companyfacts/CIK0000320193.json") {
		t.Errorf("facts url = %q", apple.FactsURL)
	}

	figma := rows[1]
	if figma.Status != model.ScreenerNoFilings || !strings.Contains(figma.Notes, "private") {
		t.Errorf("figma row = %+v", figma)
	}

	unknown := rows[2]
	if unknown.Status != model.ScreenerNoFilings || !strings.Contains(unknown.Notes, "not found") {
		t.Errorf("unknown row = %+v", unknown)
	}
}

func TestScreenerMappingUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	s := &Screener{Client: testClient(srv), CacheDir: t.TempDir()}
	rows := s.Run([]Company{{Name: "Apple", Ticker: "AAPL"}})
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Status != model.ScreenerError || !strings.Contains(rows[0].Notes, "Ticker mapping unavailable") {
		t.Errorf("row = %+v", rows[0])
	}
}
