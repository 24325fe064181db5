package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sweepscan/internal/model"
)

// trendBars builds a simple rising-then-falling shape that produces one
// pivot high and one pivot low.
func trendBars() []model.Bar {
	opens := []float64{1.0, 2.0, 4.0, 3.0, 1.2, 2.0, 3.0}
	highs := []float64{2.0, 3.0, 4.5, 3.5, 2.0, 2.5, 3.5}
	lows := []float64{0.5, 1.5, 3.5, 2.0, 1.5, 1.8, 2.8}
	closes := []float64{1.5, 2.5, 4.0, 2.5, 1.8, 2.2, 3.2}
	bars := make([]model.Bar, len(opens))
	for i := range opens {
		bars[i] = model.Bar{
			Timestamp: int64(i) * 60_000,
			Open:      opens[i],
			High:      highs[i],
			Low:       lows[i],
			Close:     closes[i],
			Volume:    100,
		}
	}
	return bars
}

func staticFetch(bars []model.Bar) fetchFunc {
	return func(string, time.Time, time.Time) ([]model.Bar, error) {
		return bars, nil
	}
}

func TestProcessSymbolDetects(t *testing.T) {
	res, err := ProcessSymbol("TEST", staticFetch(trendBars()), Options{ATRPeriod: 2, RVolPeriod: 2})
	if err != nil {
		t.Fatalf("ProcessSymbol: %v", err)
	}
	if res.Symbol != "TEST" || res.Bars != 7 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Pivots) != 2 {
		t.Fatalf("pivots = %d, want 2", len(res.Pivots))
	}
	if res.Pivots[0].Index != 2 || res.Pivots[1].Index != 4 {
		t.Errorf("pivot indexes = %d, %d", res.Pivots[0].Index, res.Pivots[1].Index)
	}
	if len(res.Signals) != len(res.Gaps) {
		t.Errorf("signals = %d, gaps = %d", len(res.Signals), len(res.Gaps))
	}
}

func TestProcessSymbolPropagatesFetchError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(string, time.Time, time.Time) ([]model.Bar, error) { return nil, boom }
	if _, err := ProcessSymbol("TEST", fetch, Options{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestProcessSymbolEmptyInput(t *testing.T) {
	res, err := ProcessSymbol("TEST", staticFetch(nil), Options{})
	if err != nil {
		t.Fatalf("ProcessSymbol: %v", err)
	}
	if res.Bars != 0 || len(res.Pivots) != 0 || len(res.Signals) != 0 {
		t.Errorf("empty input result = %+v", res)
	}
}

func TestFilterSymbolsToScan(t *testing.T) {
	dir := t.TempDir()
	progressPath := filepath.Join(dir, ".lastscan.json")
	if err := os.WriteFile(progressPath, []byte(`{"AAPL":"2024-03-01","MSFT":"2024-01-15"}`), 0644); err != nil {
		t.Fatalf("write progress: %v", err)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	symbols := []string{"AAPL", "MSFT", "TSLA"}

	jobs := FilterSymbolsToScan(symbols, progressPath, from, to, false)
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2 (AAPL already scanned past end)", len(jobs))
	}
	if jobs[0].Symbol != "MSFT" || jobs[1].Symbol != "TSLA" {
		t.Errorf("jobs = %+v", jobs)
	}
	if !jobs[0].From.Equal(from) || !jobs[0].To.Equal(to) {
		t.Errorf("job range = %v..%v", jobs[0].From, jobs[0].To)
	}

	forced := FilterSymbolsToScan(symbols, progressPath, from, to, true)
	if len(forced) != 3 {
		t.Errorf("forced jobs = %d, want 3", len(forced))
	}
}

// seqProvider serves canned bars per symbol through the sequential path.
type seqProvider struct {
	bars map[string][]model.Bar
}

func (p *seqProvider) GetName() string { return "fake" }
func (p *seqProvider) Close() error    { return nil }
func (p *seqProvider) FetchMinuteBars(ticker string, from, to time.Time) ([]model.Bar, error) {
	bars, ok := p.bars[ticker]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return bars, nil
}

func TestRunSequential(t *testing.T) {
	dp := &seqProvider{bars: map[string][]model.Bar{"GOOD": trendBars(), "EMPTY": nil}}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	jobs := []Job{
		{Symbol: "GOOD", From: from, To: to},
		{Symbol: "EMPTY", From: from, To: to},
		{Symbol: "MISSING", From: from, To: to},
	}

	updates := make(chan ProgressUpdate, 8)
	shutdown := make(chan struct{})
	success, failed, successList, failedList, results := RunSequential(dp, jobs, Options{ATRPeriod: 2, RVolPeriod: 2}, updates, shutdown)

	if success != 1 || failed != 2 {
		t.Errorf("success = %d failed = %d, want 1/2", success, failed)
	}
	if len(successList) != 1 || successList[0] != "GOOD" {
		t.Errorf("successList = %v", successList)
	}
	if len(failedList) != 2 {
		t.Errorf("failedList = %+v", failedList)
	}
	if len(results) != 1 || results[0].Symbol != "GOOD" {
		t.Errorf("results = %+v", results)
	}
	select {
	case u := <-updates:
		if u.Symbol != "GOOD" || u.Date != "2024-01-02" {
			t.Errorf("update = %+v", u)
		}
	default:
		t.Error("no progress update sent")
	}
}

// keyedProvider implements per-request key rotation for the parallel path.
type keyedProvider struct {
	seqProvider
	keys []string
}

func (p *keyedProvider) Keys() []string { return p.keys }
func (p *keyedProvider) FetchMinuteBarsWithKey(ticker, apiKey string, from, to time.Time) ([]model.Bar, error) {
	return p.FetchMinuteBars(ticker, from, to)
}

func TestRunParallel(t *testing.T) {
	dp := &keyedProvider{
		seqProvider: seqProvider{bars: map[string][]model.Bar{
			"A": trendBars(), "B": trendBars(), "C": trendBars(),
		}},
		keys: []string{"key1", "key2"},
	}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	jobs := []Job{
		{Symbol: "A", From: from, To: to},
		{Symbol: "B", From: from, To: to},
		{Symbol: "C", From: from, To: to},
		{Symbol: "D", From: from, To: to},
	}

	updates := make(chan ProgressUpdate, 8)
	shutdown := make(chan struct{})
	success, failed, successList, failedList, results := RunParallel(dp, jobs, Options{ATRPeriod: 2, RVolPeriod: 2}, updates, shutdown)

	if success != 3 || failed != 1 {
		t.Errorf("success = %d failed = %d, want 3/1", success, failed)
	}
	if len(successList) != 3 {
		t.Errorf("successList = %v", successList)
	}
	if len(failedList) != 1 || failedList[0].Symbol != "D" {
		t.Errorf("failedList = %+v", failedList)
	}
	if len(results) != 3 {
		t.Errorf("results = %d, want 3", len(results))
	}
}

func TestRunOneScanWritesReport(t *testing.T) {
	dir := t.TempDir()
	dp := &seqProvider{bars: map[string][]model.Bar{"GOOD": trendBars()}}

	opts := Options{
		From:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		ATRPeriod: 2, RVolPeriod: 2,
	}
	updates := make(chan ProgressUpdate, 8)
	done := make(chan Done, 1)
	shutdown := make(chan struct{})

	RunOneScan(dp, []string{"GOOD"}, opts, dir, filepath.Join(dir, ".lastscan.json"), false, updates, done, shutdown)

	d := <-done
	if len(d.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(d.Results))
	}
	if _, err := os.Stat(filepath.Join(dir, ".lastrun.success.json")); err != nil {
		t.Errorf("success report missing: %v", err)
	}
}
