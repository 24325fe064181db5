package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"sweepscan/internal/model"
	"sweepscan/internal/patterns"
)

func testSignals() []model.SignalRow {
	return []model.SignalRow{
		{Symbol: "AAPL", Index: 10, Direction: "bullish", Low: 1.5, High: 2.5, SizeATR: 0.4, Clean: true, Score: 2},
		{Symbol: "MSFT", Index: 20, Direction: "bearish", Low: 3, High: 4, SizeATR: 0.9, Clean: false, Score: 4},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteSignalsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "AAPL_signals.csv")
	if err := WriteSignals(path, testSignals()); err != nil {
		t.Fatalf("WriteSignals: %v", err)
	}
	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "index" || rows[0][6] != "score" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "10" || rows[1][1] != "bullish" || rows[1][4] != "0.4" || rows[1][5] != "true" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestWriteSummarySortsByScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := WriteSummary(path, testSignals()); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	rows := readCSV(t, path)
	if rows[0][0] != "symbol" || rows[0][1] != "index" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "MSFT" || rows[2][0] != "AAPL" {
		t.Errorf("order = %s, %s, want MSFT first (score 4)", rows[1][0], rows[2][0])
	}
}

func TestWriteScreenerSortsByTicker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock_screener.csv")
	in := []model.ScreenerRow{
		{Ticker: "MSFT", Name: "Microsoft", Status: "OK"},
		{Ticker: "", Name: "Figma", Status: "NO_SEC_FILINGS", Notes: "No ticker provided; company may be private."},
		{Ticker: "BBWI", Name: "Bath & Body Works", Status: "OK"},
	}
	if err := WriteScreener(path, in); err != nil {
		t.Fatalf("WriteScreener: %v", err)
	}
	rows := readCSV(t, path)
	if rows[0][0] != "Ticker" || rows[0][13] != "Company Facts URL" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "" || rows[2][0] != "BBWI" || rows[3][0] != "MSFT" {
		t.Errorf("ticker order = %q, %q, %q", rows[1][0], rows[2][0], rows[3][0])
	}
}

func TestWriteSignalsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AAPL_signals.xlsx")
	if err := WriteSignals(path, testSignals()); err != nil {
		t.Fatalf("WriteSignals: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("signals")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "index" || rows[1][0] != "10" || rows[1][1] != "bullish" {
		t.Errorf("sheet rows = %v", rows[:2])
	}
	w, err := f.GetColWidth("signals", "B")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	// "direction" is 9 characters, longer than any value in the column.
	if w != 11 {
		t.Errorf("column B width = %v, want 11", w)
	}
}

func TestWriteStructure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AAPL_structure.json")
	in := Structure{
		Symbol: "AAPL",
		Pivots: []patterns.Pivot{{Index: 2, Price: 4.5, Kind: patterns.PivotHigh}},
		Sweeps: []int{5},
		Breaks: []patterns.Break{{Index: 6, Kind: patterns.PivotHigh}},
	}
	if err := WriteStructure(path, in); err != nil {
		t.Fatalf("WriteStructure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out Structure
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Symbol != "AAPL" || len(out.Pivots) != 1 || out.Pivots[0].Index != 2 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestSummaryJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := WriteSummaryJSON(path, testSignals()); err != nil {
		t.Fatalf("WriteSummaryJSON: %v", err)
	}
	rows, err := ReadSummaryJSON(path)
	if err != nil {
		t.Fatalf("ReadSummaryJSON: %v", err)
	}
	if len(rows) != 2 || rows[0].Symbol != "MSFT" || rows[1].Symbol != "AAPL" {
		t.Errorf("rows = %+v, want MSFT first by score", rows)
	}

	if _, err := ReadSummaryJSON(filepath.Join(t.TempDir(), "missing.json")); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v, want IsNotExist", err)
	}
}

func TestCellString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{true, "true"},
		{42, "42"},
		{0.4, "0.4"},
		{1.0, "1"},
	}
	for _, c := range cases {
		if got := cellString(c.in); got != c.want {
			t.Errorf("cellString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
