// Package report writes scan and screener results as spreadsheet tables.
//
// Every writer picks the output format from the file extension: .xlsx gets a
// single-sheet workbook with auto-sized columns, anything else is plain CSV.
// Parent directories are created as needed.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"sweepscan/internal/model"
)

var signalHeader = []string{"index", "direction", "low", "high", "size_atr", "clean", "score"}

var screenerHeader = []string{
	"Ticker", "Name", "CIK", "Latest 10Q Filing Date", "Report Date", "Quarter",
	"Accession Number", "Primary Document", "10Q URL", "Saved File Path",
	"Amended", "Status", "Notes", "Company Facts URL",
}

// WriteSignals writes the per-symbol signal table to path.
func WriteSignals(path string, rows []model.SignalRow) error {
	return writeTable(path, "signals", signalHeader, signalCells(rows, false))
}

// WriteSummary writes the cross-symbol signal table, highest score first.
func WriteSummary(path string, rows []model.SignalRow) error {
	sorted := make([]model.SignalRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	header := append([]string{"symbol"}, signalHeader...)
	return writeTable(path, "summary", header, signalCells(sorted, true))
}

// WriteScreener writes the quarterly filings table sorted by ticker.
func WriteScreener(path string, rows []model.ScreenerRow) error {
	sorted := make([]model.ScreenerRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Ticker < sorted[j].Ticker })

	cells := make([][]any, len(sorted))
	for i, r := range sorted {
		cells[i] = []any{
			r.Ticker, r.Name, r.CIK, r.FilingDate, r.ReportDate, r.Quarter,
			r.AccessionNumber, r.PrimaryDocument, r.FilingURL, r.SavedPath,
			r.Amended, r.Status, r.Notes, r.FactsURL,
		}
	}
	return writeTable(path, "Watchlist", screenerHeader, cells)
}

func signalCells(rows []model.SignalRow, withSymbol bool) [][]any {
	cells := make([][]any, len(rows))
	for i, r := range rows {
		row := []any{r.Index, r.Direction, r.Low, r.High, r.SizeATR, r.Clean, r.Score}
		if withSymbol {
			row = append([]any{r.Symbol}, row...)
		}
		cells[i] = row
	}
	return cells
}

func writeTable(path, sheet string, header []string, rows [][]any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeXLSX(path, sheet, header, rows)
	}
	return writeCSV(path, header, rows)
}

// cellString renders one cell the way the CSV writer and the column sizer
// need it. Floats keep the shortest exact representation.
func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
