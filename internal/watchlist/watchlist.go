// Package watchlist keeps the fair-value watchlist shown on the dashboard.
// Entries hold what the user typed in; rows add the derived valuation
// fields served by the API and the CSV export.
package watchlist

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// Valuation statuses derived from the upside percentage.
const (
	StatusIncomplete  = "INCOMPLETE"
	StatusUndervalued = "UNDERVALUED"
	StatusOvervalued  = "OVERVALUED"
	StatusFair        = "FAIR"
)

// Entry is one stored watchlist line. Dates are calendar days in
// YYYY-MM-DD form; zero prices mean "not filled in yet".
type Entry struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	FairValue    float64 `json:"fair_value"`
	FairAsOf     string  `json:"fair_asof"`
	PriceClose   float64 `json:"price_close"`
	PriceAsOf    string  `json:"price_asof"`
	EarningsNext string  `json:"earnings_next"`
	Notes        string  `json:"notes"`
}

// Row is an Entry plus the derived fields. UpsidePct is nil while either
// price is missing.
type Row struct {
	Entry
	UpsidePct    *float64 `json:"upside_pct"`
	Status       string   `json:"status"`
	EarningsSoon bool     `json:"earnings_soon"`
}

// Compute derives the valuation fields for one entry. Upside is
// (fair − price) / price × 100; at least +20 reads undervalued, at most
// −10 overvalued. EarningsSoon flags an earnings date within the next
// three weeks of today.
func Compute(e Entry, today time.Time) Row {
	row := Row{Entry: e}
	if e.FairValue == 0 || e.PriceClose == 0 {
		row.Status = StatusIncomplete
	} else {
		upside := (e.FairValue - e.PriceClose) / e.PriceClose * 100
		row.UpsidePct = &upside
		switch {
		case upside >= 20:
			row.Status = StatusUndervalued
		case upside <= -10:
			row.Status = StatusOvervalued
		default:
			row.Status = StatusFair
		}
	}
	if days, ok := daysUntil(today, e.EarningsNext); ok {
		row.EarningsSoon = days >= 0 && days <= 21
	}
	return row
}

// daysUntil counts whole calendar days from today to dateStr.
func daysUntil(today time.Time, dateStr string) (int, bool) {
	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return 0, false
	}
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24), true
}

// CSVHeader is the column order of the dashboard export.
var CSVHeader = []string{
	"Symbol", "Name", "Fair Value", "Fair As-Of", "Price Close", "Price As-Of",
	"Upcoming Earnings", "Upside %", "Status", "Notes",
}

// CSVRecord flattens one row for the export. A missing upside stays empty.
func CSVRecord(r Row) []string {
	upside := ""
	if r.UpsidePct != nil {
		upside = strconv.FormatFloat(*r.UpsidePct, 'f', 2, 64)
	}
	return []string{
		r.Symbol, r.Name,
		strconv.FormatFloat(r.FairValue, 'f', 2, 64), r.FairAsOf,
		strconv.FormatFloat(r.PriceClose, 'f', 2, 64), r.PriceAsOf,
		r.EarningsNext, upside, r.Status, r.Notes,
	}
}
