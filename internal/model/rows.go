package model

// SignalRow is one scored gap flattened for tabular export.
// Symbol is empty in per-symbol reports and set in the cross-symbol summary.
type SignalRow struct {
	Symbol    string  `json:"symbol,omitempty"`
	Index     int     `json:"index"`
	Direction string  `json:"direction"`
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	SizeATR   float64 `json:"size_atr"`
	Clean     bool    `json:"clean"`
	Score     int     `json:"score"`
}

// ScreenerRow is one watchlist company in the quarterly filings report.
type ScreenerRow struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	CIK             string `json:"cik"`
	FilingDate      string `json:"filing_date"`
	ReportDate      string `json:"report_date"`
	Quarter         string `json:"quarter"`
	AccessionNumber string `json:"accession_number"`
	PrimaryDocument string `json:"primary_document"`
	FilingURL       string `json:"filing_url"`
	SavedPath       string `json:"saved_path"`
	Amended         bool   `json:"amended"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	FactsURL        string `json:"facts_url"`
}

// Screener row statuses.
const (
	ScreenerOK        = "OK"
	ScreenerNoFilings = "NO_SEC_FILINGS"
	ScreenerError     = "ERROR"
)
