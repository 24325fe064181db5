package sec

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"sweepscan/internal/model"
)

// Company is one entry for the quarterly screener. Ticker stays empty for
// private companies.
type Company struct {
	Name   string `yaml:"name" json:"name"`
	Ticker string `yaml:"ticker" json:"ticker"`
}

// Screener collects the latest 10-Q for a list of companies and downloads
// the primary documents.
type Screener struct {
	Client   *Client
	CacheDir string
	// FilingsDir is the download root, one subdirectory per ticker.
	// Empty means "sec_filings".
	FilingsDir string
}

func (s *Screener) filingsDir() string {
	if s.FilingsDir != "" {
		return s.FilingsDir
	}
	return "sec_filings"
}

// Run screens every company and returns one row each, in input order. Rows
// never fail the whole run; problems land in Status and Notes.
func (s *Screener) Run(companies []Company) []model.ScreenerRow {
	mapping, mapErr := s.Client.LoadTickerMap(s.CacheDir)
	if mapErr != nil {
		slog.Error("ticker mapping unavailable", "error", mapErr)
	}
	rows := make([]model.ScreenerRow, 0, len(companies))
	for _, co := range companies {
		label := co.Ticker
		if label == "" {
			label = co.Name
		}
		slog.Info("screening company", "company", label)
		row := s.screenOne(co, mapping, mapErr)
		slog.Info("screened company", "company", label, "status", row.Status)
		rows = append(rows, row)
	}
	return rows
}

func (s *Screener) screenOne(co Company, mapping TickerMap, mapErr error) model.ScreenerRow {
	row := model.ScreenerRow{Ticker: co.Ticker, Name: co.Name}
	var notes []string
	switch {
	case mapErr != nil:
		row.Status = model.ScreenerError
		notes = append(notes, fmt.Sprintf("Ticker mapping unavailable: %v", mapErr))
	case co.Ticker == "":
		row.Status = model.ScreenerNoFilings
		notes = append(notes, "No ticker provided; company may be private.")
	default:
		row.Status, notes = s.screenTicker(&row, co.Ticker, mapping, notes)
	}
	row.Notes = strings.Join(notes, "; ")
	return row
}

func (s *Screener) screenTicker(row *model.ScreenerRow, ticker string, mapping TickerMap, notes []string) (string, []string) {
	cik, ok := mapping.CIK(ticker)
	if !ok {
		return model.ScreenerNoFilings, append(notes, "Ticker not found in SEC mapping.")
	}
	row.CIK = cik

	filing, err := s.Client.LatestTenQ(cik)
	if err != nil {
		return model.ScreenerError, append(notes, err.Error())
	}
	if filing == nil {
		return model.ScreenerNoFilings, append(notes, "No 10-Q filings found.")
	}

	quarter, qNote, err := Quarter(filing.ReportDate)
	if err != nil {
		return model.ScreenerError, append(notes, err.Error())
	}
	if qNote != "" {
		notes = append(notes, qNote)
	}

	url := s.Client.FilingURL(cik, filing)
	outPath := filepath.Join(s.filingsDir(), ticker, DocumentFilename(ticker, filing.ReportDate, quarter, filing))
	if err := s.Client.Download(url, outPath); err != nil {
		return model.ScreenerError, append(notes, err.Error())
	}

	row.FilingDate = filing.FilingDate
	row.ReportDate = filing.ReportDate
	row.Quarter = quarter
	row.AccessionNumber = filing.AccessionNumber
	row.PrimaryDocument = filing.PrimaryDocument
	row.FilingURL = url
	row.SavedPath = outPath
	row.Amended = filing.Amended
	row.FactsURL = s.Client.FactsURL(cik)
	return model.ScreenerOK, notes
}
