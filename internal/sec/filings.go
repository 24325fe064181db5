package sec

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Filing is the metadata of one EDGAR filing.
type Filing struct {
	FilingDate      string
	ReportDate      string
	AccessionNumber string
	PrimaryDocument string
	Amended         bool
}

type submissionsResponse struct {
	Filings struct {
		Recent struct {
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			AccessionNumber []string `json:"accessionNumber"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

func at(vals []string, i int) string {
	if i < 0 || i >= len(vals) {
		return ""
	}
	return vals[i]
}

// LatestTenQ returns the 10-Q picked from the company's recent filings,
// walking the form list back to front and preferring an original 10-Q over
// a 10-Q/A amendment. Returns nil when the company has no 10-Q at all.
func (c *Client) LatestTenQ(cik string) (*Filing, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBaseURL(), cik)
	var sub submissionsResponse
	if err := c.getJSON(url, &sub); err != nil {
		return nil, fmt.Errorf("fetch submissions for CIK %s: %w", cik, err)
	}
	recent := sub.Filings.Recent
	if len(recent.Form) == 0 {
		return nil, nil
	}
	for _, want := range []struct {
		form    string
		amended bool
	}{{"10-Q", false}, {"10-Q/A", true}} {
		for i := len(recent.Form) - 1; i >= 0; i-- {
			if recent.Form[i] != want.form {
				continue
			}
			f := &Filing{
				FilingDate:      at(recent.FilingDate, i),
				ReportDate:      at(recent.ReportDate, i),
				AccessionNumber: at(recent.AccessionNumber, i),
				PrimaryDocument: at(recent.PrimaryDocument, i),
				Amended:         want.amended,
			}
			if f.ReportDate == "" {
				f.ReportDate = f.FilingDate
			}
			return f, nil
		}
	}
	return nil, nil
}

// Quarter maps a report date to the fiscal quarter of a 10-Q. Months 10-12
// have no 10-Q (that period is the 10-K), so Q3 comes back with a note.
func Quarter(reportDate string) (quarter string, note string, err error) {
	t, err := time.Parse("2006-01-02", reportDate)
	if err != nil {
		return "", "", fmt.Errorf("parse report date %q: %w", reportDate, err)
	}
	switch {
	case t.Month() <= 3:
		quarter = "Q1"
	case t.Month() <= 6:
		quarter = "Q2"
	default:
		quarter = "Q3"
	}
	if t.Month() >= 10 {
		note = "Q4 not applicable for 10-Q"
	}
	return quarter, note, nil
}

// FilingURL builds the archive URL of the primary document. The path wants
// the CIK without leading zeros and the accession number without dashes.
func (c *Client) FilingURL(cik string, f *Filing) string {
	trimmed := strings.TrimLeft(cik, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	accession := strings.ReplaceAll(f.AccessionNumber, "-", "")
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s", c.baseURL(), trimmed, accession, f.PrimaryDocument)
}

// FactsURL is the XBRL company-facts endpoint for cik.
func (c *Client) FactsURL(cik string) string {
	return fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.dataBaseURL(), cik)
}

// DocumentFilename names a downloaded 10-Q: TICKER_reportDate_Qn_10-Q.ext,
// with an _A suffix for amendments.
func DocumentFilename(ticker, reportDate, quarter string, f *Filing) string {
	name := fmt.Sprintf("%s_%s_%s_10-Q", ticker, reportDate, quarter)
	if f.Amended {
		name += "_A"
	}
	return name + filepath.Ext(f.PrimaryDocument)
}
