package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"sweepscan/internal/report"
	"sweepscan/internal/slogx"
)

var filingsOut string

var filingsCmd = &cobra.Command{
	Use:   "filings",
	Short: "Download the latest 10-Q for each configured company",
	Long: `filings resolves each company under sec.companies to its CIK, finds the
most recent 10-Q (or 10-Q/A) on EDGAR, downloads the primary document and
writes a screener report with filing dates, quarters and document links.`,
	RunE: runFilings,
}

func init() {
	filingsCmd.Flags().StringVar(&filingsOut, "out", "", "screener report path, .csv or .xlsx (default: reports/stock_screener.csv)")
}

func runFilings(cmd *cobra.Command, args []string) error {
	sa, err := InitializeScreener(configPath)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	cfg := sa.Config
	slog.SetDefault(slogx.New(cfg.LogLevel, cfg.LogFormat))

	if len(cfg.SEC.Companies) == 0 {
		return fmt.Errorf("no companies configured under sec.companies")
	}

	rows := sa.Screener.Run(cfg.SEC.Companies)

	out := filingsOut
	if out == "" {
		out = filepath.Join(cfg.ReportsDir, "stock_screener.csv")
	}
	if err := report.WriteScreener(out, rows); err != nil {
		return fmt.Errorf("write screener report: %w", err)
	}
	slog.Info("screener report saved", "path", out, "companies", len(rows))
	return nil
}
