package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sweepscan/internal/slogx"
)

var configPath string

// rootCmd is the base command for the sweepscan CLI.
var rootCmd = &cobra.Command{
	Use:   "sweepscan",
	Short: "Market structure scanner for liquidity sweeps and fair value gaps",
	Long: `sweepscan fetches intraday bars, enriches them with ATR and relative
volume, detects swing pivots, liquidity sweeps, breaks of structure and
fair value gaps, and writes scored signal reports.`,
}

func init() {
	// Commands re-level the logger once config is loaded.
	slog.SetDefault(slogx.NewDefault("info"))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file (optional)")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(filingsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
