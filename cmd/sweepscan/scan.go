package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sweepscan/internal/app"
	"sweepscan/internal/model"
	"sweepscan/internal/provider"
	"sweepscan/internal/provider/polygon"
	"sweepscan/internal/slogx"
)

var (
	scanSymbols     string
	scanSymbolsFile string
	scanTop         int
	scanMonths      int
	scanTimeframe   string
	scanSessionOnly bool
	scanStart       string
	scanEnd         string
	scanForce       bool
	scanWatch       bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan symbols for liquidity sweep and fair value gap signals",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanSymbols, "symbols", "", "comma-separated symbols (overrides --symbols-file)")
	scanCmd.Flags().StringVar(&scanSymbolsFile, "symbols-file", "", "symbol list file (.txt or .json)")
	scanCmd.Flags().IntVar(&scanTop, "top", 0, "scan the N most active stocks by volume")
	scanCmd.Flags().IntVar(&scanMonths, "months", 3, "lookback window in months")
	scanCmd.Flags().StringVar(&scanTimeframe, "tf", "", "bar timeframe: 1m, 5m, 1h (overrides config)")
	scanCmd.Flags().BoolVar(&scanSessionOnly, "session-only", false, "keep only AM/PM session bars")
	scanCmd.Flags().StringVar(&scanStart, "start", "", "window start, YYYY-MM-DD (overrides --months)")
	scanCmd.Flags().StringVar(&scanEnd, "end", "", "window end, YYYY-MM-DD (default: now)")
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "rescan symbols already marked done")
	scanCmd.Flags().BoolVar(&scanWatch, "watch", false, "keep running and rescan on the daily schedule")
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := InitializeApp(configPath)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.DP.Close()

	cfg := a.Config
	slog.SetDefault(slogx.New(cfg.LogLevel, cfg.LogFormat))
	slog.Info("using data provider", "provider", a.DP.GetName())

	if cmd.Flags().Changed("tf") {
		if _, err := model.ParseTimeframe(scanTimeframe); err != nil {
			return err
		}
		cfg.Timeframe = scanTimeframe
		setProviderTimeframe(a.DP, cfg.ScanTimeframe())
	}
	if cmd.Flags().Changed("session-only") {
		cfg.SessionOnly = scanSessionOnly
	}

	symbols, err := resolveSymbols(cfg, a.DP)
	if err != nil {
		return err
	}
	slog.Info("got symbols", "count", len(symbols))

	start, end, err := parseWindow(scanStart, scanEnd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.ReportsDir, 0755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	slog.Info("save dirs", "data", cfg.DataDir, "reports", cfg.ReportsDir, "format", cfg.SaveFormat)

	app.RunFlow(cfg, a.DP, a.Saver, app.RunOptions{
		Symbols: symbols,
		Start:   start,
		End:     end,
		Months:  scanMonths,
		Force:   scanForce,
		Watch:   scanWatch,
	})
	return nil
}

// resolveSymbols picks the symbol source: explicit list, list file, top-N
// by volume, then the config's tickers file.
func resolveSymbols(cfg *app.Config, dp provider.DataProvider) ([]string, error) {
	if scanSymbols != "" {
		var symbols []string
		for _, s := range strings.Split(scanSymbols, ",") {
			s = strings.TrimSpace(strings.ToUpper(s))
			if s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) == 0 {
			return nil, fmt.Errorf("--symbols is empty")
		}
		return symbols, nil
	}
	if scanSymbolsFile != "" {
		return polygon.LoadTickersFromFileOrIndices(scanSymbolsFile)
	}
	if scanTop > 0 {
		pp, ok := dp.(*provider.PolygonProvider)
		if !ok {
			return nil, fmt.Errorf("--top needs the polygon provider, %s cannot list stocks by volume", dp.GetName())
		}
		slog.Info("fetching most active stocks", "count", scanTop)
		return pp.GetTopStocksByVolume(scanTop)
	}
	if cfg.TickersFile != "" {
		return polygon.LoadTickersFromFileOrIndices(cfg.TickersFile)
	}
	return nil, fmt.Errorf("no symbols: use --symbols, --symbols-file, --top or tickers_file in config")
}

func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, fmt.Errorf("--end %s is before --start %s", endStr, startStr)
	}
	return start, end, nil
}

func setProviderTimeframe(dp provider.DataProvider, tf model.Timeframe) {
	switch p := dp.(type) {
	case *provider.PolygonProvider:
		p.Timeframe = tf
	case *provider.TiingoProvider:
		p.Timeframe = tf
	}
}
