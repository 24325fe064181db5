package app

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sweepscan/internal/model"
	"sweepscan/internal/provider"
	"sweepscan/internal/report"
	"sweepscan/internal/saver"
	"sweepscan/internal/scan"
)

// RunOptions is the per-invocation scan setup resolved by the CLI.
type RunOptions struct {
	Symbols []string
	Start   time.Time // zero derives the window from Months
	End     time.Time // zero means "now" at each trigger
	Months  int
	Force   bool
	Watch   bool
}

// RunFlow orchestrates the scan loop: trigger → run → done → report → wait.
// Without Watch it returns after the first completed run.
func RunFlow(cfg *Config, dp provider.DataProvider, ps saver.PacketSaver, opts RunOptions) {
	progressUpdates := make(chan scan.ProgressUpdate, 256)
	go scan.RunProgressWriter(cfg.ProgressPath(), progressUpdates)

	shutdown := make(chan struct{})
	trigger := make(chan scan.Cmd, 1)
	done := make(chan scan.Done, 1)

	go func() {
		for range trigger {
			scan.RunOneScan(
				dp,
				opts.Symbols,
				buildScanOptions(cfg, ps, opts),
				cfg.ReportsDir,
				cfg.ProgressPath(),
				opts.Force,
				progressUpdates,
				done,
				shutdown,
			)
		}
	}()

	trigger <- scan.Cmd{}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case d := <-done:
			writeReports(cfg, d.Results)
			if !opts.Watch {
				return
			}
			slog.Info("done, wait until next run")
			nextRun := nextScanRunTime(cfg)
			waitDur := time.Until(nextRun)
			if waitDur <= 0 {
				slog.Info("next run passed, running now", "next_run", nextRun.Format("2006-01-02 15:04"))
			} else {
				slog.Info("timer waiting", "hours", waitDur.Hours(), "until", nextRun.Format("2006-01-02 15:04"))
				timer := time.NewTimer(waitDur)
				select {
				case <-timer.C:
				case sig := <-signals:
					slog.Info("received signal, stopping", "sig", sig, "restart_at", nextRun.Format("2006-01-02 15:04"))
					timer.Stop()
					return
				}
			}
			trigger <- scan.Cmd{}
		case sig := <-signals:
			slog.Info("received signal, graceful shutdown", "sig", sig)
			close(shutdown)
			d := <-done
			writeReports(cfg, d.Results)
			return
		}
	}
}

// buildScanOptions recomputes the window for each trigger so a watch
// loop keeps sliding forward instead of rescanning a frozen range.
func buildScanOptions(cfg *Config, ps saver.PacketSaver, opts RunOptions) scan.Options {
	end := opts.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	start := opts.Start
	if start.IsZero() {
		months := opts.Months
		if months <= 0 {
			months = 3
		}
		start = end.AddDate(0, 0, -30*months)
	}
	return scan.Options{
		From:        start,
		To:          end,
		SessionOnly: cfg.SessionOnly,
		Loc:         cfg.SessionLocation(),
		ATRPeriod:   cfg.ATRPeriod,
		RVolPeriod:  cfg.RVolPeriod,
		BOSBuffer:   cfg.BOSBuffer,
		Weights:     cfg.Weights,
		RawDir:      cfg.RawDir(),
		CleanDir:    cfg.CleanDir(),
		Saver:       ps,
	}
}

// writeReports persists per-symbol signal and structure files plus the
// cross-symbol summary. Symbols without signals still get a structure
// dump so pivots and breaks stay inspectable.
func writeReports(cfg *Config, results []*scan.Result) {
	if len(results) == 0 {
		return
	}
	ext := strings.ToLower(cfg.ReportFormat)
	var summary []model.SignalRow
	for _, res := range results {
		if len(res.Signals) > 0 {
			summary = append(summary, res.Signals...)
			path := filepath.Join(cfg.ReportsDir, res.Symbol+"_signals."+ext)
			if err := report.WriteSignals(path, res.Signals); err != nil {
				slog.Warn("could not write signal report", "symbol", res.Symbol, "error", err)
			}
		}
		st := report.Structure{
			Symbol: res.Symbol,
			Pivots: res.Pivots,
			Sweeps: res.Sweeps,
			Breaks: res.Breaks,
		}
		path := filepath.Join(cfg.ReportsDir, res.Symbol+"_structure.json")
		if err := report.WriteStructure(path, st); err != nil {
			slog.Warn("could not write structure report", "symbol", res.Symbol, "error", err)
		}
	}
	if len(summary) == 0 {
		slog.Info("no signals found, summary skipped")
		return
	}
	summaryPath := filepath.Join(cfg.ReportsDir, "summary."+ext)
	if err := report.WriteSummary(summaryPath, summary); err != nil {
		slog.Warn("could not write summary", "error", err)
	} else {
		slog.Info("summary saved", "path", summaryPath, "signals", len(summary))
	}
	if err := report.WriteSummaryJSON(cfg.SummaryJSONPath(), summary); err != nil {
		slog.Warn("could not write summary json", "error", err)
	}
}

func nextScanRunTime(cfg *Config) time.Time {
	now := time.Now().UTC()
	hour, min := cfg.RunHour, cfg.RunMinute
	targetToday := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, time.UTC)
	if now.Before(targetToday) {
		return targetToday
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hour, min, 0, 0, time.UTC)
}
