package scan

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type failedEntry struct {
	Symbol    string `json:"symbol"`
	DateRange string `json:"date_range"`
	Reason    string `json:"reason"`
}

type successReport struct {
	RunID   string   `json:"run_id"`
	When    string   `json:"when"`
	Symbols []string `json:"symbols"`
}

type failedReport struct {
	RunID  string        `json:"run_id"`
	When   string        `json:"when"`
	Failed []failedEntry `json:"failed"`
}

func writeRunReport(dir, runID string, successList []string, failedList []failedEntry) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	when := time.Now().UTC().Format(time.RFC3339)
	if len(successList) > 0 {
		p := filepath.Join(dir, ".lastrun.success.json")
		data, err := json.MarshalIndent(successReport{RunID: runID, When: when, Symbols: successList}, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return err
		}
		slog.Info("report wrote success", "path", p, "symbols", len(successList))
	}
	if len(failedList) > 0 {
		p := filepath.Join(dir, ".lastrun.failed.json")
		data, err := json.MarshalIndent(failedReport{RunID: runID, When: when, Failed: failedList}, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return err
		}
		slog.Info("report wrote failed", "path", p, "count", len(failedList))
	}
	return nil
}

func appendSuccess(list []string, symbol string) []string {
	for _, s := range list {
		if s == symbol {
			return list
		}
	}
	return append(list, symbol)
}

func joinFailedReasons(failedList []failedEntry) string {
	if len(failedList) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failedList {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Symbol)
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(failedList) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failedList)-5))
			break
		}
	}
	return b.String()
}
