package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"sweepscan/internal/model"
)

// WriteSummaryJSON writes the cross-symbol signal rows as indented JSON,
// highest score first. The dashboard's summary endpoint reads this file.
func WriteSummaryJSON(path string, rows []model.SignalRow) error {
	sorted := make([]model.SignalRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(sorted)
}

// ReadSummaryJSON loads a summary written by WriteSummaryJSON. A missing
// file comes back as os.IsNotExist error for the caller to decide.
func ReadSummaryJSON(path string) ([]model.SignalRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []model.SignalRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse summary %s: %w", path, err)
	}
	return rows, nil
}
