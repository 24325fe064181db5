package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sweepscan/internal/patterns"
)

// Structure is the raw market-structure output for one symbol, before any
// gap scoring. Useful when debugging why a signal did or did not fire.
type Structure struct {
	Symbol string           `json:"symbol"`
	Pivots []patterns.Pivot `json:"pivots"`
	Sweeps []int            `json:"sweeps"`
	Breaks []patterns.Break `json:"breaks"`
}

// WriteStructure dumps s as indented JSON to path.
func WriteStructure(path string, s Structure) error {
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
	return enc.Encode(s)
}
