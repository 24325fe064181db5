package saver

import (
	"encoding/json"
	"os"

	"sweepscan/internal/model"
)

// JSONSaver writes packets as JSON (array, indent).
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) SaveBars(bars []model.Bar, path string) error {
	return writeJSON(bars, path)
}

func (JSONSaver) SaveEnriched(bars []model.EnrichedBar, path string) error {
	return writeJSON(bars, path)
}

func writeJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
