package saver

import (
	"github.com/parquet-go/parquet-go"

	"sweepscan/internal/model"
)

// ParquetSaver writes packets as Parquet.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) SaveBars(bars []model.Bar, path string) error {
	return parquet.WriteFile(path, bars)
}

func (ParquetSaver) SaveEnriched(bars []model.EnrichedBar, path string) error {
	return parquet.WriteFile(path, bars)
}
