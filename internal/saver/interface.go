package saver

import (
	"fmt"
	"strings"

	"sweepscan/internal/model"
)

// PacketSaver is the abstraction for persisting one packet of bars.
// High-level code injects the implementation; the pipeline only depends
// on the interface.
type PacketSaver interface {
	SaveBars(bars []model.Bar, path string) error
	SaveEnriched(bars []model.EnrichedBar, path string) error
	Extension() string
}

// NewPacketSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewPacketSaver(format string) PacketSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// MustPacketSaver is NewPacketSaver but panics on an unsupported format.
func MustPacketSaver(format string) PacketSaver {
	s := NewPacketSaver(format)
	if s == nil {
		panic(fmt.Sprintf("saver: unsupported format %q (use: csv, parquet, json)", format))
	}
	return s
}
