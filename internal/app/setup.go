package app

import (
	"fmt"
	"log/slog"
	"strings"

	"sweepscan/internal/provider"
	"sweepscan/internal/saver"
)

// CreateProvider builds the configured market-data provider.
func CreateProvider(cfg *Config) (provider.DataProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "polygon":
		return createPolygonProvider(cfg)
	case "tiingo":
		return createTiingoProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported data provider: %s. Options: polygon, tiingo", cfg.Provider)
	}
}

func createPolygonProvider(cfg *Config) (provider.DataProvider, error) {
	if len(cfg.PolygonAPIKeys) == 0 {
		return nil, fmt.Errorf("POLYGON_API_KEY or POLYGON_API_KEYS not set")
	}
	p, err := provider.NewPolygonProvider(cfg.PolygonAPIKeys)
	if err != nil {
		return nil, err
	}
	p.Timeframe = cfg.ScanTimeframe()
	return p, nil
}

func createTiingoProvider(cfg *Config) (provider.DataProvider, error) {
	if cfg.TiingoAPIKey == "" {
		return nil, fmt.Errorf("TIINGO_API_KEY not set")
	}
	p, err := provider.NewTiingoProvider(cfg.TiingoAPIKey)
	if err != nil {
		return nil, err
	}
	p.Timeframe = cfg.ScanTimeframe()
	return p, nil
}

// WireProviderPackets turns on provider-level fetch packets for providers
// that support them. No-op when PacketDir is empty.
func WireProviderPackets(dp provider.DataProvider, cfg *Config, ps saver.PacketSaver) {
	if cfg.PacketDir == "" {
		return
	}
	p, ok := dp.(*provider.PolygonProvider)
	if !ok {
		slog.Warn("packet_dir set but provider keeps no packets", "provider", dp.GetName())
		return
	}
	p.SetSavePacketDir(cfg.PacketDir)
	p.SetPacketSaver(ps)
	p.SetSavePerDay(cfg.PacketPerDay)
	slog.Info("provider packets on", "dir", cfg.PacketDir, "format", ps.Extension(), "per_day", cfg.PacketPerDay)
}
