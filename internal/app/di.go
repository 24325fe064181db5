package app

import (
	"fmt"

	"sweepscan/internal/provider"
	"sweepscan/internal/saver"
	"sweepscan/internal/sec"
	"sweepscan/internal/server"
	"sweepscan/internal/watchlist"
)

// ProvideConfig loads and validates the configuration (for Wire).
func ProvideConfig(configPath string) (*Config, error) {
	return LoadConfig(configPath)
}

// ProvidePacketSaver creates the PacketSaver from config (for Wire).
func ProvidePacketSaver(cfg *Config) (saver.PacketSaver, error) {
	ps := saver.NewPacketSaver(cfg.SaveFormat)
	if ps == nil {
		return nil, fmt.Errorf("unsupported save format %q (use: csv, parquet, json)", cfg.SaveFormat)
	}
	return ps, nil
}

// ProvideDataProvider creates the market-data provider and wires optional
// fetch packets into it (for Wire). Caller must Close() on shutdown.
func ProvideDataProvider(cfg *Config, ps saver.PacketSaver) (provider.DataProvider, error) {
	dp, err := CreateProvider(cfg)
	if err != nil {
		return nil, err
	}
	WireProviderPackets(dp, cfg, ps)
	return dp, nil
}

// ProvideSECClient creates the EDGAR client (for Wire).
func ProvideSECClient(cfg *Config) *sec.Client {
	return sec.NewClient(cfg.SEC.UserAgent)
}

// ProvideScreener creates the 10-Q screener (for Wire).
func ProvideScreener(cfg *Config, client *sec.Client) *sec.Screener {
	return &sec.Screener{
		Client:     client,
		CacheDir:   cfg.SEC.CacheDir,
		FilingsDir: cfg.SEC.FilingsDir,
	}
}

// ProvideWatchlistStore opens the watchlist file store (for Wire).
func ProvideWatchlistStore(cfg *Config) (*watchlist.Store, error) {
	return watchlist.OpenStore(cfg.WatchlistPath)
}

// ProvideServer creates the dashboard server (for Wire).
func ProvideServer(cfg *Config, store *watchlist.Store) *server.Server {
	serverCfg := server.DefaultConfig()
	serverCfg.Addr = cfg.Server.Addr
	return server.New(serverCfg, store, cfg.SummaryJSONPath())
}
