//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"sweepscan/internal/app"
	"sweepscan/internal/provider"
	"sweepscan/internal/saver"
	"sweepscan/internal/sec"
	"sweepscan/internal/server"
)

// App holds the scan command dependencies built by Wire.
type App struct {
	Config *app.Config
	DP     provider.DataProvider
	Saver  saver.PacketSaver
}

// ScreenerApp holds the filings command dependencies built by Wire.
type ScreenerApp struct {
	Config   *app.Config
	Screener *sec.Screener
}

// ServerApp holds the serve command dependencies built by Wire.
type ServerApp struct {
	Config *app.Config
	Server *server.Server
}

// InitializeApp builds App (Config + DataProvider + PacketSaver) via Wire.
// Caller must call a.DP.Close() when done.
func InitializeApp(configPath string) (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvidePacketSaver,
		app.ProvideDataProvider,
		wire.Struct(new(App), "Config", "DP", "Saver"),
	)
	return nil, nil
}

// InitializeScreener builds the SEC screener and its config via Wire.
func InitializeScreener(configPath string) (*ScreenerApp, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideSECClient,
		app.ProvideScreener,
		wire.Struct(new(ScreenerApp), "Config", "Screener"),
	)
	return nil, nil
}

// InitializeServer builds the dashboard server and its config via Wire.
func InitializeServer(configPath string) (*ServerApp, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideWatchlistStore,
		app.ProvideServer,
		wire.Struct(new(ServerApp), "Config", "Server"),
	)
	return nil, nil
}
