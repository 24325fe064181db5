package provider

import (
	"sweepscan/internal/provider/polygon"
	"sweepscan/internal/saver"
)

// PolygonProvider is a DataProvider implementation backed by the Polygon API.
// It embeds *polygon.Client to expose fetch capabilities with minimal boilerplate.
type PolygonProvider struct {
	*polygon.Client
}

// NewPolygonProvider creates a new Polygon-backed DataProvider.
func NewPolygonProvider(apiKeys []string) (*PolygonProvider, error) {
	client, err := polygon.NewClient(apiKeys)
	if err != nil {
		return nil, err
	}
	return &PolygonProvider{
		Client: client,
	}, nil
}

// GetName returns provider name
func (p *PolygonProvider) GetName() string {
	return "Polygon"
}

// SetSavePacketDir sets directory for the client to save raw packets (one file per fetch).
// File extension depends on PacketSaver (csv/parquet/json).
func (p *PolygonProvider) SetSavePacketDir(dir string) {
	if p.Client != nil {
		p.Client.SavePacketDir = dir
	}
}

// SetPacketSaver injects packet save implementation. Call after SetSavePacketDir.
func (p *PolygonProvider) SetPacketSaver(s saver.PacketSaver) {
	if p.Client != nil {
		p.Client.PacketSaver = s
	}
}

// SetSavePerDay save per day {ticker}_{date}.ext instead of {ticker}_{from}_to_{to}.ext
func (p *PolygonProvider) SetSavePerDay(v bool) {
	if p.Client != nil {
		p.Client.SavePerDay = v
	}
}

// SetLogFunc sets fan-in logger. When set, the client sends logs here instead of slog.
func (p *PolygonProvider) SetLogFunc(fn polygon.LogFunc) {
	if p.Client != nil {
		p.Client.LogFunc = fn
	}
}
