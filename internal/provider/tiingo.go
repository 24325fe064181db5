package provider

import (
	"sweepscan/internal/provider/tiingo"
)

// TiingoProvider is a DataProvider implementation backed by the Tiingo IEX API.
type TiingoProvider struct {
	*tiingo.Client
}

// NewTiingoProvider creates a new Tiingo-backed DataProvider.
func NewTiingoProvider(apiKey string) (*TiingoProvider, error) {
	client, err := tiingo.NewClient(apiKey)
	if err != nil {
		return nil, err
	}
	return &TiingoProvider{
		Client: client,
	}, nil
}
