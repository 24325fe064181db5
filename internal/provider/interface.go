package provider

import (
	"time"

	"sweepscan/internal/model"
)

// DataProvider is the abstraction used by the application when accessing a
// market-data source. Implementations are responsible for their own retry
// and rate-limit logic and resource cleanup.
type DataProvider interface {
	GetName() string
	FetchMinuteBars(ticker string, from, to time.Time) ([]model.Bar, error)
	Close() error
}

// KeyedFetcher is implemented by providers that rotate API keys. The
// parallel scanner asserts for it and schedules keys itself; providers
// without it run through the sequential path.
type KeyedFetcher interface {
	FetchMinuteBarsWithKey(ticker, apiKey string, from, to time.Time) ([]model.Bar, error)
	Keys() []string
}
