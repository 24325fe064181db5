package polygon

import (
	"net/http"
	"time"

	"sweepscan/internal/breaker"
)

// baseTransportConfig returns the shared HTTP transport configuration used by Polygon clients.
func baseTransportConfig() *http.Transport {
	return &http.Transport{
		ResponseHeaderTimeout: 10 * time.Minute,
		IdleConnTimeout:       0,
		TLSHandshakeTimeout:   10 * time.Second,
		DisableKeepAlives:     true,
		MaxIdleConns:          0,
		MaxIdleConnsPerHost:   0,
	}
}

// newHTTPClient creates an HTTP client configured for Polygon requests.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: baseTransportConfig(),
		Timeout:   10 * time.Minute,
	}
}

// NewClient constructs a Client with a shared HTTP client, a round-robin
// key pool over apiKeys and a circuit breaker.
func NewClient(apiKeys []string) (*Client, error) {
	keys, err := NewKeyPool(apiKeys, RoundRobin)
	if err != nil {
		return nil, err
	}
	return &Client{
		client:   newHTTPClient(),
		keys:     keys,
		breaker:  breaker.New("polygon"),
		cooldown: KeyCooldownSec * time.Second,
		BaseURL:  polygonBaseURL,
	}, nil
}
