package polygon

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// KeyInfo tracks usage of one API key.
type KeyInfo struct {
	Key          string
	LastUsed     time.Time
	RequestCount int64
}

// Strategy selects which key the pool hands out next.
type Strategy int

const (
	RoundRobin Strategy = iota
	LeastUsed
)

func (s Strategy) String() string {
	switch s {
	case RoundRobin:
		return "round-robin"
	case LeastUsed:
		return "least-used"
	default:
		return "unknown"
	}
}

// KeyPool rotates API keys for sequential callers and enforces the
// per-key cooldown (Polygon free tier: 5 req/min, so 12s between
// requests on the same key).
type KeyPool struct {
	keys     []*KeyInfo
	mu       sync.Mutex
	index    int
	strategy Strategy

	cooldownMu  sync.Mutex
	lastRequest map[string]time.Time
	delayPerReq time.Duration
}

// NewKeyPool creates a pool over the given API keys.
func NewKeyPool(apiKeys []string, strategy Strategy) (*KeyPool, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one API key required")
	}
	keys := make([]*KeyInfo, len(apiKeys))
	for i, key := range apiKeys {
		keys[i] = &KeyInfo{Key: key}
	}
	return &KeyPool{
		keys:        keys,
		strategy:    strategy,
		lastRequest: make(map[string]time.Time),
		delayPerReq: KeyCooldownSec * time.Second,
	}, nil
}

// GetAvailableKey picks a key by strategy and blocks until its cooldown
// has elapsed.
func (p *KeyPool) GetAvailableKey() (*KeyInfo, error) {
	p.mu.Lock()
	var selected *KeyInfo
	switch p.strategy {
	case LeastUsed:
		selected = p.keys[0]
		for _, key := range p.keys[1:] {
			if key.RequestCount < selected.RequestCount {
				selected = key
			}
		}
	default: // RoundRobin
		selected = p.keys[p.index]
		p.index = (p.index + 1) % len(p.keys)
	}
	selected.LastUsed = time.Now()
	selected.RequestCount++
	p.mu.Unlock()

	p.waitForKey(selected.Key)
	return selected, nil
}

// waitForKey sleeps until delayPerReq has passed since the key's last
// request, then records the new request time.
func (p *KeyPool) waitForKey(apiKey string) {
	keyHash := hashKey(apiKey)

	p.cooldownMu.Lock()
	lastTime, exists := p.lastRequest[keyHash]
	now := time.Now()
	if exists {
		elapsed := now.Sub(lastTime)
		if elapsed < p.delayPerReq {
			waitTime := p.delayPerReq - elapsed
			p.cooldownMu.Unlock()
			slog.Debug("key cooldown", "wait_s", waitTime.Seconds(), "elapsed_s", elapsed.Seconds())
			time.Sleep(waitTime)
			p.cooldownMu.Lock()
			now = time.Now()
		}
	}
	p.lastRequest[keyHash] = now
	p.cooldownMu.Unlock()
}

// Keys returns the raw key list, for callers that schedule keys
// themselves (the parallel scanner's buffered-chan pool).
func (p *KeyPool) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.keys))
	for i, k := range p.keys {
		out[i] = k.Key
	}
	return out
}

// Stats returns per-key usage counters.
func (p *KeyPool) Stats() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := make(map[string]any)
	stats["total_keys"] = len(p.keys)
	stats["strategy"] = p.strategy.String()

	keyStats := make([]map[string]any, len(p.keys))
	for i, key := range p.keys {
		keyStats[i] = map[string]any{
			"key_prefix":    keyPrefix(key.Key),
			"request_count": key.RequestCount,
			"last_used":     key.LastUsed.Format(time.RFC3339),
		}
	}
	stats["keys"] = keyStats
	return stats
}

func (p *KeyPool) Close() error { return nil }

// hashKey shortens an API key to a stable identifier (first and last 8
// characters) so full keys never sit in maps or logs.
func hashKey(apiKey string) string {
	if len(apiKey) <= 16 {
		return apiKey
	}
	return apiKey[:8] + apiKey[len(apiKey)-8:]
}

func keyPrefix(apiKey string) string {
	if len(apiKey) > 8 {
		return apiKey[:8] + "..."
	}
	return apiKey + "..."
}
