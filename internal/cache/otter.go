package cache

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/maypok86/otter"
)

// OtterCache is the in-memory layer, holding marshalled responses keyed by endpoint.
type OtterCache struct {
	cache *otter.Cache[string, []byte]
}

// BuildOtter builds an otter cache of the given capacity whose entries expire after ttl.
func BuildOtter(size int, ttl time.Duration) (*otter.Cache[string, []byte], error) {
	oc, err := otter.MustBuilder[string, []byte](size).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, err
	}
	return &oc, nil
}

func NewOtterCache(c *otter.Cache[string, []byte]) *OtterCache {
	return &OtterCache{cache: c}
}

func (c *OtterCache) Set(endpoint string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if !c.cache.Set(endpoint, payload) {
		slog.Debug("otter rejected entry", slog.String("endpoint", endpoint), slog.Int("bytes", len(payload)))
		return nil
	}
	slog.Debug("written to otter cache", slog.String("endpoint", endpoint))
	return nil
}

// Get drops entries that no longer decode into value and reports them as a miss.
func (c *OtterCache) Get(endpoint string, value any) (bool, error) {
	payload, found := c.cache.Get(endpoint)
	if !found {
		slog.Debug("not found in otter cache", slog.String("endpoint", endpoint))
		return false, nil
	}
	if err := json.Unmarshal(payload, value); err != nil {
		slog.Warn("dropping undecodable otter entry", slog.String("endpoint", endpoint), slog.Any("error", err))
		c.cache.Delete(endpoint)
		return false, nil
	}
	slog.Debug("found in otter cache", slog.String("endpoint", endpoint))
	return true, nil
}

// Close stops otter's background goroutines.
func (c *OtterCache) Close() {
	c.cache.Close()
}
