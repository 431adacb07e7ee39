package cache

import (
	"errors"
	"log/slog"

	"github.com/nerdwave-nick/pokeapi-go"
)

// MultiLayerCache asks its layers fastest first. A hit in a slower layer is copied into every
// healthy layer in front of it. A failing layer is skipped, so a redis outage only costs speed.
type MultiLayerCache struct {
	layers []pokeapi.Cache
}

func NewMultiLayerCache(layers ...pokeapi.Cache) *MultiLayerCache {
	return &MultiLayerCache{layers: layers}
}

// Set writes to every layer, continuing past failures. The returned error joins them all.
func (c *MultiLayerCache) Set(endpoint string, value any) error {
	slog.Debug("writing to multi layer cache", slog.String("endpoint", endpoint), slog.Int("layers", len(c.layers)))
	var errs []error
	for i, layer := range c.layers {
		if err := layer.Set(endpoint, value); err != nil {
			slog.Warn("writing cache layer", slog.Int("layer", i), slog.String("endpoint", endpoint), slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Get reports a miss with an error only when every layer failed.
func (c *MultiLayerCache) Get(endpoint string, value any) (bool, error) {
	var (
		errs    []error
		healthy []pokeapi.Cache
	)
	for i, layer := range c.layers {
		found, err := layer.Get(endpoint, value)
		if err != nil {
			slog.Warn("reading cache layer", slog.Int("layer", i), slog.String("endpoint", endpoint), slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		if !found {
			healthy = append(healthy, layer)
			continue
		}
		slog.Debug("multi layer cache hit", slog.Int("layer", i), slog.String("endpoint", endpoint))
		for _, faster := range healthy {
			if err := faster.Set(endpoint, value); err != nil {
				slog.Warn("backfilling cache layer", slog.String("endpoint", endpoint), slog.Any("error", err))
			}
		}
		return true, nil
	}
	if len(c.layers) > 0 && len(errs) == len(c.layers) {
		return false, errors.Join(errs...)
	}
	return false, nil
}
