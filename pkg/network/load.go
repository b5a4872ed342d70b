package network

import (
	"context"

	"github.com/fastroute/fastroute/pkg/config"
	"github.com/fastroute/fastroute/pkg/stops"
)

func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Boundary:         cfg.Network.Boundary(),
		Capacity:         cfg.Network.Capacity,
		SearchHalfExtent: cfg.Network.SearchHalfExtent,
	}
}

// Load connects the configured stop source and builds the network from it
func Load(ctx context.Context, cfg *config.Config) (*Network, error) {
	source, err := stops.NewSource(cfg.Stops.Source, cfg.Stops.Path)
	if err != nil {
		return nil, err
	}

	loaded, err := stops.Load(ctx, source, cfg.Stops.Filter)
	if err != nil {
		return nil, err
	}

	return New(loaded, ConfigFrom(cfg))
}
