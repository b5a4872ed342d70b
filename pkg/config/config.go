package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fastroute/fastroute/pkg/quadtree"
	"github.com/fastroute/fastroute/pkg/util"
	"github.com/go-playground/validator/v10"
	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

type NetworkConfig struct {
	CenterLatitude      float64 `yaml:"center_latitude" validate:"gte=-90,lte=90"`
	CenterLongitude     float64 `yaml:"center_longitude" validate:"gte=-180,lte=180"`
	HalfExtentLatitude  float64 `yaml:"half_extent_latitude" validate:"gt=0"`
	HalfExtentLongitude float64 `yaml:"half_extent_longitude" validate:"gt=0"`

	Capacity         int     `yaml:"capacity" validate:"gt=0"`
	SearchHalfExtent float64 `yaml:"search_half_extent" validate:"gt=0"`
}

func (n NetworkConfig) Boundary() quadtree.Region {
	return quadtree.NewRegion(n.CenterLatitude, n.CenterLongitude, n.HalfExtentLatitude, n.HalfExtentLongitude)
}

// LivenessConfig durations are ISO 8601 (PT60S) in the YAML file
type LivenessConfig struct {
	WaitingAfter  string `yaml:"waiting_after" validate:"required"`
	OfflineAfter  string `yaml:"offline_after" validate:"required"`
	SweepInterval string `yaml:"sweep_interval" validate:"required"`

	waitingAfter  time.Duration
	offlineAfter  time.Duration
	sweepInterval time.Duration
}

func (l LivenessConfig) WaitingAfterDuration() time.Duration  { return l.waitingAfter }
func (l LivenessConfig) OfflineAfterDuration() time.Duration  { return l.offlineAfter }
func (l LivenessConfig) SweepIntervalDuration() time.Duration { return l.sweepInterval }

type CoverageConfig struct {
	CellSize float64 `yaml:"cell_size" validate:"gt=0"`
	MaxCells int     `yaml:"max_cells" validate:"gte=0"`
}

type StopsConfig struct {
	Source string `yaml:"source" validate:"oneof=mongodb postgres csv yaml"`
	Path   string `yaml:"path" validate:"required_if=Source csv,required_if=Source yaml"`
	Filter string `yaml:"filter"`
}

type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Liveness LivenessConfig `yaml:"liveness"`
	Coverage CoverageConfig `yaml:"coverage"`
	Stops    StopsConfig    `yaml:"stops"`
}

func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			CenterLatitude:      -15.84,
			CenterLongitude:     -70.02,
			HalfExtentLatitude:  0.05,
			HalfExtentLongitude: 0.05,
			Capacity:            4,
			SearchHalfExtent:    0.01,
		},
		Liveness: LivenessConfig{
			WaitingAfter:  "PT60S",
			OfflineAfter:  "PT65S",
			SweepInterval: "PT1S",
		},
		Coverage: CoverageConfig{
			CellSize: 0.001,
		},
		Stops: StopsConfig{
			Source: "mongodb",
			Filter: "Active",
		},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// FASTROUTE_* environment overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvironment(util.GetEnvironmentVariables()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if c.Liveness.offlineAfter <= 0 || c.Liveness.waitingAfter <= 0 || c.Liveness.sweepInterval <= 0 {
		return fmt.Errorf("liveness durations must be positive")
	}

	return nil
}

func (c *Config) parseDurations() error {
	var err error

	if c.Liveness.waitingAfter, err = parseISO8601(c.Liveness.WaitingAfter); err != nil {
		return fmt.Errorf("liveness.waiting_after: %w", err)
	}
	if c.Liveness.offlineAfter, err = parseISO8601(c.Liveness.OfflineAfter); err != nil {
		return fmt.Errorf("liveness.offline_after: %w", err)
	}
	if c.Liveness.sweepInterval, err = parseISO8601(c.Liveness.SweepInterval); err != nil {
		return fmt.Errorf("liveness.sweep_interval: %w", err)
	}

	return nil
}

func parseISO8601(value string) (time.Duration, error) {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, err
	}

	reference := time.Unix(0, 0).UTC()
	return parsed.Shift(reference).Sub(reference), nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	floats := map[string]*float64{
		"FASTROUTE_NETWORK_CENTER_LATITUDE":    &c.Network.CenterLatitude,
		"FASTROUTE_NETWORK_CENTER_LONGITUDE":   &c.Network.CenterLongitude,
		"FASTROUTE_NETWORK_SEARCH_HALF_EXTENT": &c.Network.SearchHalfExtent,
		"FASTROUTE_COVERAGE_CELL_SIZE":         &c.Coverage.CellSize,
	}

	for name, target := range floats {
		value := env[name]
		if value == "" {
			continue
		}

		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		*target = parsed
	}

	if value := env["FASTROUTE_NETWORK_HALF_EXTENT"]; value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("FASTROUTE_NETWORK_HALF_EXTENT: %w", err)
		}

		c.Network.HalfExtentLatitude = parsed
		c.Network.HalfExtentLongitude = parsed
	}

	ints := map[string]*int{
		"FASTROUTE_NETWORK_CAPACITY":   &c.Network.Capacity,
		"FASTROUTE_COVERAGE_MAX_CELLS": &c.Coverage.MaxCells,
	}

	for name, target := range ints {
		if value := env[name]; value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*target = parsed
		}
	}

	durations := map[string]*time.Duration{
		"FASTROUTE_LIVENESS_WAITING_AFTER":  &c.Liveness.waitingAfter,
		"FASTROUTE_LIVENESS_OFFLINE_AFTER":  &c.Liveness.offlineAfter,
		"FASTROUTE_LIVENESS_SWEEP_INTERVAL": &c.Liveness.sweepInterval,
	}

	for name, target := range durations {
		if value := env[name]; value != "" {
			parsed, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*target = parsed
		}
	}

	if value := env["FASTROUTE_STOPS_SOURCE"]; value != "" {
		c.Stops.Source = value
	}
	if value := env["FASTROUTE_STOPS_PATH"]; value != "" {
		c.Stops.Path = value
	}
	if value := env["FASTROUTE_STOPS_FILTER"]; value != "" {
		c.Stops.Filter = value
	}

	return nil
}
