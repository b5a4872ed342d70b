package vehicletracker

import (
	"os"
	"strconv"
	"time"
)

type TrackerConfig struct {
	NumberConsumers int
	BatchSize       int
	Workers         int

	BatchTimeout     time.Duration
	StatusExpiration time.Duration
}

var defaultTrackerConfig = TrackerConfig{
	NumberConsumers:  2,
	BatchSize:        200,
	Workers:          50,
	BatchTimeout:     2 * time.Second,
	StatusExpiration: 24 * time.Hour,
}

// GetTrackerConfig returns the consumer configuration from environment variables or defaults
func GetTrackerConfig() TrackerConfig {
	config := defaultTrackerConfig

	if val := os.Getenv("FASTROUTE_TRACKER_CONSUMERS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			config.NumberConsumers = parsed
		}
	}

	if val := os.Getenv("FASTROUTE_TRACKER_BATCH_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			config.BatchSize = parsed
		}
	}

	if val := os.Getenv("FASTROUTE_TRACKER_WORKERS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			config.Workers = parsed
		}
	}

	if val := os.Getenv("FASTROUTE_TRACKER_BATCH_TIMEOUT"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			config.BatchTimeout = parsed
		}
	}

	if val := os.Getenv("FASTROUTE_TRACKER_STATUS_EXPIRATION"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			config.StatusExpiration = parsed
		}
	}

	return config
}
