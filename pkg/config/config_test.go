package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, -15.84, cfg.Network.CenterLatitude)
	assert.Equal(t, 4, cfg.Network.Capacity)
	assert.Equal(t, 0.01, cfg.Network.SearchHalfExtent)
	assert.Equal(t, 60*time.Second, cfg.Liveness.WaitingAfterDuration())
	assert.Equal(t, 65*time.Second, cfg.Liveness.OfflineAfterDuration())
	assert.Equal(t, time.Second, cfg.Liveness.SweepIntervalDuration())
	assert.Equal(t, 0.001, cfg.Coverage.CellSize)

	boundary := cfg.Network.Boundary()
	assert.True(t, boundary.Contains(-15.80, -70.06))
	assert.False(t, boundary.Contains(-15.70, -70.02))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fastroute.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
network:
  capacity: 8
liveness:
  waiting_after: PT2M
  offline_after: PT3M
stops:
  source: csv
  path: stops.csv
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Network.Capacity)
	assert.Equal(t, -70.02, cfg.Network.CenterLongitude)
	assert.Equal(t, 2*time.Minute, cfg.Liveness.WaitingAfterDuration())
	assert.Equal(t, 3*time.Minute, cfg.Liveness.OfflineAfterDuration())
	assert.Equal(t, "csv", cfg.Stops.Source)
	assert.Equal(t, "Active", cfg.Stops.Filter)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fastroute.yaml")

	require.NoError(t, os.WriteFile(path, []byte("network:\n  capacity: 0\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("stops:\n  source: csv\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("liveness:\n  offline_after: soon\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FASTROUTE_NETWORK_CAPACITY", "16")
	t.Setenv("FASTROUTE_NETWORK_HALF_EXTENT", "0.2")
	t.Setenv("FASTROUTE_LIVENESS_OFFLINE_AFTER", "90s")
	t.Setenv("FASTROUTE_STOPS_SOURCE", "postgres")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Network.Capacity)
	assert.Equal(t, 0.2, cfg.Network.HalfExtentLatitude)
	assert.Equal(t, 0.2, cfg.Network.HalfExtentLongitude)
	assert.Equal(t, 90*time.Second, cfg.Liveness.OfflineAfterDuration())
	assert.Equal(t, "postgres", cfg.Stops.Source)
}

func TestEnvironmentOverrideMustParse(t *testing.T) {
	t.Setenv("FASTROUTE_COVERAGE_MAX_CELLS", "lots")

	_, err := Load("")
	assert.Error(t, err)
}
