package network

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fastroute/fastroute/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stops.csv")
	require.NoError(t, os.WriteFile(path, []byte(`id,name,lat,lon,seq,active
plaza,Plaza de Armas,-15.8402,-70.0219,2,true
terminal,Terminal Terrestre,-15.8290,-70.0160,1,true
closed,Paradero Cerrado,-15.8350,-70.0190,3,false
`), 0o600))

	cfg := config.Default()
	cfg.Stops.Source = "csv"
	cfg.Stops.Path = path

	network, err := Load(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, network.Stops(), 2)
	assert.Equal(t, "terminal", network.Stops()[0].PrimaryIdentifier)
	assert.True(t, network.ShortestPath("terminal", "plaza").Reachable())
	assert.Equal(t, 2, network.Graph().NodeCount())
}
