package stops

import (
	"context"
	"strings"
	"testing"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stopsCSV = `id,name,lat,lon,seq,active
c3,Plaza de Armas,-15.8402,-70.0219,3,true
a1,Terminal Terrestre,-15.8290,-70.0160,1,true
b2,Mercado Bellavista,-15.8350,-70.0190,2,false
d4,Puerto Muelle,-15.8360,-70.0125,4,true
`

func TestParseCSV(t *testing.T) {
	stops, err := ParseCSV(strings.NewReader(stopsCSV))
	require.NoError(t, err)
	require.Len(t, stops, 4)

	assert.Equal(t, "c3", stops[0].PrimaryIdentifier)
	assert.Equal(t, "Plaza de Armas", stops[0].PrimaryName)
	assert.Equal(t, -15.8402, stops[0].Location.Latitude())
	assert.Equal(t, -70.0219, stops[0].Location.Longitude())
	assert.Equal(t, 3, stops[0].Sequence)
	assert.True(t, stops[0].Active)
	assert.False(t, stops[2].Active)
}

func TestParseCSVToleratesLooseRows(t *testing.T) {
	loose := "id, name, lat, lon, seq, active\na1, Terminal Terrestre, -15.8290, -70.0160, 1, true, extra\n"

	stops, err := ParseCSV(strings.NewReader(loose))
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "Terminal Terrestre", stops[0].PrimaryName)

	// the reader options stay local to ParseCSV
	var records []*stopRecord
	assert.Error(t, gocsv.Unmarshal(strings.NewReader(loose), &records))
}

func TestParseYAML(t *testing.T) {
	stops, err := ParseYAML(strings.NewReader(`
stops:
  - id: a1
    name: Terminal Terrestre
    lat: -15.829
    lon: -70.016
    seq: 1
    active: true
`))
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "Terminal Terrestre", stops[0].PrimaryName)
	assert.Equal(t, -70.016, stops[0].Location.Longitude())
}

func TestLoadFiltersAndSorts(t *testing.T) {
	parsed, err := ParseCSV(strings.NewReader(stopsCSV))
	require.NoError(t, err)

	stops, err := Load(context.Background(), StaticSource(parsed), "Active")
	require.NoError(t, err)

	var ids []string
	for _, stop := range stops {
		ids = append(ids, stop.PrimaryIdentifier)
	}
	assert.Equal(t, []string{"a1", "c3", "d4"}, ids)

	// source slice is untouched
	assert.Len(t, parsed, 4)
}

func TestLoadWithoutFilter(t *testing.T) {
	parsed, err := ParseCSV(strings.NewReader(stopsCSV))
	require.NoError(t, err)

	stops, err := Load(context.Background(), StaticSource(parsed), "")
	require.NoError(t, err)
	assert.Len(t, stops, 4)
	assert.Equal(t, "a1", stops[0].PrimaryIdentifier)
}

func TestLoadDropsStopsWithoutLocation(t *testing.T) {
	source := StaticSource{
		{PrimaryIdentifier: "a", Location: ctdf.NewPoint(1, 1), Active: true},
		{PrimaryIdentifier: "b", Active: true},
		{PrimaryIdentifier: "c", Location: &ctdf.Location{Type: "Point"}, Active: true},
	}

	stops, err := Load(context.Background(), source, "Active")
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "a", stops[0].PrimaryIdentifier)
}

func TestFilterExpressions(t *testing.T) {
	stop := &ctdf.Stop{PrimaryName: "Puerto Muelle", Sequence: 4, Active: true}

	tests := []struct {
		expression string
		want       bool
	}{
		{"Active", true},
		{"!Active", false},
		{"Sequence < 3", false},
		{`PrimaryName contains "Muelle"`, true},
		{`Active && PrimaryName startsWith "Plaza"`, false},
	}

	for _, test := range tests {
		t.Run(test.expression, func(t *testing.T) {
			filter, err := NewFilter(test.expression)
			require.NoError(t, err)

			match, err := filter.Match(stop)
			require.NoError(t, err)
			assert.Equal(t, test.want, match)
		})
	}
}

func TestFilterRejectsBadExpressions(t *testing.T) {
	_, err := NewFilter("Sequence +")
	assert.Error(t, err)

	_, err = NewFilter("Sequence")
	assert.Error(t, err)

	_, err = Load(context.Background(), StaticSource{}, "Unknown == 1")
	assert.Error(t, err)
}

func TestNewSourceFiles(t *testing.T) {
	source, err := NewSource("csv", "stops.csv")
	require.NoError(t, err)
	assert.Equal(t, &CSVSource{Path: "stops.csv"}, source)

	source, err = NewSource("yaml", "stops.yaml")
	require.NoError(t, err)
	assert.Equal(t, &YAMLSource{Path: "stops.yaml"}, source)

	_, err = NewSource("sqlite", "")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
