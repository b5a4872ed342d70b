package stops

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

type stopRecord struct {
	ID        string  `csv:"id" yaml:"id"`
	Name      string  `csv:"name" yaml:"name"`
	Latitude  float64 `csv:"lat" yaml:"lat"`
	Longitude float64 `csv:"lon" yaml:"lon"`
	Sequence  int     `csv:"seq" yaml:"seq"`
	Active    bool    `csv:"active" yaml:"active"`
}

func (r *stopRecord) toStop() *ctdf.Stop {
	return &ctdf.Stop{
		PrimaryIdentifier: r.ID,
		PrimaryName:       r.Name,
		Location:          ctdf.NewPoint(r.Latitude, r.Longitude),
		Sequence:          r.Sequence,
		Active:            r.Active,
	}
}

func toStops(records []*stopRecord) []*ctdf.Stop {
	stops := make([]*ctdf.Stop, 0, len(records))
	for _, record := range records {
		stops = append(stops, record.toStop())
	}

	return stops
}

// CSVSource reads a header row of id,name,lat,lon,seq,active
type CSVSource struct {
	Path string
}

func (s *CSVSource) Stops(_ context.Context) ([]*ctdf.Stop, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseCSV(file)
}

func ParseCSV(reader io.Reader) ([]*ctdf.Stop, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	var records []*stopRecord
	if err := gocsv.UnmarshalCSV(csvReader, &records); err != nil {
		return nil, err
	}

	return toStops(records), nil
}

type YAMLSource struct {
	Path string
}

func (s *YAMLSource) Stops(_ context.Context) ([]*ctdf.Stop, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseYAML(file)
}

func ParseYAML(reader io.Reader) ([]*ctdf.Stop, error) {
	var document struct {
		Stops []*stopRecord `yaml:"stops"`
	}

	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&document); err != nil {
		return nil, err
	}

	return toStops(document.Stops), nil
}

// StaticSource serves a fixed set of stops
type StaticSource []*ctdf.Stop

func (s StaticSource) Stops(_ context.Context) ([]*ctdf.Stop, error) {
	stops := make([]*ctdf.Stop, len(s))
	copy(stops, s)

	return stops, nil
}
