package vehicletracker

import (
	"errors"
	"time"

	"github.com/fastroute/fastroute/pkg/ctdf"
)

var ErrMissingCoordinates = errors.New("lat and lon are required")

// PositionReport is the body a vehicle device sends every few seconds
type PositionReport struct {
	Vehicle   string   `json:"vehicle"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
	// Unix seconds on the device clock, kept as ReportedAt
	Timestamp *int64 `json:"timestamp,omitempty"`
}

func (r *PositionReport) ToEvent(arrival time.Time, source string) (*ctdf.VehicleLocationEvent, error) {
	if r.Latitude == nil || r.Longitude == nil {
		return nil, ErrMissingCoordinates
	}

	event := &ctdf.VehicleLocationEvent{
		VehicleRef:      r.Vehicle,
		VehicleLocation: *ctdf.NewPoint(*r.Latitude, *r.Longitude),
		RecordedAt:      arrival,
		Source:          source,
	}

	if r.Timestamp != nil {
		reportedAt := time.Unix(*r.Timestamp, 0)
		event.ReportedAt = &reportedAt
	}

	if err := ValidateEvent(event); err != nil {
		return nil, err
	}

	return event, nil
}
