package ctdf

import "time"

// VehicleLocationEvent is a single position report from a vehicle device
type VehicleLocationEvent struct {
	VehicleRef string `json:"vehicle" groups:"basic"`

	VehicleLocation Location `json:"location" groups:"basic"`

	// RecordedAt is the arrival time on the receiving server and drives the liveness clock
	RecordedAt time.Time `json:"recorded_at" groups:"detailed"`
	// ReportedAt is the sender's own timestamp, informational only
	ReportedAt *time.Time `json:"reported_at,omitempty" groups:"detailed"`
	Source     string     `json:"source" groups:"internal"`
}
