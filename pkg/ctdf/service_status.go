package ctdf

import "time"

type ServiceStatus string

const (
	ServiceStatusActive  ServiceStatus = "ACTIVE"
	ServiceStatusWaiting ServiceStatus = "WAITING"
	ServiceStatusOffline ServiceStatus = "OFFLINE"
)

// VehicleStatus is the last known reporting state of a vehicle
type VehicleStatus struct {
	VehicleRef string        `json:"vehicle" groups:"basic"`
	Status     ServiceStatus `json:"status" groups:"basic"`

	LastLocation *Location `json:"last_location" groups:"basic"`

	LastMovement time.Time `json:"last_movement" groups:"basic"`
	LastUpdate   time.Time `json:"last_update" groups:"basic"`
}

// StatusTransition records a vehicle moving between statuses
type StatusTransition struct {
	VehicleRef string        `json:"vehicle"`
	From       ServiceStatus `json:"from"`
	To         ServiceStatus `json:"to"`
	Timestamp  time.Time     `json:"timestamp"`
}
