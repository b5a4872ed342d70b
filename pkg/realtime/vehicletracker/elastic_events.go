package vehicletracker

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/elastic_client"
	"github.com/rs/zerolog/log"
)

type StatusTransitionElasticEvent struct {
	ctdf.StatusTransition

	Latitude  float64 `json:"lat,omitempty"`
	Longitude float64 `json:"lon,omitempty"`
}

func statusEventsIndexName(transition ctdf.StatusTransition) string {
	yearNumber, weekNumber := transition.Timestamp.ISOWeek()
	return fmt.Sprintf("vehicle-status-events-%d-%d", yearNumber, weekNumber)
}

func indexTransition(transition ctdf.StatusTransition, location *ctdf.Location) {
	event := StatusTransitionElasticEvent{StatusTransition: transition}
	if location != nil {
		event.Latitude = location.Latitude()
		event.Longitude = location.Longitude()
	}

	encoded, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode status transition")
		return
	}

	elastic_client.IndexRequest(statusEventsIndexName(transition), bytes.NewReader(encoded))
}
