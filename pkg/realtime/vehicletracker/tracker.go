package vehicletracker

import (
	"context"
	"errors"
	"time"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/metrics"
	"github.com/fastroute/fastroute/pkg/realtime/liveness"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

var ErrMissingVehicle = errors.New("vehicle reference is required")
var ErrInvalidLocation = errors.New("vehicle location is not a valid coordinate")

type StatusWriter interface {
	Put(ctx context.Context, status *ctdf.VehicleStatus) error
}

// Tracker feeds position reports through the liveness classifier and publishes the resulting statuses
type Tracker struct {
	classifier *liveness.Classifier
	store      StatusWriter
	workers    int
}

func NewTracker(classifier *liveness.Classifier, store StatusWriter, workers int) *Tracker {
	if workers <= 0 {
		workers = 1
	}

	tracker := &Tracker{
		classifier: classifier,
		store:      store,
		workers:    workers,
	}
	classifier.OnTransition(tracker.handleTransition)
	classifier.OnUpdate(tracker.writeStatus)

	return tracker
}

func (t *Tracker) Classifier() *liveness.Classifier {
	return t.classifier
}

func ValidateEvent(event *ctdf.VehicleLocationEvent) error {
	if event.VehicleRef == "" {
		return ErrMissingVehicle
	}
	if !event.VehicleLocation.Valid() {
		return ErrInvalidLocation
	}

	return nil
}

// Track classifies a single validated event
func (t *Tracker) Track(ctx context.Context, event *ctdf.VehicleLocationEvent) ctdf.ServiceStatus {
	// RecordedAt is the arrival time; a missing or future stamp falls back to this clock
	recordedAt := event.RecordedAt
	if now := time.Now(); recordedAt.IsZero() || recordedAt.After(now) {
		recordedAt = now
	}

	source := event.Source
	if source == "" {
		source = "unknown"
	}
	metrics.PositionReports.WithLabelValues(source).Inc()

	return t.classifier.Classify(
		event.VehicleRef,
		event.VehicleLocation.Latitude(),
		event.VehicleLocation.Longitude(),
		recordedAt,
	)
}

// Process tracks a batch of events. Events for one vehicle are applied in order while
// different vehicles are classified concurrently.
func (t *Tracker) Process(ctx context.Context, events []*ctdf.VehicleLocationEvent) {
	startTime := time.Now()

	grouped := map[string][]*ctdf.VehicleLocationEvent{}
	var order []string
	for _, event := range events {
		if _, exists := grouped[event.VehicleRef]; !exists {
			order = append(order, event.VehicleRef)
		}
		grouped[event.VehicleRef] = append(grouped[event.VehicleRef], event)
	}

	p := pool.New().WithMaxGoroutines(t.workers)
	for _, vehicleRef := range order {
		vehicleEvents := grouped[vehicleRef]

		p.Go(func() {
			for _, event := range vehicleEvents {
				t.Track(ctx, event)
			}
		})
	}
	p.Wait()

	metrics.BatchDurationMs.Observe(float64(time.Since(startTime).Milliseconds()))

	log.Debug().
		Int("events", len(events)).
		Int("vehicles", len(order)).
		Str("Time", time.Since(startTime).String()).
		Msg("Processed position batch")
}

// writeStatus runs under the vehicle's classifier lock so stored statuses never go backwards
func (t *Tracker) writeStatus(status *ctdf.VehicleStatus) {
	if t.store == nil {
		return
	}

	if err := t.store.Put(context.Background(), status); err != nil {
		log.Error().Err(err).Str("vehicle", status.VehicleRef).Msg("Failed to store vehicle status")
	}
}

func (t *Tracker) handleTransition(transition ctdf.StatusTransition, status *ctdf.VehicleStatus) {
	indexTransition(transition, status.LastLocation)
}
