package vehicletracker

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/fastroute/fastroute/pkg/ctdf"
)

// Publisher hands position reports to the tracker, either through the queue or in process
type Publisher interface {
	Publish(ctx context.Context, event *ctdf.VehicleLocationEvent) error
}

type QueuePublisher struct {
	Queue rmq.Queue
}

func (p *QueuePublisher) Publish(_ context.Context, event *ctdf.VehicleLocationEvent) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}

	encoded, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Queue.PublishBytes(encoded)
}

type DirectPublisher struct {
	Tracker *Tracker
}

func (p *DirectPublisher) Publish(ctx context.Context, event *ctdf.VehicleLocationEvent) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}

	p.Tracker.Track(ctx, event)

	return nil
}
