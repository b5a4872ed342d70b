package vehicletracker

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

type BatchConsumer struct {
	tracker *Tracker
}

func NewBatchConsumer(tracker *Tracker) *BatchConsumer {
	return &BatchConsumer{tracker: tracker}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	accepted := consumer.ProcessPayloads(context.Background(), batch.Payloads())

	for i, delivery := range batch {
		var err error
		if accepted[i] {
			err = delivery.Ack()
		} else {
			err = delivery.Reject()
		}

		if err != nil {
			log.Error().Err(err).Msg("Failed to acknowledge position event")
		}
	}
}

// ProcessPayloads decodes and tracks every valid payload, reporting which ones were accepted
func (consumer *BatchConsumer) ProcessPayloads(ctx context.Context, payloads []string) []bool {
	accepted := make([]bool, len(payloads))
	events := make([]*ctdf.VehicleLocationEvent, 0, len(payloads))

	for i, payload := range payloads {
		var event ctdf.VehicleLocationEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode position event")
			continue
		}

		if err := ValidateEvent(&event); err != nil {
			log.Warn().Err(err).Str("vehicle", event.VehicleRef).Msg("Rejecting position event")
			continue
		}

		accepted[i] = true
		events = append(events, &event)
	}

	consumer.tracker.Process(ctx, events)

	return accepted
}
