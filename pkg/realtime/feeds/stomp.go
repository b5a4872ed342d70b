package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/realtime/vehicletracker"
	"github.com/go-stomp/stomp/v3"
	"github.com/rs/zerolog/log"
)

// StompClient subscribes to a broker destination carrying JSON position reports
type StompClient struct {
	Address     string
	Username    string
	Password    string
	Destination string

	Publisher vehicletracker.Publisher
}

func (s *StompClient) Run(ctx context.Context) error {
	var stompOptions []func(*stomp.Conn) error
	if s.Username != "" {
		stompOptions = append(stompOptions, stomp.ConnOpt.Login(s.Username, s.Password))
	}

	conn, err := stomp.Dial("tcp", s.Address, stompOptions...)
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %w", s.Address, err)
	}
	defer conn.Disconnect()

	sub, err := conn.Subscribe(s.Destination, stomp.AckAuto)
	if err != nil {
		return fmt.Errorf("cannot subscribe to %s: %w", s.Destination, err)
	}
	defer sub.Unsubscribe()

	log.Info().Str("address", s.Address).Str("destination", s.Destination).Msg("Subscribed to position reports")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.C:
			if !ok {
				return fmt.Errorf("subscription to %s closed", s.Destination)
			}
			if msg.Err != nil {
				return msg.Err
			}

			event, err := DecodePositionMessage(msg.Body, time.Now())
			if err != nil {
				log.Warn().Err(err).Msg("Dropping position message")
				continue
			}

			if err := s.Publisher.Publish(ctx, event); err != nil {
				log.Error().Err(err).Str("vehicle", event.VehicleRef).Msg("Failed to publish position")
			}
		}
	}
}

func DecodePositionMessage(body []byte, arrival time.Time) (*ctdf.VehicleLocationEvent, error) {
	var report vehicletracker.PositionReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, err
	}

	return report.ToEvent(arrival, "stomp")
}
