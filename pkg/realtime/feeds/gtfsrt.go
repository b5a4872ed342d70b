package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/realtime/vehicletracker"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/proto"
)

// GTFSRealtimePoller reads a GTFS-RT VehiclePositions feed on an interval and publishes every position
type GTFSRealtimePoller struct {
	URL      string
	Interval time.Duration
	// Positions older than MaxAge are skipped, zero keeps everything
	MaxAge time.Duration

	Publisher vehicletracker.Publisher
	Client    *http.Client
}

func (p *GTFSRealtimePoller) Run(ctx context.Context) error {
	if p.Client == nil {
		p.Client = &http.Client{Timeout: 30 * time.Second}
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		if err := p.Poll(ctx); err != nil {
			log.Error().Err(err).Str("url", p.URL).Msg("Failed to poll GTFS-RT feed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *GTFSRealtimePoller) Poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	events, err := ParseVehiclePositions(body, time.Now(), p.MaxAge)
	if err != nil {
		return err
	}

	published := 0
	for _, event := range events {
		if err := p.Publisher.Publish(ctx, event); err != nil {
			log.Warn().Err(err).Str("vehicle", event.VehicleRef).Msg("Failed to publish GTFS-RT position")
			continue
		}
		published++
	}

	log.Info().Int("entities", len(events)).Int("published", published).Msg("Polled GTFS-RT feed")

	return nil
}

// ParseVehiclePositions turns the vehicle entities of a feed message into position events
func ParseVehiclePositions(body []byte, now time.Time, maxAge time.Duration) ([]*ctdf.VehicleLocationEvent, error) {
	feed := gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing GTFS-RT protobuf: %w", err)
	}

	var events []*ctdf.VehicleLocationEvent

	for _, entity := range feed.Entity {
		vehiclePosition := entity.GetVehicle()
		if vehiclePosition == nil || vehiclePosition.GetPosition() == nil {
			continue
		}

		vehicleRef := vehiclePosition.GetVehicle().GetId()
		if vehicleRef == "" {
			vehicleRef = entity.GetId()
		}

		var reportedAt *time.Time
		if vehiclePosition.Timestamp != nil {
			feedTime := time.Unix(int64(vehiclePosition.GetTimestamp()), 0)
			if maxAge > 0 && now.Sub(feedTime) > maxAge {
				continue
			}

			reportedAt = &feedTime
		}

		position := vehiclePosition.GetPosition()
		events = append(events, &ctdf.VehicleLocationEvent{
			VehicleRef:      vehicleRef,
			VehicleLocation: *ctdf.NewPoint(float64(position.GetLatitude()), float64(position.GetLongitude())),
			RecordedAt:      now,
			ReportedAt:      reportedAt,
			Source:          "gtfs-rt",
		})
	}

	return events, nil
}
