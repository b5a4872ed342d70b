package api

import (
	"context"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/realtime/liveness"
)

// classifierStatuses serves vehicle statuses straight from an in process classifier
type classifierStatuses struct {
	classifier *liveness.Classifier
}

func (s *classifierStatuses) Get(_ context.Context, vehicleRef string) (*ctdf.VehicleStatus, bool, error) {
	status, found := s.classifier.VehicleStatus(vehicleRef)
	return status, found, nil
}

func (s *classifierStatuses) List(_ context.Context) ([]*ctdf.VehicleStatus, error) {
	return s.classifier.Snapshot(), nil
}
