package stops

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/util"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

var ErrUnknownSource = errors.New("unknown stop source")

// Source provides the stop records of a route
type Source interface {
	Stops(ctx context.Context) ([]*ctdf.Stop, error)
}

// Load fetches stops from the source, drops the ones rejected by the filter expression
// and orders the rest by sequence
func Load(ctx context.Context, source Source, filterExpression string) ([]*ctdf.Stop, error) {
	stops, err := source.Stops(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := NewFilter(filterExpression)
	if err != nil {
		return nil, err
	}

	fetched := len(stops)
	var filterErr error
	util.InPlaceFilter(&stops, func(stop *ctdf.Stop) bool {
		if stop == nil || stop.Location == nil || !stop.Location.Valid() {
			log.Warn().Interface("stop", stop).Msg("Skipping stop without a valid location")
			return false
		}

		keep, err := filter.Match(stop)
		if err != nil && filterErr == nil {
			filterErr = fmt.Errorf("filtering stop %s: %w", stop.PrimaryIdentifier, err)
		}
		return keep
	})
	if filterErr != nil {
		return nil, filterErr
	}

	slices.SortStableFunc(stops, func(a, b *ctdf.Stop) int {
		return a.Sequence - b.Sequence
	})

	log.Info().Int("fetched", fetched).Int("kept", len(stops)).Msg("Loaded stops")

	return stops, nil
}
