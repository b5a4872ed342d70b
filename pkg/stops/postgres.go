package stops

import (
	"context"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresStopsQuery = `SELECT id::text, name, lat, lon, seq, active FROM stops ORDER BY seq ASC`

type PostgresSource struct {
	Pool *pgxpool.Pool
}

func (s *PostgresSource) Stops(ctx context.Context) ([]*ctdf.Stop, error) {
	rows, err := s.Pool.Query(ctx, postgresStopsQuery)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*ctdf.Stop, error) {
		var stop ctdf.Stop
		var latitude, longitude float64

		if err := row.Scan(&stop.PrimaryIdentifier, &stop.PrimaryName, &latitude, &longitude, &stop.Sequence, &stop.Active); err != nil {
			return nil, err
		}
		stop.Location = ctdf.NewPoint(latitude, longitude)

		return &stop, nil
	})
}
