package stops

import (
	"fmt"

	"github.com/fastroute/fastroute/pkg/database"
)

// NewSource connects the backing store for the named source kind
func NewSource(kind string, path string) (Source, error) {
	switch kind {
	case "mongodb":
		if err := database.ConnectMongoDB(); err != nil {
			return nil, err
		}
		return &MongoSource{Collection: database.GetCollection("stops")}, nil
	case "postgres":
		if err := database.ConnectPostgres(); err != nil {
			return nil, err
		}
		return &PostgresSource{Pool: database.PostgresPool}, nil
	case "csv":
		return &CSVSource{Path: path}, nil
	case "yaml":
		return &YAMLSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownSource)
	}
}
