package stops

import (
	"context"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSource struct {
	Collection *mongo.Collection
}

func (s *MongoSource) Stops(ctx context.Context) ([]*ctdf.Stop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := s.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var stops []*ctdf.Stop
	if err := cursor.All(ctx, &stops); err != nil {
		return nil, err
	}

	return stops, nil
}
