package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens and pings a MongoDB connection. The returned
// database handle is passed to the repositories; main owns its
// lifecycle and disconnects the client on shutdown.
func ConnectMongo(ctx context.Context, uri, name string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	return client.Database(name), nil
}

// MongoProbe reports MongoDB liveness for the status endpoint.
type MongoProbe struct {
	Client *mongo.Client
}

func (p MongoProbe) Alive(ctx context.Context) bool {
	return p.Client.Ping(ctx, nil) == nil
}
