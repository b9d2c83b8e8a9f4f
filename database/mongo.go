package database

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	itinerariesCollection = "itineraries"
	apiKeysCollection     = "userApiKeys"
)

// Mongo is the document store behind saved itineraries and the per-user
// credential mirror. A nil *Mongo is the valid "persistence not
// configured" mode: the app generates itineraries without it.
type Mongo struct {
	client      *mongo.Client
	itineraries *mongo.Collection
	apiKeys     *mongo.Collection
}

// Connect opens the document store. An empty URI returns (nil, nil): the
// caller runs without persistence.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	if uri == "" {
		log.Warn("MONGO_URI not set, running without persistence")
		return nil, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	log.WithField("database", dbName).Info("document store connected")
	return &Mongo{
		client:      client,
		itineraries: db.Collection(itinerariesCollection),
		apiKeys:     db.Collection(apiKeysCollection),
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

// Ping reports store health for the liveness endpoint.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.client.Ping(ctx, nil)
}
