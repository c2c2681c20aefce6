// Package dbmongo owns the single MongoDB client the service shares across requests.
package dbmongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"contactdesk/internal/config"
)

type MongoClient struct {
	Client     *mongo.Client
	Database   *mongo.Database
	Submission *mongo.Collection
}

func ClientOptions(c *config.Config) *options.ClientOptions {
	timeout := time.Duration(c.MongoDB.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return options.Client().
		ApplyURI(c.GetMongoURI()).
		SetMaxPoolSize(10).
		SetMinPoolSize(5).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetSocketTimeout(45 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)
}

func NewMongoConnection(c *config.Config) (*MongoClient, error) {
	if c.GetMongoURI() == "" {
		return nil, fmt.Errorf("MONGODB_URI is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, ClientOptions(c))
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := client.Database(c.MongoDB.Database)
	mc := &MongoClient{
		Client:     client,
		Database:   database,
		Submission: database.Collection(c.MongoDB.Collection),
	}

	if err := EnsureIndexes(ctx, mc.Submission); err != nil {
		// the service still works without them, just slower
		log.Warn().Err(err).Msg("failed to create submission indexes")
	}

	log.Info().
		Str("uri", c.RedactedMongoURI()).
		Str("database", c.MongoDB.Database).
		Msg("connected to MongoDB")

	return mc, nil
}

// EnsureIndexes creates the indexes the list and stats queries rely on.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "read", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})
	return err
}

func (mc *MongoClient) Ping(ctx context.Context) error {
	return mc.Client.Ping(ctx, readpref.Primary())
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}
