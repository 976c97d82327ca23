// Package dbmongo holds the MongoDB connection and the GridFS bucket with listing photos.
package dbmongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusbingo/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	imageBucket    = "listing_images"
	appName        = "campusbingo-media"
	connectTimeout = 10 * time.Second
)

// MongoClient bundles the driver client with the photo bucket. The media server only reads.
type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
	GridFS   *gridfs.Bucket
}

func clientOptions(c *config.Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(c.GetMongoURI()).
		SetAppName(appName).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout).
		SetReadPreference(readpref.PrimaryPreferred())
}

// NewMongoConnection connects, verifies the server answers, and opens the listing photo bucket.
// A client that fails the ping is disconnected before returning.
func NewMongoConnection(c *config.Config, log *slog.Logger) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(c))
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.PrimaryPreferred()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb at %s:%s did not answer: %w", c.MongoDB.Host, c.MongoDB.Port, err)
	}

	db := client.Database(c.MongoDB.Database)
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(imageBucket))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to open bucket %s: %w", imageBucket, err)
	}

	log.Info("connected to MongoDB", "host", c.MongoDB.Host, "database", c.MongoDB.Database, "bucket", imageBucket)
	return &MongoClient{Client: client, Database: db, GridFS: bucket}, nil
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}
