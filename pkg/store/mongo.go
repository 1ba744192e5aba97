// Package store persists conversion artifacts in external databases.
//
// A store is just another Sink from the pipeline's point of view: the HTTP
// service wires one in when artifacts should outlive the process instead of
// landing on the local filesystem.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/svgembed/svgembed/pkg/convert"
)

// Artifact is the stored document shape.
type Artifact struct {
	Name      string    `bson:"name"`
	Content   string    `bson:"content"`
	Size      int       `bson:"size"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoSink writes SVG artifacts into a MongoDB collection, upserting on
// the artifact name so repeated conversions replace earlier documents.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoOptions configures a Mongo-backed artifact store.
type MongoOptions struct {
	URI        string // connection string, e.g. "mongodb://localhost:27017"
	Database   string // defaults to "svgembed"
	Collection string // defaults to "artifacts"
}

// NewMongoSink connects to MongoDB and verifies the connection with a ping.
func NewMongoSink(ctx context.Context, opts MongoOptions) (*MongoSink, error) {
	if opts.Database == "" {
		opts.Database = "svgembed"
	}
	if opts.Collection == "" {
		opts.Collection = "artifacts"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoSink{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// Write upserts the artifact under its name.
func (s *MongoSink) Write(ctx context.Context, name, content string) error {
	artifact := Artifact{
		Name:      name,
		Content:   content,
		Size:      len(content),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": artifact},
		options.Update().SetUpsert(true),
	)
	return err
}

// Get retrieves a previously written artifact by name.
func (s *MongoSink) Get(ctx context.Context, name string) (*Artifact, error) {
	var artifact Artifact
	if err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Close disconnects from MongoDB.
func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoSink implements the write capability.
var _ convert.Sink = (*MongoSink)(nil)
