// Package store implements MongoDB persistence for leads, newsletter
// subscriptions, and waitlist entries. Documents are never deleted; every
// mutation is an in-place update on a single document.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	leadsCollection      = "leads"
	newsletterCollection = "newsletter"
	waitlistCollection   = "waitlist"
)

// connectTimeout bounds the initial connection and ping.
const connectTimeout = 10 * time.Second

// Store wraps the MongoDB database holding all lead-intake collections.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	// now is overridable for tests.
	now func() time.Time
}

// Connect opens a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(dbName),
		now:    time.Now,
	}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) leads() *mongo.Collection {
	return s.db.Collection(leadsCollection)
}

func (s *Store) newsletter() *mongo.Collection {
	return s.db.Collection(newsletterCollection)
}

func (s *Store) waitlist() *mongo.Collection {
	return s.db.Collection(waitlistCollection)
}
