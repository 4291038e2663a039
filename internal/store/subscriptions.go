package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// upsertedID decodes the _id of an upserted-or-updated document.
type upsertedID struct {
	ID primitive.ObjectID `bson:"_id"`
}

// UpsertNewsletter records a newsletter signup keyed by email. A repeat
// signup updates the existing document in place, so there is exactly one
// document per address. Returns the document ID.
func (s *Store) UpsertNewsletter(ctx context.Context, email, name, source string) (string, error) {
	now := s.now().UTC()

	set := bson.M{"updatedAt": now}
	if name != "" {
		set["name"] = name
	}

	if source != "" {
		set["source"] = source
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"email":        email,
			"subscribedAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 1})

	var doc upsertedID
	if err := s.newsletter().FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&doc); err != nil {
		return "", fmt.Errorf("upserting newsletter subscription: %w", err)
	}

	return doc.ID.Hex(), nil
}

// UpsertWaitlist records a waitlist signup keyed by (email, product). A
// repeat signup for the same product updates the existing document in place.
// Returns the document ID.
func (s *Store) UpsertWaitlist(ctx context.Context, email, product, name, feature string) (string, error) {
	now := s.now().UTC()

	set := bson.M{"updatedAt": now}
	if name != "" {
		set["name"] = name
	}

	if feature != "" {
		set["feature"] = feature
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"email":     email,
			"product":   product,
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 1})

	filter := bson.M{"email": email, "product": product}

	var doc upsertedID
	if err := s.waitlist().FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return "", fmt.Errorf("upserting waitlist entry: %w", err)
	}

	return doc.ID.Hex(), nil
}
