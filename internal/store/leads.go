package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m4r13y/hawkins-ig-sub001/internal/lead"
)

// maxNotesRetained bounds the append-only note history on a lead document.
const maxNotesRetained = 200

// InsertLead persists a new lead with a server-assigned timestamp and returns
// the generated document ID, which becomes the lead identifier returned to
// the caller.
func (s *Store) InsertLead(ctx context.Context, l *lead.Lead) (string, error) {
	l.ID = primitive.NewObjectID()
	l.CreatedAt = s.now().UTC()

	if _, err := s.leads().InsertOne(ctx, l); err != nil {
		return "", fmt.Errorf("inserting lead: %w", err)
	}

	return l.ID.Hex(), nil
}

// GetLead fetches one lead by its hex document ID.
func (s *Store) GetLead(ctx context.Context, id string) (*lead.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc lead.Lead
	if err := s.leads().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("fetching lead: %w", err)
	}

	return &doc, nil
}

// SetStatus updates a lead's lifecycle status and records who changed it.
func (s *Store) SetStatus(ctx context.Context, id, status, actor string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := s.leads().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"submission.leadStatus":      status,
			"submission.statusUpdatedBy": actor,
			"submission.lastContactDate": s.now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("updating lead status: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendNote appends one note to the lead's history. Prior notes are never
// edited or removed; the history is capped at the most recent
// maxNotesRetained entries.
func (s *Store) AppendNote(ctx context.Context, id string, note lead.Note) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := s.leads().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{
			"submission.notes": bson.M{
				"$each":  []lead.Note{note},
				"$slice": -maxNotesRetained,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("appending lead note: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// ClaimForSync atomically takes the per-document sync claim. It succeeds only
// when the lead exists, is not yet synced, and no other attempt holds the
// claim, guaranteeing at most one in-flight CRM sync per lead.
func (s *Store) ClaimForSync(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	filter := bson.M{
		"_id":                         oid,
		"submission.agencyBlocSynced": false,
		"submission.syncInProgress":   bson.M{"$ne": true},
	}

	update := bson.M{
		"$set": bson.M{
			"submission.syncInProgress": true,
			"submission.syncClaimedAt":  s.now().UTC(),
		},
	}

	err = s.leads().FindOneAndUpdate(ctx, filter, update).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrClaimUnavailable
	}

	if err != nil {
		return fmt.Errorf("claiming lead for sync: %w", err)
	}

	return nil
}

// SetSyncResult records the outcome of a CRM sync attempt and releases the
// claim in the same write. An empty syncErr marks the lead synced; otherwise
// the error is recorded and the retry counter incremented.
func (s *Store) SetSyncResult(ctx context.Context, id, recordID, syncErr string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	now := s.now().UTC()

	var update bson.M
	if syncErr == "" {
		update = bson.M{
			"$set": bson.M{
				"submission.agencyBlocSynced":   true,
				"submission.agencyBlocRecordId": recordID,
				"submission.agencyBlocSyncDate": now,
				"submission.syncInProgress":     false,
			},
			"$unset": bson.M{
				"submission.agencyBlocSyncError": "",
			},
		}
	} else {
		update = bson.M{
			"$set": bson.M{
				"submission.agencyBlocSynced":    false,
				"submission.agencyBlocSyncError": syncErr,
				"submission.lastRetryAttempt":    now,
				"submission.syncInProgress":      false,
			},
			"$inc": bson.M{
				"submission.agencyBlocRetryCount": 1,
			},
		}
	}

	res, err := s.leads().UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("recording sync result: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// ListUnsynced returns up to limit leads still owing a CRM sync, oldest
// first. Leads with an active claim are skipped.
func (s *Store) ListUnsynced(ctx context.Context, limit int) ([]lead.Lead, error) {
	filter := bson.M{
		"submission.agencyBlocSynced": false,
		"submission.syncInProgress":   bson.M{"$ne": true},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date-time", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := s.leads().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing unsynced leads: %w", err)
	}
	defer cur.Close(ctx) //nolint:errcheck // cursor close error is non-critical

	var out []lead.Lead
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decoding unsynced leads: %w", err)
	}

	return out, nil
}

// ReleaseStaleClaims clears sync claims older than the cutoff so leads
// orphaned by a crashed sync attempt become retryable again. Returns the
// number of claims released.
func (s *Store) ReleaseStaleClaims(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-olderThan)

	res, err := s.leads().UpdateMany(ctx,
		bson.M{
			"submission.syncInProgress": true,
			"submission.syncClaimedAt":  bson.M{"$lt": cutoff},
		},
		bson.M{
			"$set": bson.M{"submission.syncInProgress": false},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("releasing stale sync claims: %w", err)
	}

	return res.ModifiedCount, nil
}
