// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the append-only emitted-event log. Events are never updated or
// deleted; external observers (the presentation client included) reconstruct
// history from this collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Append records an emitted event. The timestamp is set here if the caller
// left it zero.
func (s *Store) Append(ctx context.Context, ev models.Event) error {
	if ev.ID.IsZero() {
		ev.ID = primitive.NewObjectID()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, ev)
	return err
}

// ListByGroup returns the newest events for a group, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID uint64, limit int64) ([]models.Event, error) {
	return s.list(ctx, bson.M{"group_id": groupID}, limit)
}

// ListByAddress returns the newest events touching an address, newest first.
// This backs the client's recent-activity feed.
func (s *Store) ListByAddress(ctx context.Context, address string, limit int64) ([]models.Event, error) {
	return s.list(ctx, bson.M{"address": address}, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, limit int64) ([]models.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
