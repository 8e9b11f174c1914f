// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the escrow ledger's group documents: stake requirements,
// deadlines, pooled totals, and the settlement flag. Groups are never
// deleted, only deactivated at settlement.
type Store struct {
	c        *mongo.Collection
	counters *mongo.Collection
	settings *mongo.Collection
}

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrGroupInactive  = errors.New("group is not active")
	ErrAlreadySettled = errors.New("group already settled")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("groups"),
		counters: db.Collection("counters"),
		settings: db.Collection("platform_settings"),
	}
}

// nextGroupID increments and returns the group id counter.
func (s *Store) nextGroupID(ctx context.Context) (uint64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var doc struct {
		Seq uint64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "group_id"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// Create assigns the next sequential id and inserts the group with the
// creator's stake as the initial pool.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	id, err := s.nextGroupID(ctx)
	if err != nil {
		return models.Group{}, err
	}

	now := time.Now().UTC()
	g.GroupID = id
	g.NameCI = text.Fold(g.Name)
	g.TotalStaked = g.StakeAmount
	g.IsActive = true
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, groupID uint64) (models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, ErrGroupNotFound
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// List returns groups, newest first. When activeOnly is set, settled and
// deactivated groups are excluded.
func (s *Store) List(ctx context.Context, activeOnly bool, limit int64) ([]models.Group, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "group_id", Value: -1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// AddStake adds a joining member's stake to the pooled total. The total read
// is part of the update filter, so two concurrent joins cannot overwrite each
// other's stake; losing the race rereads and retries.
func (s *Store) AddStake(ctx context.Context, groupID uint64, amount decimal.Decimal) error {
	for {
		g, err := s.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		total, err := decimal.NewFromString(g.TotalStaked)
		if err != nil {
			return err
		}
		res, err := s.c.UpdateOne(ctx,
			bson.M{"group_id": groupID, "total_staked": g.TotalStaked},
			bson.M{"$set": bson.M{
				"total_staked": total.Add(amount).String(),
				"updated_at":   time.Now().UTC(),
			}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
	}
}

// MarkSettled records the settlement outcome and deactivates the group. The
// filter requires the group to still be unsettled, so a racing second
// settlement call loses here even if it read the group before the first one
// wrote.
func (s *Store) MarkSettled(ctx context.Context, groupID uint64, totalReward decimal.Decimal, completers uint32) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "settled_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{
			"settled_at":   now,
			"total_reward": totalReward.String(),
			"completers":   completers,
			"is_active":    false,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAlreadySettled
	}
	return nil
}

/* ------------------------- platform settings ------------------------- */

// Settings returns the singleton platform settings document, falling back to
// defaults when nothing has been written yet.
func (s *Store) Settings(ctx context.Context) (models.PlatformSettings, error) {
	var ps models.PlatformSettings
	err := s.settings.FindOne(ctx, bson.M{"_id": "platform"}).Decode(&ps)
	if err == mongo.ErrNoDocuments {
		return models.PlatformSettings{FeeBps: 250}, nil
	}
	if err != nil {
		return models.PlatformSettings{}, err
	}
	return ps, nil
}

// UpdateFee sets the platform fee in basis points.
func (s *Store) UpdateFee(ctx context.Context, feeBps uint32) error {
	return s.upsertSettings(ctx, bson.M{"fee_bps": feeBps})
}

// SetPaused toggles the platform-wide pause switch.
func (s *Store) SetPaused(ctx context.Context, paused bool) error {
	return s.upsertSettings(ctx, bson.M{"paused": paused})
}

func (s *Store) upsertSettings(ctx context.Context, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	_, err := s.settings.UpdateOne(ctx,
		bson.M{"_id": "platform"},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	return err
}
