// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store owns the (group, member) membership records: goal text, staked
// amount, submitted proof, and settlement/claim bookkeeping. One document
// per (group_id, member), enforced by a unique index.
type Store struct {
	c *mongo.Collection
}

var (
	ErrAlreadyMember  = errors.New("already a member")
	ErrNotMember      = errors.New("not a group member")
	ErrAlreadyClaimed = errors.New("milestone reward already claimed")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_memberships")}
}

// Add inserts a membership. A duplicate (group, member) pair is rejected.
func (s *Store) Add(ctx context.Context, m models.Membership) error {
	now := time.Now().UTC()
	m.JoinedAt = now
	m.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, m)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, groupID uint64, member string) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "member": member}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Membership{}, ErrNotMember
	}
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// IsMember reports whether the address has joined the group.
func (s *Store) IsMember(ctx context.Context, groupID uint64, member string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "member": member})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByGroup returns all memberships of a group in join order.
func (s *Store) ListByGroup(ctx context.Context, groupID uint64) ([]models.Membership, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	var members []models.Membership
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListByMember returns every membership an address holds, newest first.
func (s *Store) ListByMember(ctx context.Context, member string) ([]models.Membership, error) {
	cur, err := s.c.Find(ctx, bson.M{"member": member})
	if err != nil {
		return nil, err
	}
	var memberships []models.Membership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountByGroup returns the group's member count.
func (s *Store) CountByGroup(ctx context.Context, groupID uint64) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// SetProof records the submitted proof hash on the membership.
func (s *Store) SetProof(ctx context.Context, groupID uint64, member, proofHash string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "member": member},
		bson.M{"$set": bson.M{"proof_hash": proofHash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMember
	}
	return nil
}

// MarkCompleted records a settlement payout on the membership.
func (s *Store) MarkCompleted(ctx context.Context, groupID uint64, member string, payout decimal.Decimal) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "member": member},
		bson.M{"$set": bson.M{
			"has_completed": true,
			"payout":        payout.String(),
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMember
	}
	return nil
}

// ClaimMilestone records a milestone-reward claim. The filter excludes
// memberships that already claimed this index, so the first claim wins and
// every later one fails with ErrAlreadyClaimed.
func (s *Store) ClaimMilestone(ctx context.Context, groupID uint64, member string, index uint32) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"group_id":           groupID,
			"member":             member,
			"claimed_milestones": bson.M{"$ne": index},
		},
		bson.M{
			"$addToSet": bson.M{"claimed_milestones": index},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either not a member or already claimed; disambiguate for the caller.
		if ok, err := s.IsMember(ctx, groupID, member); err != nil {
			return err
		} else if !ok {
			return ErrNotMember
		}
		return ErrAlreadyClaimed
	}
	return nil
}
