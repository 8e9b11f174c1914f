// internal/app/store/milestones/milestonestore.go
package milestonestore

import (
	"context"
	"errors"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns milestone progress records keyed by (group, member, index) and
// the authorized-oracle allow list. Oracle progress updates are
// last-write-wins on Actual; the reached flag only ever latches on.
type Store struct {
	c       *mongo.Collection
	oracles *mongo.Collection
	sources *mongo.Collection
}

var (
	ErrMilestoneNotSet = errors.New("milestone not set")
	ErrZeroTarget      = errors.New("target must be greater than 0")
	ErrAlreadyReached  = errors.New("milestone already reached")
	ErrWrongType       = errors.New("wrong milestone type for this operation")
	ErrNotAuthorized   = errors.New("not authorized oracle")
	ErrLengthMismatch  = errors.New("members and actuals length mismatch")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("milestones"),
		oracles: db.Collection("authorized_oracles"),
		sources: db.Collection("oracle_addresses"),
	}
}

// Set creates or overwrites a milestone record, resetting progress.
func (s *Store) Set(ctx context.Context, m models.Milestone) error {
	if m.Target == 0 {
		return ErrZeroTarget
	}
	now := time.Now().UTC()
	m.Actual = 0
	m.IsReached = false
	m.ReachedAt = nil
	m.ProofHash = ""
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.c.ReplaceOne(ctx,
		bson.M{"group_id": m.GroupID, "member": m.Member, "index": m.Index},
		m,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *Store) Get(ctx context.Context, groupID uint64, member string, index uint32) (models.Milestone, error) {
	var m models.Milestone
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "member": member, "index": index}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Milestone{}, ErrMilestoneNotSet
	}
	if err != nil {
		return models.Milestone{}, err
	}
	return m, nil
}

// Progress returns the completion percentage, 0 for an unset milestone.
func (s *Store) Progress(ctx context.Context, groupID uint64, member string, index uint32) (uint32, error) {
	m, err := s.Get(ctx, groupID, member, index)
	if errors.Is(err, ErrMilestoneNotSet) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return m.Progress(), nil
}

// IsReached reports whether the milestone has been reached. Unset reads as
// not reached; the escrow ledger treats that as "not claimable".
func (s *Store) IsReached(ctx context.Context, groupID uint64, member string, index uint32) (bool, error) {
	m, err := s.Get(ctx, groupID, member, index)
	if errors.Is(err, ErrMilestoneNotSet) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.IsReached, nil
}

// SubmitProof marks a manual milestone reached with the supplied proof.
// Already-reached manual milestones reject further submissions.
func (s *Store) SubmitProof(ctx context.Context, groupID uint64, member string, index uint32, proofHash string) (models.Milestone, error) {
	m, err := s.Get(ctx, groupID, member, index)
	if err != nil {
		return models.Milestone{}, err
	}
	if m.Type != models.MilestoneManual {
		return models.Milestone{}, ErrWrongType
	}
	if m.IsReached {
		return models.Milestone{}, ErrAlreadyReached
	}

	now := time.Now().UTC()
	m.Actual = m.Target
	m.IsReached = true
	m.ReachedAt = &now
	m.ProofHash = proofHash
	m.UpdatedAt = now

	_, err = s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "member": member, "index": index},
		bson.M{"$set": bson.M{
			"actual":     m.Actual,
			"is_reached": true,
			"reached_at": now,
			"proof_hash": proofHash,
			"updated_at": now,
		}},
	)
	if err != nil {
		return models.Milestone{}, err
	}
	return m, nil
}

// UpdateProgress applies an oracle progress value. Actual is last-write-wins
// but the reached flag never unlatches. The returned bool is true when this
// particular update crossed the target (so the reached event fires exactly
// once).
func (s *Store) UpdateProgress(ctx context.Context, groupID uint64, member string, index uint32, actual uint64) (models.Milestone, bool, error) {
	m, err := s.Get(ctx, groupID, member, index)
	if err != nil {
		return models.Milestone{}, false, err
	}
	if m.Type != models.MilestoneOracle {
		return models.Milestone{}, false, ErrWrongType
	}

	now := time.Now().UTC()
	set := bson.M{"actual": actual, "updated_at": now}

	crossed := false
	if !m.IsReached && actual >= m.Target {
		crossed = true
		m.IsReached = true
		m.ReachedAt = &now
		set["is_reached"] = true
		set["reached_at"] = now
	}
	m.Actual = actual
	m.UpdatedAt = now

	_, err = s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "member": member, "index": index},
		bson.M{"$set": set},
	)
	if err != nil {
		return models.Milestone{}, false, err
	}
	return m, crossed, nil
}

// ListByGroupMember returns a member's milestones ordered by index.
func (s *Store) ListByGroupMember(ctx context.Context, groupID uint64, member string) ([]models.Milestone, error) {
	opts := options.Find().SetSort(bson.D{{Key: "index", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID, "member": member}, opts)
	if err != nil {
		return nil, err
	}
	var milestones []models.Milestone
	if err := cur.All(ctx, &milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

/* ------------------------ oracle authorization ------------------------ */

// AddOracle adds an address to the authorized-oracle set. Idempotent.
func (s *Store) AddOracle(ctx context.Context, address string) error {
	_, err := s.oracles.UpdateOne(ctx,
		bson.M{"_id": address},
		bson.M{"$set": bson.M{"added_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

// RemoveOracle removes an address from the authorized-oracle set.
func (s *Store) RemoveOracle(ctx context.Context, address string) error {
	_, err := s.oracles.DeleteOne(ctx, bson.M{"_id": address})
	return err
}

// IsAuthorizedOracle reports whether the address may push progress updates.
func (s *Store) IsAuthorizedOracle(ctx context.Context, address string) (bool, error) {
	count, err := s.oracles.CountDocuments(ctx, bson.M{"_id": address})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetOracleAddress records the oracle address serving a data source.
func (s *Store) SetOracleAddress(ctx context.Context, dataSource, address string) error {
	_, err := s.sources.UpdateOne(ctx,
		bson.M{"_id": dataSource},
		bson.M{"$set": bson.M{"address": address, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}
