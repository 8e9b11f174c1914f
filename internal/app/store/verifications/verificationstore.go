// internal/app/store/verifications/verificationstore.go
package verificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the peer-review state: one verification record per
// (group, member) plus the dispute list and the voting configuration.
// The escrow ledger reads verdicts from here at settlement; it never writes.
type Store struct {
	c        *mongo.Collection
	disputes *mongo.Collection
	settings *mongo.Collection
}

var (
	ErrVerificationNotFound = errors.New("verification not found")
	ErrVerificationExists   = errors.New("verification already started")
	ErrVerificationClosed   = errors.New("verification already completed")
	ErrVotingEnded          = errors.New("voting period ended")
	ErrSelfVote             = errors.New("cannot vote on own verification")
	ErrAlreadyVoted         = errors.New("already voted")
	ErrDisputeNotFound      = errors.New("dispute not found")
	ErrDisputeResolved      = errors.New("dispute already resolved")
)

// Defaults applied when no settings document exists yet.
const (
	DefaultVotingDuration    = 7 * 24 * time.Hour
	DefaultRequiredVotes     = 3
	DefaultApprovalThreshold = 66
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("verifications"),
		disputes: db.Collection("verification_disputes"),
		settings: db.Collection("voting_settings"),
	}
}

// Start opens the voting window for a (group, member) proof.
func (s *Store) Start(ctx context.Context, groupID uint64, member, proofHash string) (models.Verification, error) {
	cfg, err := s.Settings(ctx)
	if err != nil {
		return models.Verification{}, err
	}

	now := time.Now().UTC()
	v := models.Verification{
		GroupID:   groupID,
		Member:    member,
		ProofHash: proofHash,
		StartTime: now,
		EndTime:   now.Add(cfg.VotingDuration),
	}
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Verification{}, ErrVerificationExists
		}
		return models.Verification{}, err
	}
	return v, nil
}

func (s *Store) Get(ctx context.Context, groupID uint64, member string) (models.Verification, error) {
	var v models.Verification
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "member": member}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Verification{}, ErrVerificationNotFound
	}
	if err != nil {
		return models.Verification{}, err
	}
	return v, nil
}

// CastVote validates and records a single vote. When the vote brings the
// total to the required-votes quorum the record completes with
// approved = votesFor > votesAgainst; a tie rejects. Completed records stay
// terminal: the verdict never changes and later votes fail.
func (s *Store) CastVote(ctx context.Context, groupID uint64, member, voter string, approve bool) (models.Verification, error) {
	v, err := s.Get(ctx, groupID, member)
	if err != nil {
		return models.Verification{}, err
	}

	switch {
	case v.IsCompleted:
		return models.Verification{}, ErrVerificationClosed
	case time.Now().UTC().After(v.EndTime):
		return models.Verification{}, ErrVotingEnded
	case voter == member:
		return models.Verification{}, ErrSelfVote
	}
	for _, prev := range v.Voters {
		if prev == voter {
			return models.Verification{}, ErrAlreadyVoted
		}
	}

	field := "votes_against"
	if approve {
		field = "votes_for"
	}

	// Counters move by $inc and the voter lands by $push in one atomic
	// update, so concurrent votes never overwrite each other; the voters
	// guard keeps a concurrent duplicate from landing twice.
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{
			"group_id":     groupID,
			"member":       member,
			"is_completed": false,
			"voters":       bson.M{"$ne": voter},
		},
		bson.M{
			"$inc":  bson.M{field: 1, "total_votes": 1},
			"$push": bson.M{"voters": voter},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if err == mongo.ErrNoDocuments {
		// A concurrent vote either completed the record or was ours.
		cur, getErr := s.Get(ctx, groupID, member)
		if getErr != nil {
			return models.Verification{}, getErr
		}
		if cur.IsCompleted {
			return models.Verification{}, ErrVerificationClosed
		}
		return models.Verification{}, ErrAlreadyVoted
	}
	if err != nil {
		return models.Verification{}, err
	}

	cfg, err := s.Settings(ctx)
	if err != nil {
		return models.Verification{}, err
	}
	if v.TotalVotes < cfg.RequiredVotes {
		return v, nil
	}
	return s.complete(ctx, groupID, member)
}

// complete closes a quorum-reached verification. The verdict is computed in
// the update pipeline from the stored counters, so votes landing between the
// quorum check and this write still count, and the first closer wins.
func (s *Store) complete(ctx context.Context, groupID uint64, member string) (models.Verification, error) {
	var v models.Verification
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"group_id": groupID, "member": member, "is_completed": false},
		mongo.Pipeline{{{Key: "$set", Value: bson.M{
			"is_completed": true,
			"is_approved":  bson.M{"$gt": bson.A{"$votes_for", "$votes_against"}},
		}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if err == mongo.ErrNoDocuments {
		// Lost the closing race; read the verdict the winner wrote.
		return s.Get(ctx, groupID, member)
	}
	if err != nil {
		return models.Verification{}, err
	}
	return v, nil
}

// IsApproved reports whether a completed verification approved the member's
// proof. An unstarted or still-open verification reads as not approved;
// settlement treats that as "not a completer", never as an error.
func (s *Store) IsApproved(ctx context.Context, groupID uint64, member string) (bool, error) {
	v, err := s.Get(ctx, groupID, member)
	if errors.Is(err, ErrVerificationNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v.IsCompleted && v.IsApproved, nil
}

/* ----------------------------- disputes ------------------------------ */

// RaiseDispute appends a dispute entry for a started verification. Disputes
// never block settlement by themselves.
func (s *Store) RaiseDispute(ctx context.Context, groupID uint64, member, raiser, reason string) (models.Dispute, error) {
	if _, err := s.Get(ctx, groupID, member); err != nil {
		return models.Dispute{}, err
	}

	count, err := s.disputes.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return models.Dispute{}, err
	}

	d := models.Dispute{
		GroupID:  groupID,
		Member:   member,
		Index:    uint32(count),
		Raiser:   raiser,
		Reason:   reason,
		RaisedAt: time.Now().UTC(),
	}
	if _, err := s.disputes.InsertOne(ctx, d); err != nil {
		return models.Dispute{}, err
	}
	return d, nil
}

// ListDisputes returns a group's disputes in raise order.
func (s *Store) ListDisputes(ctx context.Context, groupID uint64) ([]models.Dispute, error) {
	opts := options.Find().SetSort(bson.D{{Key: "index", Value: 1}})
	cur, err := s.disputes.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	var disputes []models.Dispute
	if err := cur.All(ctx, &disputes); err != nil {
		return nil, err
	}
	return disputes, nil
}

// ResolveDispute marks a dispute resolved. The verdict of the underlying
// verification is left untouched; see the API docs for the rationale.
func (s *Store) ResolveDispute(ctx context.Context, groupID uint64, index uint32, upheld bool) error {
	now := time.Now().UTC()
	res, err := s.disputes.UpdateOne(ctx,
		bson.M{"group_id": groupID, "index": index, "resolved": false},
		bson.M{"$set": bson.M{"resolved": true, "upheld": upheld, "resolved_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, err := s.disputes.CountDocuments(ctx, bson.M{"group_id": groupID, "index": index})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrDisputeNotFound
		}
		return ErrDisputeResolved
	}
	return nil
}

/* ----------------------------- settings ------------------------------ */

// Settings returns the voter configuration, falling back to defaults.
func (s *Store) Settings(ctx context.Context) (models.VotingSettings, error) {
	var cfg models.VotingSettings
	err := s.settings.FindOne(ctx, bson.M{"_id": "voting"}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return models.VotingSettings{
			VotingDuration:    DefaultVotingDuration,
			RequiredVotes:     DefaultRequiredVotes,
			ApprovalThreshold: DefaultApprovalThreshold,
		}, nil
	}
	if err != nil {
		return models.VotingSettings{}, err
	}
	return cfg, nil
}

// UpdateSettings overwrites the voter configuration.
func (s *Store) UpdateSettings(ctx context.Context, cfg models.VotingSettings) error {
	cfg.UpdatedAt = time.Now().UTC()
	_, err := s.settings.UpdateOne(ctx,
		bson.M{"_id": "voting"},
		bson.M{"$set": cfg},
		options.Update().SetUpsert(true),
	)
	return err
}
