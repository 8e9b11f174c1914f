package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateGroup inserts an active test group with a 1 AVAX stake and a deadline
// one week out. The group id must be unique within the test database.
func (f *Fixtures) CreateGroup(ctx context.Context, groupID uint64, creator string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		GroupID:             groupID,
		Name:                "Test Group",
		NameCI:              text.Fold("Test Group"),
		Description:         "Test group description",
		Creator:             creator,
		StakeAmount:         "1",
		TotalStaked:         "1",
		Deadline:            now.Add(7 * 24 * time.Hour),
		IsActive:            true,
		MilestoneThresholds: []uint32{2500, 5000, 7500},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateExpiredGroup inserts a group whose deadline already passed, for
// settlement tests.
func (f *Fixtures) CreateExpiredGroup(ctx context.Context, groupID uint64, creator string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		GroupID:             groupID,
		Name:                "Expired Group",
		NameCI:              text.Fold("Expired Group"),
		Creator:             creator,
		StakeAmount:         "1",
		TotalStaked:         "1",
		Deadline:            now.Add(-time.Hour),
		IsActive:            true,
		MilestoneThresholds: []uint32{2500, 5000, 7500},
		CreatedAt:           now.Add(-48 * time.Hour),
		UpdatedAt:           now,
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create expired test group: %v", err)
	}
	return group
}

// CreateMembership inserts a membership with the group's 1 AVAX stake.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID uint64, member string) models.Membership {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Membership{
		GroupID:      groupID,
		Member:       member,
		Goal:         "test goal",
		StakedAmount: "1",
		JoinedAt:     now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("group_memberships").InsertOne(ctx, m)
	if err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateMembershipWithProof inserts a membership that already submitted a
// proof hash.
func (f *Fixtures) CreateMembershipWithProof(ctx context.Context, groupID uint64, member, proofHash string) models.Membership {
	f.t.Helper()

	m := f.CreateMembership(ctx, groupID, member)
	_, err := f.db.Collection("group_memberships").UpdateOne(ctx,
		map[string]any{"group_id": groupID, "member": member},
		map[string]any{"$set": map[string]any{"proof_hash": proofHash}},
	)
	if err != nil {
		f.t.Fatalf("failed to set test proof: %v", err)
	}
	m.ProofHash = proofHash
	return m
}

// CreateApprovedVerification inserts a completed, approved verification for
// a (group, member) pair.
func (f *Fixtures) CreateApprovedVerification(ctx context.Context, groupID uint64, member string) models.Verification {
	f.t.Helper()

	now := time.Now().UTC()
	v := models.Verification{
		GroupID:      groupID,
		Member:       member,
		ProofHash:    "0xproof",
		VotesFor:     3,
		VotesAgainst: 0,
		TotalVotes:   3,
		IsCompleted:  true,
		IsApproved:   true,
		StartTime:    now.Add(-8 * 24 * time.Hour),
		EndTime:      now.Add(-24 * time.Hour),
	}

	_, err := f.db.Collection("verifications").InsertOne(ctx, v)
	if err != nil {
		f.t.Fatalf("failed to create test verification: %v", err)
	}
	return v
}

// CreateMilestone inserts a milestone record.
func (f *Fixtures) CreateMilestone(ctx context.Context, groupID uint64, member string, index uint32, target uint64, milestoneType string) models.Milestone {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Milestone{
		GroupID:   groupID,
		Member:    member,
		Index:     index,
		Target:    target,
		Type:      milestoneType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if milestoneType == models.MilestoneOracle {
		m.DataSource = "leetcode"
	}

	_, err := f.db.Collection("milestones").InsertOne(ctx, m)
	if err != nil {
		f.t.Fatalf("failed to create test milestone: %v", err)
	}
	return m
}
