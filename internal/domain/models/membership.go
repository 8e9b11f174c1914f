// internal/domain/models/membership.go
package models

import "time"

// Membership is one participant's goal, stake, and proof inside a group.
// Exactly one document per (group_id, member); re-joining is rejected by a
// unique index as well as by the store.
type Membership struct {
	GroupID uint64 `bson:"group_id" json:"group_id"`
	Member  string `bson:"member" json:"member"`

	Goal         string `bson:"goal" json:"goal"`
	ProofHash    string `bson:"proof_hash,omitempty" json:"proof_hash,omitempty"`
	StakedAmount string `bson:"staked_amount" json:"staked_amount"`

	HasCompleted bool   `bson:"has_completed" json:"has_completed"`
	Payout       string `bson:"payout,omitempty" json:"payout,omitempty"`

	// Milestone indexes this member has already claimed a partial reward for.
	ClaimedMilestones []uint32 `bson:"claimed_milestones,omitempty" json:"claimed_milestones,omitempty"`

	JoinedAt  time.Time `bson:"joined_at" json:"joined_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
