// internal/domain/models/verification.go
package models

import "time"

// Verification is the peer-review record for one (group, member) proof.
// The record is terminal once IsCompleted flips: the verdict never changes
// and further votes are rejected.
type Verification struct {
	GroupID   uint64 `bson:"group_id" json:"group_id"`
	Member    string `bson:"member" json:"member"`
	ProofHash string `bson:"proof_hash" json:"proof_hash"`

	VotesFor     uint32 `bson:"votes_for" json:"votes_for"`
	VotesAgainst uint32 `bson:"votes_against" json:"votes_against"`
	TotalVotes   uint32 `bson:"total_votes" json:"total_votes"`

	IsCompleted bool `bson:"is_completed" json:"is_completed"`
	IsApproved  bool `bson:"is_approved" json:"is_approved"`

	StartTime time.Time `bson:"start_time" json:"start_time"`
	EndTime   time.Time `bson:"end_time" json:"end_time"`

	// Addresses that have already voted; duplicates are rejected.
	Voters []string `bson:"voters,omitempty" json:"voters,omitempty"`
}

// Dispute is a challenge raised against a verification. Raising one does not
// block settlement; the owner marks it resolved and whether it was upheld.
type Dispute struct {
	GroupID    uint64     `bson:"group_id" json:"group_id"`
	Member     string     `bson:"member" json:"member"`
	Index      uint32     `bson:"index" json:"index"`
	Raiser     string     `bson:"raiser" json:"raiser"`
	Reason     string     `bson:"reason" json:"reason"`
	Resolved   bool       `bson:"resolved" json:"resolved"`
	Upheld     bool       `bson:"upheld" json:"upheld"`
	RaisedAt   time.Time  `bson:"raised_at" json:"raised_at"`
	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// VotingSettings is the voter component's singleton configuration document.
type VotingSettings struct {
	VotingDuration    time.Duration `bson:"voting_duration_ns" json:"voting_duration_ns"`
	RequiredVotes     uint32        `bson:"required_votes" json:"required_votes"`
	ApprovalThreshold uint32        `bson:"approval_threshold" json:"approval_threshold"`
	UpdatedAt         time.Time     `bson:"updated_at" json:"updated_at"`
}
