// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types emitted by the components. The events collection is the
// append-only audit log external observers reconstruct history from.
const (
	EventGroupCreated           = "GroupCreated"
	EventMemberJoined           = "MemberJoined"
	EventProofSubmitted         = "ProofSubmitted"
	EventRewardsDistributed     = "RewardsDistributed"
	EventMilestoneRewardClaimed = "MilestoneRewardClaimed"
	EventPlatformFeeUpdated     = "PlatformFeeUpdated"
	EventPaused                 = "Paused"
	EventUnpaused               = "Unpaused"

	EventVerificationStarted   = "VerificationStarted"
	EventVoteCast              = "VoteCast"
	EventVerificationCompleted = "VerificationCompleted"
	EventDisputeRaised         = "DisputeRaised"
	EventDisputeResolved       = "DisputeResolved"

	EventMilestoneSet     = "MilestoneSet"
	EventMilestoneReached = "MilestoneReached"

	EventOracleRequested     = "OracleRequested"
	EventOracleFulfilled     = "OracleFulfilled"
	EventOracleRequestFailed = "OracleRequestFailed"

	EventTokensMinted   = "TokensMinted"
	EventTokensStaked   = "TokensStaked"
	EventTokensUnstaked = "TokensUnstaked"

	EventAchievementTypeAdded = "AchievementTypeAdded"
	EventAchievementMinted    = "AchievementMinted"
)

// Event is one emitted ledger event.
type Event struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type    string             `bson:"type" json:"type"`
	GroupID uint64             `bson:"group_id,omitempty" json:"group_id,omitempty"`
	Address string             `bson:"address,omitempty" json:"address,omitempty"`
	Fields  map[string]any     `bson:"fields,omitempty" json:"fields,omitempty"`
	At      time.Time          `bson:"at" json:"at"`
}
