// internal/domain/models/group.go
package models

import (
	"time"
)

// Group is a commitment pool: a shared deadline, a required stake, and an
// ordered milestone schedule. Groups are identified by a small sequential id
// (assigned from a counter document) so the external call surface matches the
// original numeric group ids the presentation client already uses.
//
// NOTE:
//   - Member records are not embedded here; all membership lives in the
//     group_memberships collection.
//   - Amounts are canonical decimal strings (AVAX); arithmetic happens in
//     decimal.Decimal, never floats.
type Group struct {
	GroupID     uint64 `bson:"group_id" json:"group_id"`
	Name        string `bson:"name" json:"name"`
	NameCI      string `bson:"name_ci" json:"-"`
	Description string `bson:"description" json:"description"`
	Creator     string `bson:"creator" json:"creator"`

	StakeAmount string    `bson:"stake_amount" json:"stake_amount"`
	TotalStaked string    `bson:"total_staked" json:"total_staked"`
	Deadline    time.Time `bson:"deadline" json:"deadline"`
	IsPrivate   bool      `bson:"is_private" json:"is_private"`
	IsActive    bool      `bson:"is_active" json:"is_active"`

	// Milestone thresholds in basis points of the stake (e.g. 2500 = 25%).
	MilestoneThresholds []uint32 `bson:"milestone_thresholds" json:"milestone_thresholds"`

	// Settlement bookkeeping. SettledAt non-nil means completeVerification has
	// already run for this group; each stake pays out at most once.
	SettledAt   *time.Time `bson:"settled_at,omitempty" json:"settled_at,omitempty"`
	TotalReward string     `bson:"total_reward,omitempty" json:"total_reward,omitempty"`
	Completers  uint32     `bson:"completers" json:"completers"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PlatformSettings is the singleton escrow-wide configuration document:
// the platform fee taken out of each settled pool and the pause switch that
// blocks all mutating escrow calls.
type PlatformSettings struct {
	FeeBps    uint32    `bson:"fee_bps" json:"fee_bps"`
	Paused    bool      `bson:"paused" json:"paused"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
