// internal/domain/models/milestone.go
package models

import "time"

// Milestone type tags.
const (
	MilestoneManual = "manual"
	MilestoneOracle = "oracle"
)

// Milestone is one partial-completion checkpoint for (group, member, index).
// Manual milestones are proven once by the member; oracle milestones take
// last-write-wins progress updates from authorized oracles. Reached latches:
// once true it is never unset, even if a later oracle update lowers Actual.
type Milestone struct {
	GroupID uint64 `bson:"group_id" json:"group_id"`
	Member  string `bson:"member" json:"member"`
	Index   uint32 `bson:"index" json:"index"`

	Target uint64 `bson:"target" json:"target"`
	Actual uint64 `bson:"actual" json:"actual"`

	IsReached bool       `bson:"is_reached" json:"is_reached"`
	ReachedAt *time.Time `bson:"reached_at,omitempty" json:"reached_at,omitempty"`

	Type       string `bson:"type" json:"type"`
	DataSource string `bson:"data_source" json:"data_source"`
	ProofHash  string `bson:"proof_hash,omitempty" json:"proof_hash,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Progress returns the completion percentage (0-100, truncated), 0 for an
// unset target.
func (m Milestone) Progress() uint32 {
	if m.Target == 0 {
		return 0
	}
	actual := m.Actual
	if actual > m.Target {
		actual = m.Target
	}
	return uint32(actual * 100 / m.Target)
}
