// internal/domain/models/oraclerequest.go
package models

import "time"

// OracleRequest is one asynchronous external-data verification round trip.
// A request resolves at most once; unresolved requests stay pending forever
// (there is deliberately no expiry - failures are marked explicitly).
type OracleRequest struct {
	RequestID string `bson:"request_id" json:"request_id"`

	GroupID        uint64 `bson:"group_id" json:"group_id"`
	Member         string `bson:"member" json:"member"`
	MilestoneIndex uint32 `bson:"milestone_index" json:"milestone_index"`

	DataSource string `bson:"data_source" json:"data_source"`
	Endpoint   string `bson:"endpoint,omitempty" json:"endpoint,omitempty"`
	JobID      string `bson:"job_id" json:"job_id"`
	Fee        string `bson:"fee" json:"fee"`

	TargetValue uint64 `bson:"target_value" json:"target_value"`
	Result      uint64 `bson:"result" json:"result"`

	IsCompleted bool   `bson:"is_completed" json:"is_completed"`
	IsSuccess   bool   `bson:"is_success" json:"is_success"`
	FailReason  string `bson:"fail_reason,omitempty" json:"fail_reason,omitempty"`

	RequestedAt time.Time  `bson:"requested_at" json:"requested_at"`
	ResolvedAt  *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// DataSourceJob maps an external data-source label to the oracle job that
// serves it and the fee charged per request.
type DataSourceJob struct {
	Source    string    `bson:"source" json:"source"`
	JobID     string    `bson:"job_id" json:"job_id"`
	Fee       string    `bson:"fee" json:"fee"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
