// internal/domain/models/stakeposition.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenBalance is one address's fungible COMMIT balance.
type TokenBalance struct {
	Address   string    `bson:"address" json:"address"`
	Balance   string    `bson:"balance" json:"balance"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StakePosition is a COMMIT staking position: tokens locked for a duration at
// a rate fixed when the position opens. Principal plus accrued yield pays out
// on withdrawal after the duration has elapsed.
type StakePosition struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Address string             `bson:"address" json:"address"`
	Amount  string             `bson:"amount" json:"amount"`

	StartTime time.Time     `bson:"start_time" json:"start_time"`
	Duration  time.Duration `bson:"duration_ns" json:"duration_ns"`
	RateBps   uint32        `bson:"rate_bps" json:"rate_bps"`

	Withdrawn   bool       `bson:"withdrawn" json:"withdrawn"`
	WithdrawnAt *time.Time `bson:"withdrawn_at,omitempty" json:"withdrawn_at,omitempty"`
}
