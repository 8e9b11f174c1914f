// internal/domain/models/achievement.go
package models

import "time"

// Rarity tiers for achievement badges, derived from the stake that backed the
// completed commitment.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// AchievementType must be registered (with a metadata URI) before any badge
// of that type can be minted.
type AchievementType struct {
	Name        string    `bson:"name" json:"name"`
	MetadataURI string    `bson:"metadata_uri" json:"metadata_uri"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Achievement is one minted non-fungible badge.
type Achievement struct {
	TokenID     uint64    `bson:"token_id" json:"token_id"`
	Owner       string    `bson:"owner" json:"owner"`
	Type        string    `bson:"type" json:"type"`
	GroupID     uint64    `bson:"group_id" json:"group_id"`
	ProofHash   string    `bson:"proof_hash,omitempty" json:"proof_hash,omitempty"`
	Rarity      string    `bson:"rarity" json:"rarity"`
	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`
}
