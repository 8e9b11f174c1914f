// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent. Errors
are aggregated so any problem is visible and startup can fail fast.

The unique indexes double as invariant enforcement at the storage layer:
one membership per (group, member), one verification per (group, member),
one milestone per (group, member, index), one resolution per request id.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(name string, err error) {
		if err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	ensure("groups", create(ctx, db, "groups", []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}},
			Options: options.Index().SetName("idx_groups_id").SetUnique(true)},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "deadline", Value: 1}},
			Options: options.Index().SetName("idx_groups_active_deadline")},
	}))

	ensure("group_memberships", create(ctx, db, "group_memberships", []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "member", Value: 1}},
			Options: options.Index().SetName("idx_memberships_group_member").SetUnique(true)},
		{Keys: bson.D{{Key: "member", Value: 1}},
			Options: options.Index().SetName("idx_memberships_member")},
	}))

	ensure("verifications", create(ctx, db, "verifications", []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "member", Value: 1}},
			Options: options.Index().SetName("idx_verifications_group_member").SetUnique(true)},
	}))

	ensure("verification_disputes", create(ctx, db, "verification_disputes", []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "index", Value: 1}},
			Options: options.Index().SetName("idx_disputes_group_index").SetUnique(true)},
	}))

	ensure("milestones", create(ctx, db, "milestones", []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "member", Value: 1}, {Key: "index", Value: 1}},
			Options: options.Index().SetName("idx_milestones_key").SetUnique(true)},
	}))

	ensure("oracle_requests", create(ctx, db, "oracle_requests", []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("idx_oracle_requests_id").SetUnique(true)},
		{Keys: bson.D{{Key: "is_completed", Value: 1}, {Key: "requested_at", Value: 1}},
			Options: options.Index().SetName("idx_oracle_requests_pending")},
	}))

	ensure("achievements", create(ctx, db, "achievements", []mongo.IndexModel{
		{Keys: bson.D{{Key: "token_id", Value: 1}},
			Options: options.Index().SetName("idx_achievements_token").SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "token_id", Value: -1}},
			Options: options.Index().SetName("idx_achievements_owner")},
	}))

	ensure("achievement_types", create(ctx, db, "achievement_types", []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_achievement_types_name").SetUnique(true)},
	}))

	ensure("token_balances", create(ctx, db, "token_balances", []mongo.IndexModel{
		{Keys: bson.D{{Key: "address", Value: 1}},
			Options: options.Index().SetName("idx_token_balances_address").SetUnique(true)},
	}))

	ensure("stake_positions", create(ctx, db, "stake_positions", []mongo.IndexModel{
		{Keys: bson.D{{Key: "address", Value: 1}},
			Options: options.Index().SetName("idx_stake_positions_address")},
	}))

	ensure("events", create(ctx, db, "events", []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "at", Value: -1}},
			Options: options.Index().SetName("idx_events_group")},
		{Keys: bson.D{{Key: "address", Value: 1}, {Key: "at", Value: -1}},
			Options: options.Index().SetName("idx_events_address")},
	}))

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, collection string, models []mongo.IndexModel) error {
	_, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	return err
}
