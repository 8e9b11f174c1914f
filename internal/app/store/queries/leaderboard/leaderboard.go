// internal/app/store/queries/leaderboard/leaderboard.go
package leaderboard

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Row is one leaderboard entry, aggregated across all settled memberships.
type Row struct {
	Address        string `bson:"_id" json:"address"`
	CompletedGoals int64  `bson:"completed_goals" json:"completed_goals"`
	TotalEarned    string `bson:"total_earned" json:"total_earned"`
	Achievements   int64  `json:"achievements"`
}

// Top aggregates the leaderboard from the memberships and achievements
// collections: completed goals and AVAX earned per address, sorted by
// completions. Payouts are stored as decimal strings, so the sum runs over
// $toDecimal and is re-stringified for the wire.
func Top(ctx context.Context, db *mongo.Database, limit int64) ([]Row, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"has_completed": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$member",
			"completed_goals": bson.M{"$sum": 1},
			"earned":          bson.M{"$sum": bson.M{"$toDecimal": "$payout"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "completed_goals", Value: -1}, {Key: "earned", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$addFields", Value: bson.M{"total_earned": bson.M{"$toString": "$earned"}}}},
	}

	cur, err := db.Collection("group_memberships").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	for i := range rows {
		count, err := db.Collection("achievements").CountDocuments(ctx, bson.M{"owner": rows[i].Address})
		if err != nil {
			return nil, err
		}
		rows[i].Achievements = count
	}
	return rows, nil
}
