// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	achievementstore "github.com/commitchain/commitchaind/internal/app/store/achievements"
	oraclestore "github.com/commitchain/commitchaind/internal/app/store/oracle"
	"github.com/commitchain/commitchaind/internal/app/system/indexes"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and bundles it into DBDeps.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := mongooptions.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// Built-in achievement types registered at startup. goal_completed is the
// type settlement mints; the rest back the themed commitment categories.
var builtinAchievementTypes = []string{
	"goal_completed",
	"leetcode_master",
	"github_warrior",
	"fitness_champion",
	"study_legend",
	"crypto_trader",
}

// Data sources the oracle bridge serves out of the box.
var builtinDataSources = []string{"leetcode", "github", "fitness"}

// EnsureSchema creates the unique and secondary indexes every store relies
// on, then seeds the singleton settings documents and built-in registries.
// Seeding is insert-if-absent: operator changes made at runtime survive
// restarts.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	db := deps.MongoDatabase

	// Platform settings singleton.
	_, err := db.Collection("platform_settings").UpdateOne(ctx,
		bson.M{"_id": "platform"},
		bson.M{"$setOnInsert": bson.M{
			"fee_bps":    appCfg.PlatformFeeBps,
			"paused":     false,
			"updated_at": time.Now().UTC(),
		}},
		mongooptions.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("seed platform settings: %w", err)
	}

	// Voting settings singleton.
	_, err = db.Collection("voting_settings").UpdateOne(ctx,
		bson.M{"_id": "voting"},
		bson.M{"$setOnInsert": bson.M{
			"voting_duration_ns": appCfg.VotingDuration,
			"required_votes":     appCfg.RequiredVotes,
			"approval_threshold": appCfg.ApprovalThreshold,
			"updated_at":         time.Now().UTC(),
		}},
		mongooptions.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("seed voting settings: %w", err)
	}

	// Built-in achievement types.
	badges := achievementstore.New(db)
	for _, name := range builtinAchievementTypes {
		uri := appCfg.BaseMetadataURL + name + ".json"
		if err := badges.AddType(ctx, name, uri); err != nil && err != achievementstore.ErrTypeExists {
			return fmt.Errorf("seed achievement type %s: %w", name, err)
		}
	}

	// Data-source job table for the oracle bridge.
	oracles := oraclestore.New(db)
	for _, source := range builtinDataSources {
		if _, err := oracles.Job(ctx, source); err == nil {
			continue
		} else if err != oraclestore.ErrUnknownSource {
			return fmt.Errorf("check data source %s: %w", source, err)
		}
		job := models.DataSourceJob{
			Source: source,
			JobID:  source + "-v1",
			Fee:    appCfg.DefaultOracleFee,
		}
		if err := oracles.SetJob(ctx, job); err != nil {
			return fmt.Errorf("seed data source %s: %w", source, err)
		}
	}

	logger.Info("schema ensured",
		zap.Int("achievement_types", len(builtinAchievementTypes)),
		zap.Int("data_sources", len(builtinDataSources)))
	return nil
}
