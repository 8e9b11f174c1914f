// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	achievementsfeature "github.com/commitchain/commitchaind/internal/app/features/achievements"
	activityfeature "github.com/commitchain/commitchaind/internal/app/features/activity"
	escrowfeature "github.com/commitchain/commitchaind/internal/app/features/escrow"
	healthfeature "github.com/commitchain/commitchaind/internal/app/features/health"
	leaderboardfeature "github.com/commitchain/commitchaind/internal/app/features/leaderboard"
	milestonesfeature "github.com/commitchain/commitchaind/internal/app/features/milestones"
	oraclefeature "github.com/commitchain/commitchaind/internal/app/features/oracle"
	rewardsfeature "github.com/commitchain/commitchaind/internal/app/features/rewards"
	verificationfeature "github.com/commitchain/commitchaind/internal/app/features/verification"
	achievementstore "github.com/commitchain/commitchaind/internal/app/store/achievements"
	eventstore "github.com/commitchain/commitchaind/internal/app/store/events"
	groupstore "github.com/commitchain/commitchaind/internal/app/store/groups"
	membershipstore "github.com/commitchain/commitchaind/internal/app/store/memberships"
	milestonestore "github.com/commitchain/commitchaind/internal/app/store/milestones"
	oraclestore "github.com/commitchain/commitchaind/internal/app/store/oracle"
	rewardstore "github.com/commitchain/commitchaind/internal/app/store/rewards"
	verificationstore "github.com/commitchain/commitchaind/internal/app/store/verifications"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Every feature gets its stores injected
// here; the escrow ledger sees the voter and the tracker only through the
// narrow read interfaces it declares.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	owner, err := identity.Normalize(appCfg.OwnerAddress)
	if err != nil {
		logger.Error("owner address", zap.Error(err))
		return nil, err
	}
	tokenMaxSupply, err := decimal.NewFromString(appCfg.TokenMaxSupply)
	if err != nil {
		logger.Error("token max supply", zap.Error(err))
		return nil, err
	}

	// Stores.
	groups := groupstore.New(db)
	members := membershipstore.New(db)
	verifications := verificationstore.New(db)
	milestones := milestonestore.New(db)
	oracleRequests := oraclestore.New(db)
	tokens := rewardstore.New(db)
	badges := achievementstore.New(db)
	events := eventstore.New(db)

	emitter := eventlog.New(events, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Escrow ledger: groups, stakes, settlement, milestone claims
	escrowHandler := escrowfeature.NewHandler(
		groups, members, verifications, milestones,
		tokens, badges, emitter,
		owner, tokenMaxSupply, appCfg.BadgeMaxSupply, logger,
	)
	r.Mount("/escrow", escrowfeature.Routes(escrowHandler))

	// Peer-review voter
	verificationHandler := verificationfeature.NewHandler(verifications, members, emitter, owner, logger)
	r.Mount("/verification", verificationfeature.Routes(verificationHandler))

	// Milestone tracker
	milestonesHandler := milestonesfeature.NewHandler(milestones, groups, members, emitter, owner, logger)
	r.Mount("/milestones", milestonesfeature.Routes(milestonesHandler))

	// Oracle bridge
	oracleHandler := oraclefeature.NewHandler(oracleRequests, milestones, emitter, owner, logger)
	r.Mount("/oracle", oraclefeature.Routes(oracleHandler))

	// COMMIT token: balances, staking, owner minting
	rewardsHandler := rewardsfeature.NewHandler(tokens, emitter, owner, tokenMaxSupply, logger)
	r.Mount("/token", rewardsfeature.Routes(rewardsHandler))

	// Achievement badges
	achievementsHandler := achievementsfeature.NewHandler(badges, emitter, owner, appCfg.BadgeMaxSupply, appCfg.BaseMetadataURL, logger)
	r.Mount("/achievements", achievementsfeature.Routes(achievementsHandler))

	// Event history feeds
	activityHandler := activityfeature.NewHandler(events, logger)
	r.Mount("/events", activityfeature.Routes(activityHandler))

	// Leaderboard
	leaderboardHandler := leaderboardfeature.NewHandler(db, logger)
	r.Mount("/leaderboard", leaderboardfeature.Routes(leaderboardHandler))

	return r, nil
}
