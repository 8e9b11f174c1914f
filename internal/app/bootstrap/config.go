// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for commitchaind.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, owner_address, etc.
//   - Environment variables: COMMITCHAIN_MONGO_URI, COMMITCHAIN_OWNER_ADDRESS, etc.
//   - Command-line flags: --mongo_uri, --owner_address, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "commitchain", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Platform administration
	{Name: "owner_address", Default: "", Desc: "Platform owner wallet address (gates admin endpoints)"},
	{Name: "platform_fee_bps", Default: 250, Desc: "Platform fee in basis points (default: 250 = 2.5%)"},

	// Peer-verification defaults
	{Name: "voting_duration", Default: "168h", Desc: "Peer-vote window length (e.g., 168h, 24h)"},
	{Name: "required_votes", Default: 3, Desc: "Votes required to complete a verification"},
	{Name: "approval_threshold", Default: 66, Desc: "Approval threshold percentage"},

	// Token and badge economics
	{Name: "token_max_supply", Default: "1000000", Desc: "Max mintable COMMIT token supply"},
	{Name: "badge_max_supply", Default: 10000, Desc: "Max mintable achievement badges"},
	{Name: "base_metadata_url", Default: "https://api.commitchain.example/metadata/", Desc: "Prefix for achievement metadata URIs"},

	// Oracle bridge
	{Name: "default_oracle_fee", Default: "0.1", Desc: "Default per-request oracle fee (AVAX)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COMMITCHAIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		OwnerAddress:   appValues.String("owner_address"),
		PlatformFeeBps: uint32(appValues.Int("platform_fee_bps")),

		VotingDuration:    appValues.Duration("voting_duration", 168*time.Hour),
		RequiredVotes:     uint32(appValues.Int("required_votes")),
		ApprovalThreshold: uint32(appValues.Int("approval_threshold")),

		TokenMaxSupply:  appValues.String("token_max_supply"),
		BadgeMaxSupply:  uint64(appValues.Int("badge_max_supply")),
		BaseMetadataURL: appValues.String("base_metadata_url"),

		DefaultOracleFee: appValues.String("default_oracle_fee"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This catches configuration errors early, before attempting to connect to
// anything: a malformed Mongo URI, a non-address owner, or a fee that would
// eat the whole pool.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.OwnerAddress == "" {
		return fmt.Errorf("owner_address must be set")
	}
	if _, err := identity.Normalize(appCfg.OwnerAddress); err != nil {
		return fmt.Errorf("invalid owner_address: %w", err)
	}

	if appCfg.PlatformFeeBps > 1000 {
		return fmt.Errorf("platform_fee_bps must not exceed 1000 (10%%)")
	}
	if appCfg.RequiredVotes == 0 {
		return fmt.Errorf("required_votes must be greater than 0")
	}
	if appCfg.ApprovalThreshold == 0 || appCfg.ApprovalThreshold > 100 {
		return fmt.Errorf("approval_threshold must be between 1 and 100")
	}

	if _, err := decimal.NewFromString(appCfg.TokenMaxSupply); err != nil {
		return fmt.Errorf("invalid token_max_supply: %w", err)
	}
	if _, err := decimal.NewFromString(appCfg.DefaultOracleFee); err != nil {
		return fmt.Errorf("invalid default_oracle_fee: %w", err)
	}

	return nil
}
