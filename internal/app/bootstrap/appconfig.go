// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to this service lives: the Mongo
// connection, the platform owner address, the default economics of groups
// and rewards, and the oracle bridge defaults.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Platform administration
	OwnerAddress   string // EIP-55 address of the platform owner; gates admin endpoints
	PlatformFeeBps uint32 // Default platform fee in basis points (250 = 2.5%)

	// Peer-verification defaults seeded into the voting settings document
	VotingDuration    time.Duration // Voting window length (default 168h)
	RequiredVotes     uint32        // Quorum that completes a verification
	ApprovalThreshold uint32        // Approval threshold percentage

	// COMMIT token and achievement badge ceilings
	TokenMaxSupply  string // Max mintable COMMIT supply (decimal string)
	BadgeMaxSupply  uint64 // Max mintable achievement badges
	BaseMetadataURL string // Prefix for achievement metadata URIs

	// Oracle bridge defaults
	DefaultOracleFee string // Per-request fee seeded into the data-source job table
}
