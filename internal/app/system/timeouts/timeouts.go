// internal/app/system/timeouts/timeouts.go
package timeouts

import "time"

// Standard per-operation deadlines. Handlers wrap the request context with
// one of these before touching the database.

// Short covers single-document reads and writes.
func Short() time.Duration { return 5 * time.Second }

// Medium covers multi-document operations (settlement, batch updates).
func Medium() time.Duration { return 15 * time.Second }

// Ping covers health-check pings.
func Ping() time.Duration { return 2 * time.Second }
