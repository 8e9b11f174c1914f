// internal/app/system/status/status.go
package status

// Group lifecycle statuses as reported on the read surface.
const (
	Active   = "active"
	Settled  = "settled"
	Inactive = "inactive"
)
