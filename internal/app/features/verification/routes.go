// internal/app/features/verification/routes.go
package verification

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Voting lifecycle
	r.Post("/groups/{groupID}/start", h.HandleStartVerification)
	r.Post("/groups/{groupID}/members/{address}/vote", h.HandleCastVote)
	r.Get("/groups/{groupID}/members/{address}", h.ServeVerification)

	// Disputes
	r.Post("/groups/{groupID}/disputes", h.HandleRaiseDispute)
	r.Get("/groups/{groupID}/disputes", h.ServeDisputes)
	r.Post("/groups/{groupID}/disputes/{index}/resolve", h.HandleResolveDispute)

	// Owner administration
	r.Get("/admin/settings", h.ServeVotingSettings)
	r.Post("/admin/settings", h.HandleUpdateVotingSettings)

	return r
}
