// internal/app/features/escrow/routes.go
package escrow

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Groups
	r.Post("/groups", h.HandleCreateGroup)
	r.Get("/groups", h.ServeGroupList)
	r.Get("/groups/{groupID}", h.ServeGroupInfo)
	r.Get("/groups/{groupID}/members", h.ServeGroupMembers)

	// Membership lifecycle
	r.Post("/groups/{groupID}/join", h.HandleJoinGroup)
	r.Post("/groups/{groupID}/proof", h.HandleSubmitProof)
	r.Get("/groups/{groupID}/members/{address}", h.ServeMembership)

	// Settlement and milestone claims
	r.Post("/groups/{groupID}/settle", h.HandleCompleteVerification)
	r.Post("/groups/{groupID}/milestones/{index}/claim", h.HandleClaimMilestoneReward)

	// Owner administration
	r.Post("/admin/fee", h.HandleUpdatePlatformFee)
	r.Post("/admin/pause", h.HandlePause)
	r.Post("/admin/unpause", h.HandleUnpause)

	return r
}
