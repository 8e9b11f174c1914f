// internal/app/features/milestones/routes.go
package milestones

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Targets and progress
	r.Post("/groups/{groupID}/members/{address}/milestones/{index}", h.HandleSetMilestone)
	r.Get("/groups/{groupID}/members/{address}/milestones", h.ServeMilestones)
	r.Get("/groups/{groupID}/members/{address}/milestones/{index}", h.ServeMilestone)
	r.Post("/groups/{groupID}/milestones/{index}/proof", h.HandleSubmitMilestoneProof)

	// Oracle progress pushes
	r.Post("/groups/{groupID}/members/{address}/milestones/{index}/progress", h.HandleUpdateProgress)
	r.Post("/groups/{groupID}/milestones/{index}/progress/batch", h.HandleBatchUpdateProgress)

	// Owner administration
	r.Post("/admin/oracles", h.HandleAddOracle)
	r.Delete("/admin/oracles/{address}", h.HandleRemoveOracle)
	r.Post("/admin/sources", h.HandleSetOracleAddress)

	return r
}
