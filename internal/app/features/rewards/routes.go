// internal/app/features/rewards/routes.go
package rewards

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Balances and supply
	r.Get("/balances/{address}", h.ServeBalance)
	r.Get("/supply", h.ServeSupply)

	// Staking
	r.Post("/stake", h.HandleStake)
	r.Post("/positions/{positionID}/unstake", h.HandleUnstake)
	r.Get("/positions/{address}", h.ServePositions)

	// Owner administration
	r.Post("/admin/mint", h.HandleMint)

	return r
}
