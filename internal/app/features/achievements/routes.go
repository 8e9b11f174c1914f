// internal/app/features/achievements/routes.go
package achievements

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Reads
	r.Get("/types", h.ServeTypes)
	r.Get("/tokens/{tokenID}", h.ServeToken)
	r.Get("/owners/{address}", h.ServeOwnerTokens)

	// Owner administration
	r.Post("/admin/types", h.HandleAddType)
	r.Post("/admin/mint", h.HandleMint)

	return r
}
