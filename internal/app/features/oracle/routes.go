// internal/app/features/oracle/routes.go
package oracle

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Request lifecycle
	r.Post("/requests", h.HandleCreateRequest)
	r.Get("/requests/pending", h.ServePendingRequests)
	r.Get("/requests/{requestID}", h.ServeRequest)
	r.Post("/requests/{requestID}/fulfill", h.HandleFulfillRequest)
	r.Post("/requests/{requestID}/fail", h.HandleFailRequest)

	// Owner administration
	r.Post("/admin/jobs", h.HandleSetJob)
	r.Post("/admin/callers", h.HandleAddCaller)
	r.Delete("/admin/callers/{address}", h.HandleRemoveCaller)

	return r
}
