// internal/app/features/milestones/admin.go
package milestones

import (
	"context"
	"net/http"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

type oracleRequest struct {
	Address string `json:"address"`
}

// HandleAddOracle processes POST /milestones/admin/oracles (owner only).
func (h *Handler) HandleAddOracle(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireOwner(w, r); !ok {
		return
	}

	var req oracleRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	address, err := identity.Normalize(req.Address)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Milestones.AddOracle(ctx, address); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"address": address})
}

// HandleRemoveOracle processes DELETE /milestones/admin/oracles/{address}
// (owner only).
func (h *Handler) HandleRemoveOracle(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireOwner(w, r); !ok {
		return
	}
	address, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Milestones.RemoveOracle(ctx, address); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"address": address})
}

type setOracleAddressRequest struct {
	DataSource string `json:"data_source"`
	Address    string `json:"address"`
}

// HandleSetOracleAddress processes POST /milestones/admin/sources (owner
// only): records which oracle address serves a data source.
func (h *Handler) HandleSetOracleAddress(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireOwner(w, r); !ok {
		return
	}

	var req setOracleAddressRequest
	if err := httpjson.Decode(r, &req); err != nil || req.DataSource == "" {
		httpjson.Error(w, http.StatusBadRequest, "data_source and address are required")
		return
	}
	address, err := identity.Normalize(req.Address)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Milestones.SetOracleAddress(ctx, req.DataSource, address); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"data_source": req.DataSource,
		"address":     address,
	})
}
