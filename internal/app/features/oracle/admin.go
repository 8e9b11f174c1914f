// internal/app/features/oracle/admin.go
package oracle

import (
	"context"
	"net/http"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type setJobRequest struct {
	Source string `json:"source"`
	JobID  string `json:"job_id"`
	Fee    string `json:"fee"`
}

// HandleSetJob processes POST /oracle/admin/jobs (owner only): maps a data
// source to an oracle job id and per-request fee.
func (h *Handler) HandleSetJob(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireOwner(w, r); !ok {
		return
	}

	var req setJobRequest
	if err := httpjson.Decode(r, &req); err != nil || req.Source == "" || req.JobID == "" {
		httpjson.Error(w, http.StatusBadRequest, "source and job_id are required")
		return
	}
	fee, err := decimal.NewFromString(req.Fee)
	if err != nil || fee.IsNegative() {
		httpjson.Error(w, http.StatusBadRequest, "invalid fee")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	job := models.DataSourceJob{
		Source: req.Source,
		JobID:  req.JobID,
		Fee:    fee.String(),
	}
	if err := h.Requests.SetJob(ctx, job); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, job)
}

type callerRequest struct {
	Address string `json:"address"`
}

// HandleAddCaller processes POST /oracle/admin/callers (owner only).
func (h *Handler) HandleAddCaller(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireOwner(w, r); !ok {
		return
	}

	var req callerRequest
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

	if err := h.Requests.AddCaller(ctx, address); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"address": address})
}

// HandleRemoveCaller processes DELETE /oracle/admin/callers/{address} (owner
// only).
func (h *Handler) HandleRemoveCaller(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Requests.RemoveCaller(ctx, address); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"address": address})
}
