// internal/app/features/milestones/targets.go
package milestones

import (
	"context"
	"net/http"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type setMilestoneRequest struct {
	Target     uint64 `json:"target"`
	Type       string `json:"type"`
	DataSource string `json:"data_source"`
}

// HandleSetMilestone processes
// POST /milestones/groups/{groupID}/members/{address}/milestones/{index}
// (owner only). Setting an existing milestone overwrites it and resets
// progress.
func (h *Handler) HandleSetMilestone(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireOwner(w, r); !ok {
		return
	}
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	member, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := indexParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid milestone index")
		return
	}

	var req setMilestoneRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type != models.MilestoneManual && req.Type != models.MilestoneOracle {
		httpjson.Error(w, http.StatusBadRequest, "type must be manual or oracle")
		return
	}
	if req.Type == models.MilestoneOracle && req.DataSource == "" {
		httpjson.Error(w, http.StatusBadRequest, "data_source is required for oracle milestones")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Groups.GetByID(ctx, groupID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	if _, err := h.Members.Get(ctx, groupID, member); err != nil {
		h.writeStoreError(w, err)
		return
	}

	m := models.Milestone{
		GroupID:    groupID,
		Member:     member,
		Index:      index,
		Target:     req.Target,
		Type:       req.Type,
		DataSource: req.DataSource,
	}
	if err := h.Milestones.Set(ctx, m); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventMilestoneSet,
		GroupID: groupID,
		Address: member,
		Fields: map[string]any{
			"index":  index,
			"target": req.Target,
			"type":   req.Type,
		},
	})

	httpjson.Respond(w, http.StatusCreated, m)
}

// ServeMilestones serves
// GET /milestones/groups/{groupID}/members/{address}/milestones.
func (h *Handler) ServeMilestones(w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	member, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	milestones, err := h.Milestones.ListByGroupMember(ctx, groupID, member)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"milestones": milestones})
}

// ServeMilestone serves
// GET /milestones/groups/{groupID}/members/{address}/milestones/{index},
// including the computed progress percentage.
func (h *Handler) ServeMilestone(w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	member, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := indexParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid milestone index")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Milestones.Get(ctx, groupID, member, index)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"milestone": m,
		"progress":  m.Progress(),
	})
}

type milestoneProofRequest struct {
	ProofHash string `json:"proof_hash"`
}

// HandleSubmitMilestoneProof processes
// POST /milestones/groups/{groupID}/milestones/{index}/proof. The caller
// proves their own manual milestone; oracle milestones reject proofs.
func (h *Handler) HandleSubmitMilestoneProof(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.Caller(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	index, err := indexParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid milestone index")
		return
	}

	var req milestoneProofRequest
	if err := httpjson.Decode(r, &req); err != nil || req.ProofHash == "" {
		httpjson.Error(w, http.StatusBadRequest, "proof_hash is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Milestones.SubmitProof(ctx, groupID, caller, index, req.ProofHash)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventMilestoneReached,
		GroupID: groupID,
		Address: caller,
		Fields:  map[string]any{"index": index, "proof_hash": req.ProofHash},
	})

	httpjson.Respond(w, http.StatusOK, m)
}
