// internal/app/features/verification/voting.go
package verification

import (
	"context"
	"net/http"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleStartVerification processes POST /verification/groups/{groupID}/start.
// The caller opens the voting window on their own submitted proof. The proof
// must already be on the membership record.
func (h *Handler) HandleStartVerification(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	membership, err := h.Members.Get(ctx, groupID, caller)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if membership.ProofHash == "" {
		httpjson.Error(w, http.StatusConflict, "no proof submitted")
		return
	}

	v, err := h.Votes.Start(ctx, groupID, caller, membership.ProofHash)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventVerificationStarted,
		GroupID: groupID,
		Address: caller,
		Fields:  map[string]any{"proof_hash": v.ProofHash, "end_time": v.EndTime},
	})

	httpjson.Respond(w, http.StatusCreated, v)
}

type castVoteRequest struct {
	Approve bool `json:"approve"`
}

// HandleCastVote processes
// POST /verification/groups/{groupID}/members/{address}/vote. Voters must be
// group members; self-votes and duplicate votes are rejected by the store.
func (h *Handler) HandleCastVote(w http.ResponseWriter, r *http.Request) {
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
	subject, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var req castVoteRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.requireMember(w, r, groupID, caller) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Votes.CastVote(ctx, groupID, subject, caller, req.Approve)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventVoteCast,
		GroupID: groupID,
		Address: caller,
		Fields: map[string]any{
			"subject": subject,
			"approve": req.Approve,
		},
	})
	if v.IsCompleted {
		h.Events.Emit(ctx, models.Event{
			Type:    models.EventVerificationCompleted,
			GroupID: groupID,
			Address: subject,
			Fields:  map[string]any{"approved": v.IsApproved},
		})
	}

	httpjson.Respond(w, http.StatusOK, v)
}

// ServeVerification serves
// GET /verification/groups/{groupID}/members/{address}.
func (h *Handler) ServeVerification(w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	subject, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Votes.Get(ctx, groupID, subject)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, v)
}
