// internal/app/features/verification/disputes.go
package verification

import (
	"context"
	"net/http"
	"strconv"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/textclean"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type raiseDisputeRequest struct {
	Member string `json:"member"`
	Reason string `json:"reason"`
}

// HandleRaiseDispute processes POST /verification/groups/{groupID}/disputes.
// Any group member can challenge a started verification; the dispute is an
// audit entry and does not block or reverse settlement.
func (h *Handler) HandleRaiseDispute(w http.ResponseWriter, r *http.Request) {
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

	var req raiseDisputeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	subject, err := identity.Normalize(req.Member)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	reason := textclean.Clean(req.Reason)
	if reason == "" {
		httpjson.Error(w, http.StatusBadRequest, "reason is required")
		return
	}

	if !h.requireMember(w, r, groupID, caller) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Votes.RaiseDispute(ctx, groupID, subject, caller, reason)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventDisputeRaised,
		GroupID: groupID,
		Address: caller,
		Fields: map[string]any{
			"subject": subject,
			"index":   d.Index,
		},
	})

	httpjson.Respond(w, http.StatusCreated, d)
}

// ServeDisputes serves GET /verification/groups/{groupID}/disputes.
func (h *Handler) ServeDisputes(w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	disputes, err := h.Votes.ListDisputes(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"disputes": disputes})
}

type resolveDisputeRequest struct {
	Upheld bool `json:"upheld"`
}

// HandleResolveDispute processes
// POST /verification/groups/{groupID}/disputes/{index}/resolve (owner only).
// Resolving records the outcome; the underlying verdict is never flipped.
func (h *Handler) HandleResolveDispute(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	index64, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 32)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid dispute index")
		return
	}

	var req resolveDisputeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Votes.ResolveDispute(ctx, groupID, uint32(index64), req.Upheld); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventDisputeResolved,
		GroupID: groupID,
		Address: caller,
		Fields: map[string]any{
			"index":  index64,
			"upheld": req.Upheld,
		},
	})

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"group_id": groupID,
		"index":    index64,
		"upheld":   req.Upheld,
	})
}
