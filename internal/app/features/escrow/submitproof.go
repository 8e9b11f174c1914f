// internal/app/features/escrow/submitproof.go
package escrow

import (
	"context"
	"net/http"
	"time"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
)

type submitProofRequest struct {
	ProofHash string `json:"proof_hash"`
}

// HandleSubmitProof processes POST /escrow/groups/{groupID}/proof. Proofs
// are only accepted from members, strictly before the deadline. Starting
// the peer verification is a separate call to the voter component; the
// ledger does not auto-chain the two.
func (h *Handler) HandleSubmitProof(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.Caller(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.requireUnpaused(w, r) {
		return
	}

	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var req submitProofRequest
	if err := httpjson.Decode(r, &req); err != nil || req.ProofHash == "" {
		httpjson.Error(w, http.StatusBadRequest, "proof_hash is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !time.Now().UTC().Before(group.Deadline) {
		httpjson.Error(w, http.StatusConflict, "Deadline has passed")
		return
	}

	if err := h.Members.SetProof(ctx, groupID, caller, req.ProofHash); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventProofSubmitted,
		GroupID: groupID,
		Address: caller,
		Fields:  map[string]any{"proof_hash": req.ProofHash},
	})

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"group_id":   groupID,
		"member":     caller,
		"proof_hash": req.ProofHash,
	})
}
