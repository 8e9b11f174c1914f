// internal/app/features/verification/settings.go
package verification

import (
	"context"
	"net/http"
	"time"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
)

// ServeVotingSettings serves GET /verification/admin/settings.
func (h *Handler) ServeVotingSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cfg, err := h.Votes.Settings(ctx)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, cfg)
}

type updateVotingSettingsRequest struct {
	VotingDurationHours uint32 `json:"voting_duration_hours"`
	RequiredVotes       uint32 `json:"required_votes"`
	ApprovalThreshold   uint32 `json:"approval_threshold"`
}

// HandleUpdateVotingSettings processes POST /verification/admin/settings
// (owner only).
func (h *Handler) HandleUpdateVotingSettings(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireOwner(w, r); !ok {
		return
	}

	var req updateVotingSettingsRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VotingDurationHours == 0 || req.RequiredVotes == 0 {
		httpjson.Error(w, http.StatusBadRequest, "voting duration and required votes must be greater than 0")
		return
	}
	if req.ApprovalThreshold == 0 || req.ApprovalThreshold > 100 {
		httpjson.Error(w, http.StatusBadRequest, "approval threshold must be 1-100")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cfg := models.VotingSettings{
		VotingDuration:    time.Duration(req.VotingDurationHours) * time.Hour,
		RequiredVotes:     req.RequiredVotes,
		ApprovalThreshold: req.ApprovalThreshold,
	}
	if err := h.Votes.UpdateSettings(ctx, cfg); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, cfg)
}
