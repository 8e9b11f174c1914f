// internal/app/features/escrow/claim.go
package escrow

import (
	"context"
	"net/http"
	"strconv"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HandleClaimMilestoneReward processes
// POST /escrow/groups/{groupID}/milestones/{index}/claim. The claimant must
// be a member, the milestone must be reached in the tracker, and each
// (member, index) pair pays out once. The reward is the member's stake times
// the group's threshold for that index.
func (h *Handler) HandleClaimMilestoneReward(w http.ResponseWriter, r *http.Request) {
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
	index64, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 32)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid milestone index")
		return
	}
	index := uint32(index64)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if int(index) >= len(group.MilestoneThresholds) {
		httpjson.Error(w, http.StatusBadRequest, "milestone index out of range")
		return
	}

	membership, err := h.Members.Get(ctx, groupID, caller)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	reached, err := h.Progress.IsReached(ctx, groupID, caller, index)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !reached {
		httpjson.Error(w, http.StatusConflict, "Milestone not reached")
		return
	}

	if err := h.Members.ClaimMilestone(ctx, groupID, caller, index); err != nil {
		h.writeStoreError(w, err)
		return
	}

	stake, err := decimal.NewFromString(membership.StakedAmount)
	if err != nil {
		h.Log.Error("corrupt staked amount", zap.Uint64("group_id", groupID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	reward := stake.Mul(decimal.NewFromInt(int64(group.MilestoneThresholds[index]))).
		Div(decimal.NewFromInt(10000)).Truncate(18)

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventMilestoneRewardClaimed,
		GroupID: groupID,
		Address: caller,
		Fields: map[string]any{
			"index":  index,
			"reward": reward.String(),
		},
	})

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"group_id": groupID,
		"member":   caller,
		"index":    index,
		"reward":   reward.String(),
	})
}
