// internal/app/features/escrow/joingroup.go
package escrow

import (
	"context"
	"net/http"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/textclean"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type joinGroupRequest struct {
	Goal  string `json:"goal"`
	Value string `json:"value"`
}

// HandleJoinGroup processes POST /escrow/groups/{groupID}/join: the caller
// stakes the group's required amount and records their personal goal.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
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

	var req joinGroupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !group.IsActive {
		httpjson.Error(w, http.StatusConflict, "Group is not active")
		return
	}

	stake, err := decimal.NewFromString(group.StakeAmount)
	if err != nil {
		h.Log.Error("corrupt stake amount", zap.Uint64("group_id", groupID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil || value.LessThan(stake) {
		httpjson.Error(w, http.StatusBadRequest, "Insufficient stake amount")
		return
	}

	err = h.Members.Add(ctx, models.Membership{
		GroupID:      groupID,
		Member:       caller,
		Goal:         textclean.Clean(req.Goal),
		StakedAmount: stake.String(),
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	if err := h.Groups.AddStake(ctx, groupID, stake); err != nil {
		h.Log.Error("add stake", zap.Uint64("group_id", groupID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventMemberJoined,
		GroupID: groupID,
		Address: caller,
		Fields:  map[string]any{"stake_amount": stake.String()},
	})

	httpjson.Respond(w, http.StatusCreated, map[string]any{
		"group_id":      groupID,
		"member":        caller,
		"staked_amount": stake.String(),
	})
}
