// internal/app/features/escrow/creategroup.go
package escrow

import (
	"context"
	"net/http"
	"time"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/textclean"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type createGroupRequest struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	StakeAmount         string   `json:"stake_amount"`
	Deadline            int64    `json:"deadline"`
	IsPrivate           bool     `json:"is_private"`
	MilestoneThresholds []uint32 `json:"milestone_thresholds"`

	// The AVAX the caller sends with the call; must cover the stake.
	Value string `json:"value"`
}

// HandleCreateGroup processes POST /escrow/groups: the caller stakes the
// required amount and becomes the new group's first member.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.Caller(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.requireUnpaused(w, r) {
		return
	}

	var req createGroupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := textclean.Clean(req.Name)
	if name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	stake, err := decimal.NewFromString(req.StakeAmount)
	if err != nil || !stake.IsPositive() {
		httpjson.Error(w, http.StatusBadRequest, "stake amount must be greater than 0")
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil || value.LessThan(stake) {
		httpjson.Error(w, http.StatusBadRequest, "Insufficient stake amount")
		return
	}

	deadline := time.Unix(req.Deadline, 0).UTC()
	if !deadline.After(time.Now().UTC()) {
		httpjson.Error(w, http.StatusBadRequest, "Deadline must be in the future")
		return
	}
	for _, bps := range req.MilestoneThresholds {
		if bps == 0 || bps > 10000 {
			httpjson.Error(w, http.StatusBadRequest, "milestone thresholds must be 1-10000 basis points")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.Groups.Create(ctx, models.Group{
		Name:                name,
		Description:         textclean.Clean(req.Description),
		Creator:             caller,
		StakeAmount:         stake.String(),
		Deadline:            deadline,
		IsPrivate:           req.IsPrivate,
		MilestoneThresholds: req.MilestoneThresholds,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	// The creator's stake is the first membership.
	err = h.Members.Add(ctx, models.Membership{
		GroupID:      group.GroupID,
		Member:       caller,
		Goal:         "",
		StakedAmount: stake.String(),
	})
	if err != nil {
		h.Log.Error("creator membership insert", zap.Uint64("group_id", group.GroupID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventGroupCreated,
		GroupID: group.GroupID,
		Address: caller,
		Fields: map[string]any{
			"name":         group.Name,
			"stake_amount": group.StakeAmount,
		},
	})

	httpjson.Respond(w, http.StatusCreated, group)
}
