// internal/app/features/escrow/settle.go
package escrow

import (
	"context"
	"net/http"
	"time"

	groupstore "github.com/commitchain/commitchaind/internal/app/store/groups"
	rewardstore "github.com/commitchain/commitchaind/internal/app/store/rewards"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Achievement type minted to every settled completer.
const goalCompletedType = "goal_completed"

// rarityForStake maps the AVAX stake backing a completed commitment to the
// badge rarity it earns.
func rarityForStake(stake decimal.Decimal) string {
	switch {
	case stake.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return models.RarityLegendary
	case stake.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return models.RarityEpic
	case stake.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return models.RarityRare
	default:
		return models.RarityCommon
	}
}

// HandleCompleteVerification processes POST /escrow/groups/{groupID}/settle.
// It runs once per group, strictly after the deadline: every member whose
// proof was approved by the peer vote splits the pool (minus the platform
// fee) evenly, receives the COMMIT completion bonus, and is minted a
// goal_completed badge. A group with zero completers still settles and still
// emits RewardsDistributed with zero amounts.
func (h *Handler) HandleCompleteVerification(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if group.SettledAt != nil {
		h.writeStoreError(w, groupstore.ErrAlreadySettled)
		return
	}
	if time.Now().UTC().Before(group.Deadline) {
		httpjson.Error(w, http.StatusConflict, "Deadline has not passed")
		return
	}

	members, err := h.Members.ListByGroup(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	// A member completes when they submitted a proof and the peer vote
	// approved it.
	var completers []models.Membership
	for _, m := range members {
		if m.ProofHash == "" {
			continue
		}
		approved, err := h.Verdicts.IsApproved(ctx, groupID, m.Member)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		if approved {
			completers = append(completers, m)
		}
	}

	pool, err := decimal.NewFromString(group.TotalStaked)
	if err != nil {
		h.Log.Error("corrupt total staked", zap.Uint64("group_id", groupID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	settings, err := h.Groups.Settings(ctx)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	totalReward := decimal.Zero
	share := decimal.Zero
	if len(completers) > 0 {
		fee := pool.Mul(decimal.NewFromInt(int64(settings.FeeBps))).Div(decimal.NewFromInt(10000))
		totalReward = pool.Sub(fee)
		share = totalReward.Div(decimal.NewFromInt(int64(len(completers)))).Truncate(18)
	}

	// Claim the settlement flag before paying out so a racing second call
	// cannot double-pay.
	if err := h.Groups.MarkSettled(ctx, groupID, totalReward, uint32(len(completers))); err != nil {
		h.writeStoreError(w, err)
		return
	}

	stake, _ := decimal.NewFromString(group.StakeAmount)
	rarity := rarityForStake(stake)
	for _, m := range completers {
		if err := h.Members.MarkCompleted(ctx, groupID, m.Member, share); err != nil {
			h.Log.Error("mark completed", zap.Uint64("group_id", groupID),
				zap.String("member", m.Member), zap.Error(err))
			continue
		}
		if err := h.Rewards.Mint(ctx, m.Member, rewardstore.CompletionBonus, h.TokenMaxSupply); err != nil {
			// Hitting the supply ceiling must not block settlement.
			h.Log.Warn("completion bonus mint", zap.String("member", m.Member), zap.Error(err))
		}
		if _, err := h.Badges.Mint(ctx, models.Achievement{
			Owner:     m.Member,
			Type:      goalCompletedType,
			GroupID:   groupID,
			ProofHash: m.ProofHash,
			Rarity:    rarity,
		}, h.BadgeMaxSupply); err != nil {
			h.Log.Warn("badge mint", zap.String("member", m.Member), zap.Error(err))
		}
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventRewardsDistributed,
		GroupID: groupID,
		Address: caller,
		Fields: map[string]any{
			"total_reward": totalReward.String(),
			"completers":   len(completers),
		},
	})

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"group_id":     groupID,
		"total_reward": totalReward.String(),
		"completers":   len(completers),
		"share":        share.String(),
	})
}
