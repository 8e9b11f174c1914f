// internal/app/features/rewards/token.go
package rewards

import (
	"context"
	"net/http"
	"time"

	rewardstore "github.com/commitchain/commitchaind/internal/app/store/rewards"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeBalance serves GET /token/balances/{address}: the COMMIT balance plus
// the platform-fee discount that balance earns.
func (h *Handler) ServeBalance(w http.ResponseWriter, r *http.Request) {
	address, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	balance, err := h.Tokens.Balance(ctx, address)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"address":          address,
		"balance":          balance.String(),
		"fee_discount_bps": rewardstore.FeeDiscountBps(balance),
	})
}

// ServeSupply serves GET /token/supply.
func (h *Handler) ServeSupply(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	total, err := h.Tokens.TotalSupply(ctx)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"total_supply": total.String(),
		"max_supply":   h.MaxSupply.String(),
	})
}

type stakeRequest struct {
	Amount       string `json:"amount"`
	DurationDays uint32 `json:"duration_days"`
}

// HandleStake processes POST /token/stake: locks the caller's tokens for the
// chosen duration at the APY tier that duration earns.
func (h *Handler) HandleStake(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.Caller(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var req stakeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		httpjson.Error(w, http.StatusBadRequest, "amount must be greater than 0")
		return
	}
	if req.DurationDays == 0 {
		httpjson.Error(w, http.StatusBadRequest, "duration_days must be greater than 0")
		return
	}
	duration := time.Duration(req.DurationDays) * 24 * time.Hour

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pos, err := h.Tokens.OpenPosition(ctx, caller, amount, duration)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventTokensStaked,
		Address: caller,
		Fields: map[string]any{
			"amount":   amount.String(),
			"rate_bps": pos.RateBps,
		},
	})

	httpjson.Respond(w, http.StatusCreated, pos)
}

// HandleUnstake processes POST /token/positions/{positionID}/unstake: pays
// out principal plus yield once the lock has elapsed.
func (h *Handler) HandleUnstake(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.Caller(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "positionID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid position id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	payout, err := h.Tokens.ClosePosition(ctx, id, caller)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventTokensUnstaked,
		Address: caller,
		Fields:  map[string]any{"payout": payout.String()},
	})

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"position_id": id.Hex(),
		"payout":      payout.String(),
	})
}

// ServePositions serves GET /token/positions/{address}.
func (h *Handler) ServePositions(w http.ResponseWriter, r *http.Request) {
	address, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	positions, err := h.Tokens.ListPositions(ctx, address)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"positions": positions})
}

type mintRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// HandleMint processes POST /token/admin/mint (owner only).
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var req mintRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	address, err := identity.Normalize(req.Address)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		httpjson.Error(w, http.StatusBadRequest, "amount must be greater than 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tokens.Mint(ctx, address, amount, h.MaxSupply); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventTokensMinted,
		Address: address,
		Fields: map[string]any{
			"amount": amount.String(),
			"minter": caller,
		},
	})

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"address": address,
		"amount":  amount.String(),
	})
}
