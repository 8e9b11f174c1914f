// internal/app/features/rewards/handler.go
package rewards

import (
	"errors"
	"net/http"

	rewardstore "github.com/commitchain/commitchaind/internal/app/store/rewards"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler is the dependency container for the COMMIT token surface:
// balances, staking positions, and owner minting under the supply ceiling.
type Handler struct {
	Log    *zap.Logger
	Tokens *rewardstore.Store
	Events *eventlog.Logger

	Owner     string
	MaxSupply decimal.Decimal
}

func NewHandler(tokens *rewardstore.Store, events *eventlog.Logger, owner string, maxSupply decimal.Decimal, logger *zap.Logger) *Handler {
	return &Handler{
		Log:       logger,
		Tokens:    tokens,
		Events:    events,
		Owner:     owner,
		MaxSupply: maxSupply,
	}
}

func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller, err := identity.Caller(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	if caller != h.Owner {
		httpjson.Error(w, http.StatusForbidden, "caller is not the owner")
		return "", false
	}
	return caller, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rewardstore.ErrPositionNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, rewardstore.ErrInsufficientBalance),
		errors.Is(err, rewardstore.ErrSupplyExceeded):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, rewardstore.ErrPositionWithdrawn),
		errors.Is(err, rewardstore.ErrPositionLocked):
		httpjson.Error(w, http.StatusConflict, err.Error())
	default:
		h.Log.Error("reward store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
