// internal/app/features/achievements/handler.go
package achievements

import (
	"errors"
	"net/http"

	achievementstore "github.com/commitchain/commitchaind/internal/app/store/achievements"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"go.uber.org/zap"
)

// Handler is the dependency container for the achievement badge registry.
type Handler struct {
	Log    *zap.Logger
	Badges *achievementstore.Store
	Events *eventlog.Logger

	Owner          string
	MaxSupply      uint64
	BaseMetadataURL string
}

func NewHandler(badges *achievementstore.Store, events *eventlog.Logger, owner string, maxSupply uint64, baseMetadataURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Log:             logger,
		Badges:          badges,
		Events:          events,
		Owner:           owner,
		MaxSupply:       maxSupply,
		BaseMetadataURL: baseMetadataURL,
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
	case errors.Is(err, achievementstore.ErrTokenNotFound),
		errors.Is(err, achievementstore.ErrTypeNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, achievementstore.ErrTypeExists):
		httpjson.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, achievementstore.ErrSupplyExhausted):
		httpjson.Error(w, http.StatusConflict, err.Error())
	default:
		h.Log.Error("achievement store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
