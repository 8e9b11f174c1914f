// internal/app/features/oracle/handler.go
package oracle

import (
	"errors"
	"net/http"

	milestonestore "github.com/commitchain/commitchaind/internal/app/store/milestones"
	oraclestore "github.com/commitchain/commitchaind/internal/app/store/oracle"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"go.uber.org/zap"
)

// Handler is the dependency container for the oracle bridge: the request
// store it owns and the milestone tracker that fulfilled results are
// forwarded into.
type Handler struct {
	Log        *zap.Logger
	Requests   *oraclestore.Store
	Milestones *milestonestore.Store
	Events     *eventlog.Logger

	Owner string
}

func NewHandler(requests *oraclestore.Store, milestones *milestonestore.Store, events *eventlog.Logger, owner string, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		Requests:   requests,
		Milestones: milestones,
		Events:     events,
		Owner:      owner,
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

// requireCaller gates request creation to the authorized-caller set. The
// owner is always allowed.
func (h *Handler) requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller, err := identity.Caller(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	if caller == h.Owner {
		return caller, true
	}
	ok, err := h.Requests.IsAuthorizedCaller(r.Context(), caller)
	if err != nil {
		h.Log.Error("caller authorization check", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return "", false
	}
	if !ok {
		httpjson.Error(w, http.StatusForbidden, oraclestore.ErrCallerNotAllowed.Error())
		return "", false
	}
	return caller, true
}

// requireOracle gates fulfillment to the milestone tracker's
// authorized-oracle set.
func (h *Handler) requireOracle(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller, err := identity.Caller(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	ok, err := h.Milestones.IsAuthorizedOracle(r.Context(), caller)
	if err != nil {
		h.Log.Error("oracle authorization check", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return "", false
	}
	if !ok {
		httpjson.Error(w, http.StatusForbidden, "Not authorized oracle")
		return "", false
	}
	return caller, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, oraclestore.ErrRequestNotFound),
		errors.Is(err, milestonestore.ErrMilestoneNotSet):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, oraclestore.ErrRequestResolved),
		errors.Is(err, milestonestore.ErrWrongType):
		httpjson.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, oraclestore.ErrUnknownSource):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, oraclestore.ErrCallerNotAllowed):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	default:
		h.Log.Error("oracle store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
