// internal/app/features/milestones/handler.go
package milestones

import (
	"errors"
	"net/http"
	"strconv"

	groupstore "github.com/commitchain/commitchaind/internal/app/store/groups"
	membershipstore "github.com/commitchain/commitchaind/internal/app/store/memberships"
	milestonestore "github.com/commitchain/commitchaind/internal/app/store/milestones"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler is the dependency container for the milestone tracker. Targets are
// set by the platform owner, manual milestones are proven by members, and
// oracle milestones take progress pushes from the authorized-oracle set.
type Handler struct {
	Log        *zap.Logger
	Milestones *milestonestore.Store
	Groups     *groupstore.Store
	Members    *membershipstore.Store
	Events     *eventlog.Logger

	Owner string
}

func NewHandler(milestones *milestonestore.Store, groups *groupstore.Store, members *membershipstore.Store, events *eventlog.Logger, owner string, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		Milestones: milestones,
		Groups:     groups,
		Members:    members,
		Events:     events,
		Owner:      owner,
	}
}

func groupIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "groupID"), 10, 64)
}

func indexParam(r *http.Request) (uint32, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 32)
	return uint32(v), err
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

// requireOracle rejects progress pushes from addresses outside the
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
	case errors.Is(err, milestonestore.ErrMilestoneNotSet),
		errors.Is(err, groupstore.ErrGroupNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, milestonestore.ErrZeroTarget),
		errors.Is(err, milestonestore.ErrLengthMismatch):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, milestonestore.ErrAlreadyReached),
		errors.Is(err, milestonestore.ErrWrongType):
		httpjson.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, membershipstore.ErrNotMember):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	default:
		h.Log.Error("milestone store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
