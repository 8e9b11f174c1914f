// internal/app/features/verification/handler.go
package verification

import (
	"errors"
	"net/http"
	"strconv"

	membershipstore "github.com/commitchain/commitchaind/internal/app/store/memberships"
	verificationstore "github.com/commitchain/commitchaind/internal/app/store/verifications"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler is the dependency container for the peer-review voter: the
// verification store it owns, the membership store it gates voters with, and
// the event log.
type Handler struct {
	Log     *zap.Logger
	Votes   *verificationstore.Store
	Members *membershipstore.Store
	Events  *eventlog.Logger

	Owner string
}

func NewHandler(votes *verificationstore.Store, members *membershipstore.Store, events *eventlog.Logger, owner string, logger *zap.Logger) *Handler {
	return &Handler{
		Log:     logger,
		Votes:   votes,
		Members: members,
		Events:  events,
		Owner:   owner,
	}
}

func groupIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "groupID"), 10, 64)
}

// requireOwner gates admin endpoints to the configured platform owner.
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

// requireMember rejects callers that have not joined the group.
func (h *Handler) requireMember(w http.ResponseWriter, r *http.Request, groupID uint64, address string) bool {
	ok, err := h.Members.IsMember(r.Context(), groupID, address)
	if err != nil {
		h.Log.Error("membership check", zap.Uint64("group_id", groupID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if !ok {
		httpjson.Error(w, http.StatusForbidden, "not a group member")
		return false
	}
	return true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, verificationstore.ErrVerificationNotFound),
		errors.Is(err, verificationstore.ErrDisputeNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, verificationstore.ErrVerificationExists),
		errors.Is(err, verificationstore.ErrVerificationClosed),
		errors.Is(err, verificationstore.ErrVotingEnded),
		errors.Is(err, verificationstore.ErrAlreadyVoted),
		errors.Is(err, verificationstore.ErrDisputeResolved):
		httpjson.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, verificationstore.ErrSelfVote):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, membershipstore.ErrNotMember):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	default:
		h.Log.Error("verification store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
