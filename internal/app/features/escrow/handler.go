// internal/app/features/escrow/handler.go
package escrow

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	achievementstore "github.com/commitchain/commitchaind/internal/app/store/achievements"
	groupstore "github.com/commitchain/commitchaind/internal/app/store/groups"
	membershipstore "github.com/commitchain/commitchaind/internal/app/store/memberships"
	rewardstore "github.com/commitchain/commitchaind/internal/app/store/rewards"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// VerdictReader is the escrow ledger's read-only view of the verification
// voter. Settlement consults it; it never writes through it.
type VerdictReader interface {
	IsApproved(ctx context.Context, groupID uint64, member string) (bool, error)
}

// ProgressReader is the escrow ledger's read-only view of the milestone
// tracker, consulted by milestone-reward claims.
type ProgressReader interface {
	IsReached(ctx context.Context, groupID uint64, member string, index uint32) (bool, error)
}

// Handler is the shared dependency container for the escrow feature: the
// group and membership stores it owns, read-only views of the voter and
// tracker, and the reward/achievement ledgers settlement mints into.
type Handler struct {
	Log      *zap.Logger
	Groups   *groupstore.Store
	Members  *membershipstore.Store
	Verdicts VerdictReader
	Progress ProgressReader
	Rewards  *rewardstore.Store
	Badges   *achievementstore.Store
	Events   *eventlog.Logger

	Owner          string
	TokenMaxSupply decimal.Decimal
	BadgeMaxSupply uint64
}

func NewHandler(
	groups *groupstore.Store,
	members *membershipstore.Store,
	verdicts VerdictReader,
	progress ProgressReader,
	rewards *rewardstore.Store,
	badges *achievementstore.Store,
	events *eventlog.Logger,
	owner string,
	tokenMaxSupply decimal.Decimal,
	badgeMaxSupply uint64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:            logger,
		Groups:         groups,
		Members:        members,
		Verdicts:       verdicts,
		Progress:       progress,
		Rewards:        rewards,
		Badges:         badges,
		Events:         events,
		Owner:          owner,
		TokenMaxSupply: tokenMaxSupply,
		BadgeMaxSupply: badgeMaxSupply,
	}
}

// groupIDParam parses the {groupID} URL parameter.
func groupIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "groupID"), 10, 64)
}

// requireUnpaused rejects the call when the platform pause switch is on.
// Returns false after writing the response when blocked.
func (h *Handler) requireUnpaused(w http.ResponseWriter, r *http.Request) bool {
	settings, err := h.Groups.Settings(r.Context())
	if err != nil {
		h.Log.Error("load platform settings", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if settings.Paused {
		httpjson.Error(w, http.StatusServiceUnavailable, "platform is paused")
		return false
	}
	return true
}

// writeStoreError maps store sentinel errors onto HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, groupstore.ErrGroupNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, groupstore.ErrGroupInactive),
		errors.Is(err, groupstore.ErrAlreadySettled),
		errors.Is(err, membershipstore.ErrAlreadyMember),
		errors.Is(err, membershipstore.ErrAlreadyClaimed):
		httpjson.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, membershipstore.ErrNotMember):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	default:
		h.Log.Error("escrow store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
