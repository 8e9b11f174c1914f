// internal/app/features/activity/handler.go
package activity

import (
	"context"
	"net/http"
	"strconv"

	eventstore "github.com/commitchain/commitchaind/internal/app/store/events"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the emitted-event history feeds.
type Handler struct {
	Log    *zap.Logger
	Events *eventstore.Store
}

func NewHandler(events *eventstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Events: events}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/groups/{groupID}", h.ServeGroupEvents)
	r.Get("/addresses/{address}", h.ServeAddressEvents)
	return r
}

// ServeGroupEvents serves GET /events/groups/{groupID}?limit=n.
func (h *Handler) ServeGroupEvents(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseUint(chi.URLParam(r, "groupID"), 10, 64)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	events, err := h.Events.ListByGroup(ctx, groupID, limit)
	if err != nil {
		h.Log.Error("list group events", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"events": events})
}

// ServeAddressEvents serves GET /events/addresses/{address}?limit=n, the
// recent-activity feed for one wallet.
func (h *Handler) ServeAddressEvents(w http.ResponseWriter, r *http.Request) {
	address, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	events, err := h.Events.ListByAddress(ctx, address, limit)
	if err != nil {
		h.Log.Error("list address events", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"events": events})
}
