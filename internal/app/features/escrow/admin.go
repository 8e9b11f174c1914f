// internal/app/features/escrow/admin.go
package escrow

import (
	"context"
	"net/http"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
)

// Platform fee ceiling, basis points.
const maxFeeBps = 1000

// requireOwner gates the admin endpoints to the configured platform owner.
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

type updateFeeRequest struct {
	FeeBps uint32 `json:"fee_bps"`
}

// HandleUpdatePlatformFee processes POST /escrow/admin/fee (owner only).
func (h *Handler) HandleUpdatePlatformFee(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var req updateFeeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FeeBps > maxFeeBps {
		httpjson.Error(w, http.StatusBadRequest, "fee cannot exceed 10%")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Groups.UpdateFee(ctx, req.FeeBps); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Events.Emit(ctx, models.Event{
		Type:    models.EventPlatformFeeUpdated,
		Address: caller,
		Fields:  map[string]any{"fee_bps": req.FeeBps},
	})
	httpjson.Respond(w, http.StatusOK, map[string]any{"fee_bps": req.FeeBps})
}

// HandlePause processes POST /escrow/admin/pause (owner only). While paused,
// every mutating escrow call is rejected; reads stay available.
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true, models.EventPaused)
}

// HandleUnpause processes POST /escrow/admin/unpause (owner only).
func (h *Handler) HandleUnpause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false, models.EventUnpaused)
}

func (h *Handler) setPaused(w http.ResponseWriter, r *http.Request, paused bool, eventType string) {
	caller, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Groups.SetPaused(ctx, paused); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Events.Emit(ctx, models.Event{Type: eventType, Address: caller})
	httpjson.Respond(w, http.StatusOK, map[string]any{"paused": paused})
}
