// internal/app/features/milestones/progress.go
package milestones

import (
	"context"
	"net/http"

	milestonestore "github.com/commitchain/commitchaind/internal/app/store/milestones"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type updateProgressRequest struct {
	Actual uint64 `json:"actual"`
}

// HandleUpdateProgress processes
// POST /milestones/groups/{groupID}/members/{address}/milestones/{index}/progress.
// Only addresses in the authorized-oracle set may push. Actual is
// last-write-wins; the reached flag latches and MilestoneReached fires only on
// the update that crosses the target.
func (h *Handler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	oracle, ok := h.requireOracle(w, r)
	if !ok {
		return
	}
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	member, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := indexParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid milestone index")
		return
	}

	var req updateProgressRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, crossed, err := h.Milestones.UpdateProgress(ctx, groupID, member, index, req.Actual)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if crossed {
		h.Events.Emit(ctx, models.Event{
			Type:    models.EventMilestoneReached,
			GroupID: groupID,
			Address: member,
			Fields:  map[string]any{"index": index, "actual": req.Actual, "oracle": oracle},
		})
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"milestone": m,
		"progress":  m.Progress(),
	})
}

type batchProgressRequest struct {
	Members []string `json:"members"`
	Actuals []uint64 `json:"actuals"`
}

// HandleBatchUpdateProgress processes
// POST /milestones/groups/{groupID}/milestones/{index}/progress/batch.
// Members and actuals are parallel arrays; entries are applied independently
// and one bad entry does not roll back the rest.
func (h *Handler) HandleBatchUpdateProgress(w http.ResponseWriter, r *http.Request) {
	oracle, ok := h.requireOracle(w, r)
	if !ok {
		return
	}
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	index, err := indexParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid milestone index")
		return
	}

	var req batchProgressRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Members) != len(req.Actuals) {
		h.writeStoreError(w, milestonestore.ErrLengthMismatch)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	type entryResult struct {
		Member   string `json:"member"`
		Progress uint32 `json:"progress,omitempty"`
		Error    string `json:"error,omitempty"`
	}
	results := make([]entryResult, 0, len(req.Members))

	for i, raw := range req.Members {
		member, err := identity.Normalize(raw)
		if err != nil {
			results = append(results, entryResult{Member: raw, Error: err.Error()})
			continue
		}
		m, crossed, err := h.Milestones.UpdateProgress(ctx, groupID, member, index, req.Actuals[i])
		if err != nil {
			h.Log.Warn("batch progress entry",
				zap.Uint64("group_id", groupID),
				zap.String("member", member),
				zap.Error(err))
			results = append(results, entryResult{Member: member, Error: err.Error()})
			continue
		}
		if crossed {
			h.Events.Emit(ctx, models.Event{
				Type:    models.EventMilestoneReached,
				GroupID: groupID,
				Address: member,
				Fields:  map[string]any{"index": index, "actual": req.Actuals[i], "oracle": oracle},
			})
		}
		results = append(results, entryResult{Member: member, Progress: m.Progress()})
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{"results": results})
}
