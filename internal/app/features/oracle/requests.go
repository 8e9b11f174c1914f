// internal/app/features/oracle/requests.go
package oracle

import (
	"context"
	"net/http"
	"strconv"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/requestid"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type createRequestBody struct {
	GroupID        uint64 `json:"group_id"`
	Member         string `json:"member"`
	MilestoneIndex uint32 `json:"milestone_index"`
	DataSource     string `json:"data_source"`
	Endpoint       string `json:"endpoint"`
	TargetValue    uint64 `json:"target_value"`
}

// HandleCreateRequest processes POST /oracle/requests (authorized callers
// only). The data source must have a configured job; the request id is an
// opaque keccak-derived token the off-chain worker echoes back at
// fulfillment.
func (h *Handler) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	var body createRequestBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	member, err := identity.Normalize(body.Member)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.TargetValue == 0 {
		httpjson.Error(w, http.StatusBadRequest, "Target must be greater than 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	job, err := h.Requests.Job(ctx, body.DataSource)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	req := models.OracleRequest{
		RequestID:      requestid.New(body.GroupID, member, body.MilestoneIndex),
		GroupID:        body.GroupID,
		Member:         member,
		MilestoneIndex: body.MilestoneIndex,
		DataSource:     body.DataSource,
		Endpoint:       body.Endpoint,
		JobID:          job.JobID,
		Fee:            job.Fee,
		TargetValue:    body.TargetValue,
	}
	if err := h.Requests.CreateRequest(ctx, req); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventOracleRequested,
		GroupID: body.GroupID,
		Address: caller,
		Fields: map[string]any{
			"request_id":  req.RequestID,
			"data_source": req.DataSource,
			"member":      member,
		},
	})

	httpjson.Respond(w, http.StatusCreated, req)
}

type fulfillRequestBody struct {
	Result uint64 `json:"result"`
}

// HandleFulfillRequest processes POST /oracle/requests/{requestID}/fulfill
// (authorized oracles only). Resolving a request forwards the result into the
// milestone tracker; a request resolves at most once.
func (h *Handler) HandleFulfillRequest(w http.ResponseWriter, r *http.Request) {
	oracle, ok := h.requireOracle(w, r)
	if !ok {
		return
	}
	requestID := chi.URLParam(r, "requestID")

	var body fulfillRequestBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	req, err := h.Requests.Resolve(ctx, requestID, body.Result, true, "")
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventOracleFulfilled,
		GroupID: req.GroupID,
		Address: oracle,
		Fields: map[string]any{
			"request_id": requestID,
			"result":     body.Result,
		},
	})

	// Forward into the tracker. The request is already resolved at this
	// point, so a forward failure (unset or manual milestone) is logged and
	// reported, never fatal.
	m, crossed, err := h.Milestones.UpdateProgress(ctx, req.GroupID, req.Member, req.MilestoneIndex, body.Result)
	if err != nil {
		h.Log.Warn("forward oracle result",
			zap.String("request_id", requestID),
			zap.Uint64("group_id", req.GroupID),
			zap.Error(err))
		httpjson.Respond(w, http.StatusOK, map[string]any{
			"request":       req,
			"forward_error": err.Error(),
		})
		return
	}
	if crossed {
		h.Events.Emit(ctx, models.Event{
			Type:    models.EventMilestoneReached,
			GroupID: req.GroupID,
			Address: req.Member,
			Fields:  map[string]any{"index": req.MilestoneIndex, "actual": body.Result, "oracle": oracle},
		})
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"request":   req,
		"milestone": m,
		"progress":  m.Progress(),
	})
}

type failRequestBody struct {
	Reason string `json:"reason"`
}

// HandleFailRequest processes POST /oracle/requests/{requestID}/fail
// (authorized oracles only): marks a request failed without touching
// milestone progress.
func (h *Handler) HandleFailRequest(w http.ResponseWriter, r *http.Request) {
	oracle, ok := h.requireOracle(w, r)
	if !ok {
		return
	}
	requestID := chi.URLParam(r, "requestID")

	var body failRequestBody
	if err := httpjson.Decode(r, &body); err != nil || body.Reason == "" {
		httpjson.Error(w, http.StatusBadRequest, "reason is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, err := h.Requests.Resolve(ctx, requestID, 0, false, body.Reason)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventOracleRequestFailed,
		GroupID: req.GroupID,
		Address: oracle,
		Fields: map[string]any{
			"request_id": requestID,
			"reason":     body.Reason,
		},
	})

	httpjson.Respond(w, http.StatusOK, req)
}

// ServeRequest serves GET /oracle/requests/{requestID}.
func (h *Handler) ServeRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, err := h.Requests.Get(ctx, chi.URLParam(r, "requestID"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, req)
}

// ServePendingRequests serves GET /oracle/requests/pending?limit=n for
// off-chain oracle workers to poll.
func (h *Handler) ServePendingRequests(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	requests, err := h.Requests.ListPending(ctx, limit)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"requests": requests})
}
