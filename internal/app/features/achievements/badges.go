// internal/app/features/achievements/badges.go
package achievements

import (
	"context"
	"net/http"
	"strconv"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ServeTypes serves GET /achievements/types.
func (h *Handler) ServeTypes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	types, err := h.Badges.ListTypes(ctx)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"types": types})
}

// ServeToken serves GET /achievements/tokens/{tokenID}.
func (h *Handler) ServeToken(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseUint(chi.URLParam(r, "tokenID"), 10, 64)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid token id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	badge, err := h.Badges.GetByTokenID(ctx, tokenID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, badge)
}

// ServeOwnerTokens serves GET /achievements/owners/{address}.
func (h *Handler) ServeOwnerTokens(w http.ResponseWriter, r *http.Request) {
	address, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	badges, err := h.Badges.ListByOwner(ctx, address)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"achievements": badges})
}

type addTypeRequest struct {
	Name        string `json:"name"`
	MetadataURI string `json:"metadata_uri"`
}

// HandleAddType processes POST /achievements/admin/types (owner only). An
// empty metadata URI falls back to the configured base URL plus type name.
func (h *Handler) HandleAddType(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var req addTypeRequest
	if err := httpjson.Decode(r, &req); err != nil || req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	uri := req.MetadataURI
	if uri == "" {
		uri = h.BaseMetadataURL + req.Name + ".json"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Badges.AddType(ctx, req.Name, uri); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventAchievementTypeAdded,
		Address: caller,
		Fields:  map[string]any{"name": req.Name},
	})

	httpjson.Respond(w, http.StatusCreated, map[string]any{
		"name":         req.Name,
		"metadata_uri": uri,
	})
}

type mintBadgeRequest struct {
	Owner     string `json:"owner"`
	Type      string `json:"type"`
	GroupID   uint64 `json:"group_id"`
	ProofHash string `json:"proof_hash"`
	Rarity    string `json:"rarity"`
}

// HandleMint processes POST /achievements/admin/mint (owner only).
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireOwner(w, r); !ok {
		return
	}

	var req mintBadgeRequest
	if err := httpjson.Decode(r, &req); err != nil || req.Type == "" {
		httpjson.Error(w, http.StatusBadRequest, "type is required")
		return
	}
	owner, err := identity.Normalize(req.Owner)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	switch req.Rarity {
	case "", models.RarityCommon, models.RarityRare, models.RarityEpic, models.RarityLegendary:
	default:
		httpjson.Error(w, http.StatusBadRequest, "invalid rarity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	badge, err := h.Badges.Mint(ctx, models.Achievement{
		Owner:     owner,
		Type:      req.Type,
		GroupID:   req.GroupID,
		ProofHash: req.ProofHash,
		Rarity:    req.Rarity,
	}, h.MaxSupply)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Events.Emit(ctx, models.Event{
		Type:    models.EventAchievementMinted,
		GroupID: req.GroupID,
		Address: owner,
		Fields: map[string]any{
			"token_id": badge.TokenID,
			"type":     badge.Type,
			"rarity":   badge.Rarity,
		},
	})

	httpjson.Respond(w, http.StatusCreated, badge)
}
