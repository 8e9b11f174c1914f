// internal/app/features/escrow/reads.go
package escrow

import (
	"context"
	"net/http"
	"strconv"

	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/commitchain/commitchaind/internal/app/system/status"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// groupStatus collapses the lifecycle fields into the status string the read
// surface reports.
func groupStatus(g models.Group) string {
	switch {
	case g.SettledAt != nil:
		return status.Settled
	case !g.IsActive:
		return status.Inactive
	default:
		return status.Active
	}
}

// ServeGroupList serves GET /escrow/groups?active=true&limit=n. Private
// groups are hidden from the listing unless the caller header identifies a
// member of them; the caller header is optional here.
func (h *Handler) ServeGroupList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	caller, _ := identity.Caller(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	groups, err := h.Groups.List(ctx, activeOnly, limit)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	groups, err = h.filterPrivate(ctx, groups, caller)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"groups": groups})
}

// filterPrivate drops private groups the caller does not belong to. The
// caller's memberships are fetched once rather than per group.
func (h *Handler) filterPrivate(ctx context.Context, groups []models.Group, caller string) ([]models.Group, error) {
	hasPrivate := false
	for _, g := range groups {
		if g.IsPrivate {
			hasPrivate = true
			break
		}
	}
	if !hasPrivate {
		return groups, nil
	}

	memberOf := map[uint64]bool{}
	if caller != "" {
		memberships, err := h.Members.ListByMember(ctx, caller)
		if err != nil {
			return nil, err
		}
		for _, m := range memberships {
			memberOf[m.GroupID] = true
		}
	}

	visible := groups[:0]
	for _, g := range groups {
		if g.IsPrivate && !memberOf[g.GroupID] {
			continue
		}
		visible = append(visible, g)
	}
	return visible, nil
}

// ServeGroupInfo serves GET /escrow/groups/{groupID}.
func (h *Handler) ServeGroupInfo(w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	count, err := h.Members.CountByGroup(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"group":        group,
		"status":       groupStatus(group),
		"member_count": count,
	})
}

// ServeGroupMembers serves GET /escrow/groups/{groupID}/members.
func (h *Handler) ServeGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Groups.GetByID(ctx, groupID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	members, err := h.Members.ListByGroup(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"members": members})
}

// ServeMembership serves GET /escrow/groups/{groupID}/members/{address}.
func (h *Handler) ServeMembership(w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	address, err := identity.Normalize(chi.URLParam(r, "address"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	membership, err := h.Members.Get(ctx, groupID, address)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, membership)
}
