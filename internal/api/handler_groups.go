package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/myfishingdiary/internal/middleware"
	"github.com/mmynk/myfishingdiary/internal/service"
)

// ListGroups handles GET /api/fishing-group.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListGroups(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// CreateGroup handles POST /api/fishing-group.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), middleware.GetEmail(r.Context()), service.GroupInput{
		Name:        params.Get("name"),
		Description: params.Get("description"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// UpdateGroup handles PUT /api/fishing-group/{fishingGroupId}.
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	group, err := h.groups.UpdateGroup(r.Context(), middleware.GetEmail(r.Context()),
		chi.URLParam(r, "fishingGroupId"), service.GroupInput{
			Name:        params.Get("name"),
			Description: params.Get("description"),
		})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// AddGroupUsers handles PUT /api/fishing-group/{fishingGroupId}/users.
func (h *Handler) AddGroupUsers(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	group, err := h.groups.AddUsers(r.Context(), middleware.GetEmail(r.Context()),
		chi.URLParam(r, "fishingGroupId"), splitList(params.Get("users")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// RemoveGroupUsers handles PUT /api/fishing-group/{fishingGroupId}/users-remove.
func (h *Handler) RemoveGroupUsers(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	group, err := h.groups.RemoveUsers(r.Context(), middleware.GetEmail(r.Context()),
		chi.URLParam(r, "fishingGroupId"), splitList(params.Get("users")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// DeleteGroup handles DELETE /api/fishing-group/{fishingGroupId}.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	err := h.groups.DeleteGroup(r.Context(), middleware.GetEmail(r.Context()), chi.URLParam(r, "fishingGroupId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
