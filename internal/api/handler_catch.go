package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/myfishingdiary/internal/middleware"
	"github.com/mmynk/myfishingdiary/internal/service"
)

// CatchSummary handles GET /api/trips/{tripId}/fish.
func (h *Handler) CatchSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.trips.CatchSummary(r.Context(), chi.URLParam(r, "tripId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// AddFish handles POST /api/trips/{tripId}/fish.
func (h *Handler) AddFish(w http.ResponseWriter, r *http.Request) {
	in, err := readFishInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	fish, err := h.trips.AddFish(r.Context(), middleware.GetEmail(r.Context()), chi.URLParam(r, "tripId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fish)
}

// GetFish handles GET /api/trips/{tripId}/fish/{fishId}.
func (h *Handler) GetFish(w http.ResponseWriter, r *http.Request) {
	res, err := h.trips.GetFish(r.Context(), chi.URLParam(r, "tripId"), chi.URLParam(r, "fishId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateFish handles PUT /api/trips/{tripId}/fish/{fishId}.
func (h *Handler) UpdateFish(w http.ResponseWriter, r *http.Request) {
	in, err := readFishInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	fish, err := h.trips.UpdateFish(r.Context(), middleware.GetEmail(r.Context()),
		chi.URLParam(r, "tripId"), chi.URLParam(r, "fishId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fish)
}

// DeleteFish handles DELETE /api/trips/{tripId}/fish/{fishId}.
func (h *Handler) DeleteFish(w http.ResponseWriter, r *http.Request) {
	err := h.trips.DeleteFish(r.Context(), middleware.GetEmail(r.Context()),
		chi.URLParam(r, "tripId"), chi.URLParam(r, "fishId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readFishInput(w http.ResponseWriter, r *http.Request) (service.FishInput, error) {
	params, err := readParams(w, r)
	if err != nil {
		return service.FishInput{}, err
	}
	weight, err := parseOptionalFloat("weight", params.Get("weight"))
	if err != nil {
		return service.FishInput{}, err
	}
	return service.FishInput{
		Species:     params.Get("species"),
		Weight:      weight,
		Description: params.Get("description"),
	}, nil
}

// AddComment handles POST /api/trips/{tripId}/comments.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	comment, err := h.trips.AddComment(r.Context(), middleware.GetEmail(r.Context()),
		chi.URLParam(r, "tripId"), params.Get("comment"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// GetComment handles GET /api/trips/{tripId}/comments/{commentId}.
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	res, err := h.trips.GetComment(r.Context(), chi.URLParam(r, "tripId"), chi.URLParam(r, "commentId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateComment handles PUT /api/trips/{tripId}/comments/{commentId}.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	comment, err := h.trips.UpdateComment(r.Context(), middleware.GetEmail(r.Context()),
		chi.URLParam(r, "tripId"), chi.URLParam(r, "commentId"), params.Get("comment"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/trips/{tripId}/comments/{commentId}.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.trips.DeleteComment(r.Context(), middleware.GetEmail(r.Context()),
		chi.URLParam(r, "tripId"), chi.URLParam(r, "commentId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
