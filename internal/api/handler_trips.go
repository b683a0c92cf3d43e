package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/myfishingdiary/internal/geo"
	"github.com/mmynk/myfishingdiary/internal/middleware"
	"github.com/mmynk/myfishingdiary/internal/service"
)

// ListTrips handles GET /api/trips.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.ListTrips(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// ListTripsPage handles GET /api/trips-paginate?skip=&take=.
func (h *Handler) ListTripsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, err := queryInt(q, "skip", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	take, err := queryInt(q, "take", service.DefaultPageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.trips.ListTripsPage(r.Context(), skip, take)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// NearTrips handles GET /api/trips/distance?lng=&lat=&distance=&nResults=.
func (h *Handler) NearTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("lng") == "" || q.Get("lat") == "" {
		h.writeError(w, r, badRequest("Query parameters 'lng' and 'lat' are required."))
		return
	}
	lng, err := queryFloat(q, "lng", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	lat, err := queryFloat(q, "lat", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	distance, limit, err := nearOptions(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	trips, err := h.trips.NearTrips(r.Context(), service.NearQuery{
		Point:      geo.Point{Lng: lng, Lat: lat},
		DistanceKm: distance,
		Limit:      limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// NearAddress handles GET /api/trips/address?address=&distance=&nResults=.
func (h *Handler) NearAddress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	distance, limit, err := nearOptions(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	trips, err := h.trips.NearAddress(r.Context(), q.Get("address"), distance, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func nearOptions(q url.Values) (float64, int, error) {
	distance, err := queryFloat(q, "distance", service.DefaultDistanceKm)
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(q, "nResults", service.DefaultNearLimit)
	if err != nil {
		return 0, 0, err
	}
	return distance, limit, nil
}

// CreateTrip handles POST /api/trips.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	in, err := readTripInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	trip, err := h.trips.CreateTrip(r.Context(), middleware.GetEmail(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// GetTrip handles GET /api/trips/{tripId}.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := h.trips.GetTrip(r.Context(), chi.URLParam(r, "tripId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /api/trips/{tripId}.
func (h *Handler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	in, err := readTripInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	trip, err := h.trips.UpdateTrip(r.Context(), middleware.GetEmail(r.Context()), chi.URLParam(r, "tripId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /api/trips/{tripId}.
func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.trips.DeleteTrip(r.Context(), middleware.GetEmail(r.Context()), chi.URLParam(r, "tripId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readTripInput(w http.ResponseWriter, r *http.Request) (service.TripInput, error) {
	params, err := readParams(w, r)
	if err != nil {
		return service.TripInput{}, err
	}
	t, err := parseTime(params.Get("time"))
	if err != nil {
		return service.TripInput{}, err
	}
	coords, err := parseCoordinates(params.Get("coordinates"))
	if err != nil {
		return service.TripInput{}, err
	}
	return service.TripInput{
		Name:        params.Get("name"),
		Time:        t,
		Type:        params.Get("type"),
		Description: params.Get("description"),
		Coordinates: coords,
	}, nil
}
