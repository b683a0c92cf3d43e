package api

import "net/http"

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is returned by the database endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles POST /api/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.auth.Register(r.Context(), params.Get("name"), params.Get("email"), params.Get("password"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Login handles POST /api/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.auth.Login(r.Context(), params.Get("email"), params.Get("password"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// SeedDB handles POST /api/db.
func (h *Handler) SeedDB(w http.ResponseWriter, r *http.Request) {
	msg, err := h.seed.Seed(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// DropDB handles DELETE /api/db.
func (h *Handler) DropDB(w http.ResponseWriter, r *http.Request) {
	msg, err := h.seed.Drop(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}
