package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

// UserPreferenceService manages stored user settings.
type UserPreferenceService interface {
	Get(ctx context.Context, userID string) (*entities.UserPreference, error)
	Upsert(ctx context.Context, userID string, req entities.UpdateUserPreference) (*entities.UserPreference, error)
	ListCountries(ctx context.Context) ([]*entities.Country, error)
}

// UserHandler handles user settings requests
type UserHandler struct {
	prefs UserPreferenceService
}

// NewUserHandler creates a new user handler
func NewUserHandler(prefs UserPreferenceService) *UserHandler {
	return &UserHandler{prefs: prefs}
}

// GetSettings handles GET /api/user/{userId}/settings
func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	pref, err := h.prefs.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pref)
}

// UpdateSettings handles POST /api/user/{userId}/settings
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req entities.UpdateUserPreference
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pref, err := h.prefs.Upsert(r.Context(), r.PathValue("userId"), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pref)
}

// ListCountries handles GET /api/user/countries
func (h *UserHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.prefs.ListCountries(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, countries)
}
