package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

const maxZeroResultLimit = 1000

// AnalyticsService exposes recorded search events.
type AnalyticsService interface {
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// AnalyticsHandler handles search analytics requests
type AnalyticsHandler struct {
	analytics AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetZeroResultQueries handles GET /api/analytics/zero-results
func (h *AnalyticsHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 100)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if limit <= 0 || limit > maxZeroResultLimit {
		respondWithAppError(w, r, apperrors.NewValidationError("limit must be between 1 and 1000"))
		return
	}

	events, err := h.analytics.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if events == nil {
		events = []*entities.SearchEvent{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}
