package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// AnonymousUserID is used when a request names no user.
const AnonymousUserID = "anonymous"

// SearchService is the aggregated search the handler serves.
type SearchService interface {
	SearchFiltered(ctx context.Context, query, userID, category string, filters entities.SearchFilters) (*entities.SearchResult, error)
	GetCategories(ctx context.Context, query, userID string) ([]entities.CategoryFacet, error)
}

// SearchHandler handles aggregated search requests
type SearchHandler struct {
	search SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, userID, ok := searchParams(w, r)
	if !ok {
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.search.SearchFiltered(r.Context(), query, userID, strings.TrimSpace(r.URL.Query().Get("category")), filters)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if failed := result.Report.FailedProviders(); len(failed) > 0 {
		w.Header().Set("X-Failed-Providers", strings.Join(failed, ","))
	}
	if result.Report != nil && result.Report.JoinErr != nil {
		w.Header().Set("X-Search-Degraded", "true")
	}
	respondWithJSON(w, http.StatusOK, result)
}

// GetCategories handles GET /api/search/categories
func (h *SearchHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	query, userID, ok := searchParams(w, r)
	if !ok {
		return
	}

	categories, err := h.search.GetCategories(r.Context(), query, userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func searchParams(w http.ResponseWriter, r *http.Request) (query, userID string, ok bool) {
	q := r.URL.Query()
	query = strings.TrimSpace(q.Get("query"))
	if query == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("search query is required"))
		return "", "", false
	}
	userID = strings.TrimSpace(q.Get("userId"))
	if userID == "" {
		userID = AnonymousUserID
	}
	return query, userID, true
}
