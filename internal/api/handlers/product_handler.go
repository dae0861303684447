package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// ProductService searches stores of an explicit country.
type ProductService interface {
	SearchProducts(ctx context.Context, req entities.ProductSearchRequest) (*entities.ProductSearchResponse, error)
	SearchStore(ctx context.Context, storeName, query string, countryID int) ([]entities.Product, error)
	GetSupportedStores(countryID int) []string
}

// ProductHandler handles direct product search requests
type ProductHandler struct {
	products ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// SearchProducts handles GET /api/products/search
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	countryID, err := intParam(r, "countryId", 0)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	q := r.URL.Query()
	h.search(w, r, entities.ProductSearchRequest{
		Query:         q.Get("query"),
		Category:      strings.TrimSpace(q.Get("category")),
		CountryID:     countryID,
		SearchFilters: filters,
	})
}

// SearchProductsJSON handles POST /api/products/search
func (h *ProductHandler) SearchProductsJSON(w http.ResponseWriter, r *http.Request) {
	var req entities.ProductSearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.search(w, r, req)
}

func (h *ProductHandler) search(w http.ResponseWriter, r *http.Request, req entities.ProductSearchRequest) {
	if req.CountryID < 0 {
		respondWithAppError(w, r, apperrors.NewValidationError("countryId must not be negative"))
		return
	}

	resp, err := h.products.SearchProducts(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// SearchStore handles GET /api/products/stores/{store}/search
func (h *ProductHandler) SearchStore(w http.ResponseWriter, r *http.Request) {
	countryID, err := intParam(r, "countryId", 1)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	products, err := h.products.SearchStore(r.Context(), r.PathValue("store"), r.URL.Query().Get("query"), countryID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

// GetSupportedStores handles GET /api/products/stores
func (h *ProductHandler) GetSupportedStores(w http.ResponseWriter, r *http.Request) {
	countryID, err := intParam(r, "countryId", 1)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.products.GetSupportedStores(countryID))
}
