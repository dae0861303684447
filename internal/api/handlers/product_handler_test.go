package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/clothingsearch/internal/api/handlers"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

func TestProductHandler_SearchProducts(t *testing.T) {
	svc := new(MockProductService)
	handler := handlers.NewProductHandler(svc)

	svc.On("SearchProducts", mock.Anything, mock.MatchedBy(func(req entities.ProductSearchRequest) bool {
		return req.Query == "nike" && req.Category == "Shoes" && req.CountryID == 3 && req.MaxPrice != nil
	})).Return(&entities.ProductSearchResponse{
		Products:       []entities.Product{{Name: "Nike Air Force 1 - nike"}},
		TotalResults:   1,
		Query:          "nike",
		StoresSearched: []string{"Amazon"},
	}, nil)

	w := httptest.NewRecorder()
	handler.SearchProducts(w, httptest.NewRequest(http.MethodGet, "/api/products/search?query=nike&category=Shoes&countryId=3&maxPrice=150", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{"Amazon"}, body["storesSearched"])
	assert.Contains(t, body, "searchDuration")
	svc.AssertExpectations(t)
}

func TestProductHandler_SearchProductsJSON(t *testing.T) {
	svc := new(MockProductService)
	handler := handlers.NewProductHandler(svc)

	svc.On("SearchProducts", mock.Anything, mock.MatchedBy(func(req entities.ProductSearchRequest) bool {
		return req.Query == "jacket" && req.CountryID == 1 && req.InStockOnly && len(req.Brands) == 1
	})).Return(&entities.ProductSearchResponse{Products: []entities.Product{}, Query: "jacket"}, nil)

	body := `{"query":"jacket","countryId":1,"inStockOnly":true,"brands":["Puma"]}`
	w := httptest.NewRecorder()
	handler.SearchProductsJSON(w, httptest.NewRequest(http.MethodPost, "/api/products/search", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestProductHandler_SearchProductsErrors(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockProductService)
		w := httptest.NewRecorder()
		handlers.NewProductHandler(svc).SearchProductsJSON(w, httptest.NewRequest(http.MethodPost, "/api/products/search", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad country", func(t *testing.T) {
		svc := new(MockProductService)
		w := httptest.NewRecorder()
		handlers.NewProductHandler(svc).SearchProducts(w, httptest.NewRequest(http.MethodGet, "/api/products/search?query=x&countryId=hr", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "SearchProducts")
	})

	t.Run("validation from service", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("SearchProducts", mock.Anything, mock.Anything).Return(nil, apperrors.NewValidationError("search query is required"))
		w := httptest.NewRecorder()
		handlers.NewProductHandler(svc).SearchProducts(w, httptest.NewRequest(http.MethodGet, "/api/products/search", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "search query is required")
	})
}

func TestProductHandler_SearchStore(t *testing.T) {
	svc := new(MockProductService)
	handler := handlers.NewProductHandler(svc)
	svc.On("SearchStore", mock.Anything, "Hervis", "nike", 1).Return([]entities.Product{{Name: "Adidas Superstar - nike"}}, nil)
	svc.On("SearchStore", mock.Anything, "Amazon", "nike", 3).Return(nil, apperrors.NewExternalError("store search failed", errors.New("503")))

	req := httptest.NewRequest(http.MethodGet, "/api/products/stores/Hervis/search?query=nike", nil)
	req.SetPathValue("store", "Hervis")
	w := httptest.NewRecorder()
	handler.SearchStore(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/products/stores/Amazon/search?query=nike&countryId=3", nil)
	req.SetPathValue("store", "Amazon")
	w = httptest.NewRecorder()
	handler.SearchStore(w, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestProductHandler_GetSupportedStores(t *testing.T) {
	svc := new(MockProductService)
	handler := handlers.NewProductHandler(svc)
	svc.On("GetSupportedStores", 1).Return([]string{"Hervis"})
	svc.On("GetSupportedStores", 99).Return([]string{})

	w := httptest.NewRecorder()
	handler.GetSupportedStores(w, httptest.NewRequest(http.MethodGet, "/api/products/stores", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Hervis"]`, w.Body.String())

	w = httptest.NewRecorder()
	handler.GetSupportedStores(w, httptest.NewRequest(http.MethodGet, "/api/products/stores?countryId=99", nil))
	assert.JSONEq(t, `[]`, w.Body.String())
}
