package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
	"github.com/zatekoja/clothingsearch/pkg/config"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// DefaultProductCountryID is used when a product search names no country.
const DefaultProductCountryID = 1

// StoreCatalog is the registry view product search needs.
type StoreCatalog interface {
	ProviderRegistry
	SupportedStores(countryID int) []string
}

// ProductService searches providers of an explicit country without the
// cache or a user context.
type ProductService struct {
	catalog StoreCatalog
	fan     *fanOut
}

// NewProductService creates a new product service.
func NewProductService(catalog StoreCatalog, metrics *observability.Metrics, cfg config.SearchConfig) *ProductService {
	return &ProductService{
		catalog: catalog,
		fan:     newFanOut(catalog, metrics, cfg),
	}
}

// SearchProducts fans out to the country's providers and applies the
// request filters to the merged list.
func (s *ProductService) SearchProducts(ctx context.Context, req entities.ProductSearchRequest) (*entities.ProductSearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, apperrors.NewValidationError("search query is required")
	}
	if req.CountryID == 0 {
		req.CountryID = DefaultProductCountryID
	}

	start := time.Now()
	sc := entities.SearchContext{Query: req.Query, Category: req.Category, CountryID: req.CountryID}
	pref := &entities.UserPreference{CountryID: req.CountryID}

	outcomes, joinErr := s.fan.run(ctx, sc, pref)
	if joinErr != nil {
		observability.LoggerFromContext(ctx).Error().Err(joinErr).Str("query", req.Query).Msg("Provider join failed, returning partial results")
	}

	stores := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		stores = append(stores, o.StoreName)
	}

	products := make([]entities.Product, 0)
	for _, p := range merge(outcomes) {
		if req.SearchFilters.Match(p) {
			products = append(products, p)
		}
	}

	return &entities.ProductSearchResponse{
		Products:       products,
		TotalResults:   len(products),
		Query:          req.Query,
		StoresSearched: stores,
		SearchDuration: time.Since(start),
	}, nil
}

// SearchStore searches a single store by name. An unknown store or one not
// serving the country yields no products.
func (s *ProductService) SearchStore(ctx context.Context, storeName, query string, countryID int) ([]entities.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewValidationError("search query is required")
	}
	for _, p := range s.catalog.Eligible(countryID) {
		if !strings.EqualFold(p.Name(), storeName) {
			continue
		}
		sc := entities.SearchContext{Query: query, CountryID: countryID}
		out := s.fan.runProvider(ctx, nil, p, sc, &entities.UserPreference{CountryID: countryID})
		if !out.OK() {
			return nil, apperrors.NewExternalError("store search failed", out.Err)
		}
		if out.Products == nil {
			return []entities.Product{}, nil
		}
		return out.Products, nil
	}
	return []entities.Product{}, nil
}

// GetSupportedStores lists the stores serving countryID.
func (s *ProductService) GetSupportedStores(countryID int) []string {
	return s.catalog.SupportedStores(countryID)
}
