package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) SearchFiltered(ctx context.Context, query, userID, category string, filters entities.SearchFilters) (*entities.SearchResult, error) {
	args := m.Called(ctx, query, userID, category, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SearchResult), args.Error(1)
}

func (m *MockSearchService) GetCategories(ctx context.Context, query, userID string) ([]entities.CategoryFacet, error) {
	args := m.Called(ctx, query, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CategoryFacet), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) SearchProducts(ctx context.Context, req entities.ProductSearchRequest) (*entities.ProductSearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProductSearchResponse), args.Error(1)
}

func (m *MockProductService) SearchStore(ctx context.Context, storeName, query string, countryID int) ([]entities.Product, error) {
	args := m.Called(ctx, storeName, query, countryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Product), args.Error(1)
}

func (m *MockProductService) GetSupportedStores(countryID int) []string {
	return m.Called(countryID).Get(0).([]string)
}

type MockUserPreferenceService struct {
	mock.Mock
}

func (m *MockUserPreferenceService) Get(ctx context.Context, userID string) (*entities.UserPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserPreference), args.Error(1)
}

func (m *MockUserPreferenceService) Upsert(ctx context.Context, userID string, req entities.UpdateUserPreference) (*entities.UserPreference, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserPreference), args.Error(1)
}

func (m *MockUserPreferenceService) ListCountries(ctx context.Context) ([]*entities.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Country), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SearchEvent), args.Error(1)
}
