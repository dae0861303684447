package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SearchContext is the immutable input of one aggregated search.
type SearchContext struct {
	Query     string
	Category  string
	CountryID int
	UserID    string
}

// SearchFilters are optional post-merge filters. The zero value matches
// every product.
type SearchFilters struct {
	MinPrice    *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice    *decimal.Decimal `json:"maxPrice,omitempty"`
	Brands      []string         `json:"brands,omitempty"`
	Sizes       []string         `json:"sizes,omitempty"`
	InStockOnly bool             `json:"inStockOnly"`
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f.MinPrice == nil && f.MaxPrice == nil && len(f.Brands) == 0 && len(f.Sizes) == 0 && !f.InStockOnly
}

// Match reports whether p passes every set filter. Brand matching is
// case-insensitive; a product passes the size filter if it offers any of
// the requested sizes.
func (f SearchFilters) Match(p Product) bool {
	if f.InStockOnly && !p.InStock {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if len(f.Brands) > 0 {
		ok := false
		for _, b := range f.Brands {
			if strings.EqualFold(strings.TrimSpace(b), p.Brand) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Sizes) > 0 {
		ok := false
		for _, s := range f.Sizes {
			if p.HasSize(strings.TrimSpace(s)) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// CategoryFacet is the number of products in one category.
type CategoryFacet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SearchResult is what the coordinator returns for one search.
type SearchResult struct {
	Query            string          `json:"query"`
	Products         []Product       `json:"products"`
	TotalResults     int             `json:"totalResults"`
	Categories       []CategoryFacet `json:"categories"`
	IsFromCache      bool            `json:"isFromCache"`
	SelectedCategory string          `json:"selectedCategory"`
	LastUpdated      time.Time       `json:"lastUpdated"`

	// Report describes which failures were contained while producing the
	// result. It is not part of the API payload.
	Report *SearchReport `json:"-"`
}

// ProviderOutcome is the typed result of one provider task.
type ProviderOutcome struct {
	ProviderType string
	StoreName    string
	Products     []Product
	Err          error
	TimedOut     bool
	Duration     time.Duration
}

// OK reports whether the provider contributed without error.
func (o ProviderOutcome) OK() bool {
	return o.Err == nil
}

// SearchReport records the outcome of every contained step of a search.
type SearchReport struct {
	CountryID int
	CacheHit  bool
	// CacheReadErr is set when the cache lookup failed or the entry was corrupted.
	CacheReadErr  error
	Providers     []ProviderOutcome
	JoinErr       error
	CacheWriteErr error
	Coalesced     bool
}

// FailedProviders returns the provider types whose task failed.
func (r *SearchReport) FailedProviders() []string {
	if r == nil {
		return nil
	}
	var failed []string
	for _, o := range r.Providers {
		if !o.OK() {
			failed = append(failed, o.ProviderType)
		}
	}
	return failed
}

// ProductSearchResponse is the uncached, country-explicit product search
// payload.
type ProductSearchResponse struct {
	Products       []Product     `json:"products"`
	TotalResults   int           `json:"totalResults"`
	Query          string        `json:"query"`
	StoresSearched []string      `json:"storesSearched"`
	SearchDuration time.Duration `json:"searchDuration"`
}

// ProductSearchRequest is an uncached search in an explicit country.
type ProductSearchRequest struct {
	Query     string `json:"query"`
	Category  string `json:"category"`
	CountryID int    `json:"countryId"`
	SearchFilters
}
