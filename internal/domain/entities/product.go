package entities

import (
	"github.com/shopspring/decimal"
)

// Product is a single listing returned by a store provider. Providers build
// it once; nothing downstream mutates it.
type Product struct {
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	ImageURL     string          `json:"imageUrl"`
	ProductURL   string          `json:"productUrl"`
	AffiliateURL string          `json:"affiliateUrl"`
	StoreName    string          `json:"storeName"`
	Category     string          `json:"category"`
	Sizes        []string        `json:"sizes"`
	InStock      bool            `json:"inStock"`
	Description  string          `json:"description"`
}

// HasSize reports whether the product is offered in size (exact match).
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
