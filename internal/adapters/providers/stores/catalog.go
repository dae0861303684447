package stores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

// catalogItem is a listing a sample provider returns for every query.
type catalogItem struct {
	name         string
	brand        string
	price        string
	currency     string
	imageURL     string
	productURL   string
	affiliateURL string
	category     string
	sizes        []string
	description  string
}

// catalogProvider serves a fixed catalog after a simulated upstream latency.
// Listing names carry the query so results are distinguishable per search.
type catalogProvider struct {
	providerType string
	storeName    string
	countryID    int
	latency      time.Duration
	items        []catalogItem
}

func (p *catalogProvider) ProviderType() string { return p.providerType }

func (p *catalogProvider) Name() string { return p.storeName }

func (p *catalogProvider) SupportsCountry(countryID int) bool {
	return countryID == p.countryID
}

func (p *catalogProvider) Search(ctx context.Context, query string, _ *entities.UserPreference, category string) ([]entities.Product, error) {
	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%s search: %w", p.storeName, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s search: %w", p.storeName, err)
	}

	products := make([]entities.Product, 0, len(p.items))
	for _, item := range p.items {
		if category != "" && !strings.EqualFold(item.category, category) {
			continue
		}
		products = append(products, entities.Product{
			Name:         fmt.Sprintf("%s - %s", item.name, query),
			Brand:        item.brand,
			Price:        decimal.RequireFromString(item.price),
			Currency:     item.currency,
			ImageURL:     item.imageURL,
			ProductURL:   item.productURL,
			AffiliateURL: item.affiliateURL,
			StoreName:    p.storeName,
			Category:     item.category,
			Sizes:        append([]string(nil), item.sizes...),
			InStock:      true,
			Description:  item.description,
		})
	}
	return products, nil
}
