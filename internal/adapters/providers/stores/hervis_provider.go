package stores

import (
	"time"

	"github.com/zatekoja/clothingsearch/internal/domain/providers"
)

// Hervis is a Croatian sports retailer reached through scraping.
const (
	HervisProviderType = "scraping"
	HervisStoreName    = "Hervis"
	HervisCountryID    = 1
)

// NewHervisProvider creates the Hervis provider. latency simulates the
// upstream page fetch.
func NewHervisProvider(latency time.Duration) providers.StoreProvider {
	return &catalogProvider{
		providerType: HervisProviderType,
		storeName:    HervisStoreName,
		countryID:    HervisCountryID,
		latency:      latency,
		items: []catalogItem{
			{
				name:         "Adidas Superstar",
				brand:        "Adidas",
				price:        "599.00",
				currency:     "HRK",
				imageURL:     "https://images.unsplash.com/photo-1549298916-b41d501d3772?w=300",
				productURL:   "https://hervis.hr/adidas-superstar",
				affiliateURL: "https://hervis.hr/adidas-superstar?ref=clothingsearch",
				category:     "Shoes",
				sizes:        []string{"39", "40", "41", "42", "43", "44"},
				description:  "Classic Adidas Superstar sneakers",
			},
			{
				name:         "Puma Training Shorts",
				brand:        "Puma",
				price:        "199.00",
				currency:     "HRK",
				imageURL:     "https://images.unsplash.com/photo-1506629905607-d405d7a94c9a?w=300",
				productURL:   "https://hervis.hr/puma-shorts",
				affiliateURL: "https://hervis.hr/puma-shorts?ref=clothingsearch",
				category:     "Clothing",
				sizes:        []string{"S", "M", "L", "XL"},
				description:  "Comfortable training shorts from Puma",
			},
		},
	}
}
