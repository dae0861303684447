package stores

import (
	"time"

	"github.com/zatekoja/clothingsearch/internal/domain/providers"
)

// Amazon is reached through its affiliate product API.
const (
	AmazonProviderType = "affiliate"
	AmazonStoreName    = "Amazon"
	AmazonCountryID    = 3
)

// NewAmazonProvider creates the Amazon provider.
func NewAmazonProvider(latency time.Duration) providers.StoreProvider {
	return &catalogProvider{
		providerType: AmazonProviderType,
		storeName:    AmazonStoreName,
		countryID:    AmazonCountryID,
		latency:      latency,
		items: []catalogItem{
			{
				name:         "Nike Air Max 270",
				brand:        "Nike",
				price:        "89.99",
				currency:     "USD",
				imageURL:     "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=300",
				productURL:   "https://amazon.com/nike-air-max",
				affiliateURL: "https://amazon.com/nike-air-max?tag=youraffid",
				category:     "Shoes",
				sizes:        []string{"8", "9", "10", "11", "12"},
				description:  "Classic Nike Air Max 270 sneakers",
			},
			{
				name:         "Nike Dri-FIT T-Shirt",
				brand:        "Nike",
				price:        "24.99",
				currency:     "USD",
				imageURL:     "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=300",
				productURL:   "https://amazon.com/nike-tshirt",
				affiliateURL: "https://amazon.com/nike-tshirt?tag=youraffid",
				category:     "Clothing",
				sizes:        []string{"S", "M", "L", "XL"},
				description:  "Moisture-wicking Nike Dri-FIT technology",
			},
		},
	}
}
