package services

import (
	"sort"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

// GenerateCategories counts products per non-empty category. Facets are
// ordered by count descending; ties keep first-occurrence order.
func GenerateCategories(products []entities.Product) []entities.CategoryFacet {
	facets := make([]entities.CategoryFacet, 0)
	index := make(map[string]int)

	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if i, ok := index[p.Category]; ok {
			facets[i].Count++
			continue
		}
		index[p.Category] = len(facets)
		facets = append(facets, entities.CategoryFacet{Name: p.Category, Count: 1})
	}

	sort.SliceStable(facets, func(i, j int) bool {
		return facets[i].Count > facets[j].Count
	})
	return facets
}
