package catalog

import (
	"math"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

const (
	// DefaultRecommendationLimit is how many similar listings the detail page shows
	DefaultRecommendationLimit = 2

	// PriceBand is the relative distance from the reference price a candidate may have
	PriceBand = 0.2
)

// Recommend picks up to limit listings similar to reference: same city, same
// type and a price within PriceBand of the reference price, bounds included.
// Results keep collection order; the reference itself is never returned.
func Recommend(reference models.Listing, candidates []models.Listing, limit int) []models.Listing {
	if limit < 1 {
		return []models.Listing{}
	}
	recommended := make([]models.Listing, 0, limit)

	band := reference.Price * PriceBand
	for _, c := range candidates {
		if c.ID == reference.ID || c.City != reference.City || c.Type != reference.Type {
			continue
		}
		if math.Abs(c.Price-reference.Price) > band {
			continue
		}

		recommended = append(recommended, c)
		if len(recommended) == limit {
			break
		}
	}
	return recommended
}
