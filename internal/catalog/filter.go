package catalog

import (
	"strings"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

// Criteria narrows a listing collection by text and price.
// Nil bounds are unset.
type Criteria struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
}

// Filter returns the listings matching the criteria in their original order.
// The input slice is never modified.
func Filter(listings []models.Listing, criteria Criteria) []models.Listing {
	query := strings.ToLower(criteria.Query)

	filtered := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if matchesQuery(l, query) && matchesPrice(l, criteria.MinPrice, criteria.MaxPrice) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// matchesQuery expects an already lower-cased query
func matchesQuery(l models.Listing, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), query) ||
		strings.Contains(strings.ToLower(l.City), query) ||
		strings.Contains(strings.ToLower(l.Type), query)
}

func matchesPrice(l models.Listing, minPrice, maxPrice *float64) bool {
	if minPrice != nil && l.Price < *minPrice {
		return false
	}
	if maxPrice != nil && l.Price > *maxPrice {
		return false
	}
	return true
}

// Find looks a listing up by id.
func Find(listings []models.Listing, id int) (models.Listing, bool) {
	for _, l := range listings {
		if l.ID == id {
			return l, true
		}
	}
	return models.Listing{}, false
}

// SelectByIDs keeps the listings whose id is in ids, in collection order.
func SelectByIDs(listings []models.Listing, ids []int) []models.Listing {
	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	selected := make([]models.Listing, 0, len(ids))
	for _, l := range listings {
		if _, ok := wanted[l.ID]; ok {
			selected = append(selected, l)
		}
	}
	return selected
}
