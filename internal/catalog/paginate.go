package catalog

import "github.com/rajivgeraev/iv-catalog/internal/models"

// DefaultPageSize is the number of cards shown per listing page
const DefaultPageSize = 12

// Page is one window over a filtered collection
type Page struct {
	Items      []models.Listing
	TotalPages int
}

// Paginate slices filtered into the 1-indexed page of pageSize items.
//
// The page is not clamped: a page outside [1, TotalPages] yields no items.
// Callers that need clamping go through View.
func Paginate(filtered []models.Listing, pageSize, page int) Page {
	if pageSize < 1 || len(filtered) == 0 {
		return Page{Items: []models.Listing{}}
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if page < 1 || page > totalPages {
		return Page{Items: []models.Listing{}, TotalPages: totalPages}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	items := make([]models.Listing, end-start)
	copy(items, filtered[start:end])
	return Page{Items: items, TotalPages: totalPages}
}
