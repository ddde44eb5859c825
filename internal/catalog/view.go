package catalog

import "github.com/rajivgeraev/iv-catalog/internal/models"

// View holds the browse state of one listing page: search text, price
// bounds and current page. Every criteria change sends the view back to
// page 1.
type View struct {
	query    string
	minPrice *float64
	maxPrice *float64
	page     int
	pageSize int
}

// Result is what a View renders for the current state
type Result struct {
	Items      []models.Listing
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// NewView creates a view on page 1. A non-positive pageSize falls back to
// DefaultPageSize.
func NewView(pageSize int) *View {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &View{page: 1, pageSize: pageSize}
}

// SetQuery changes the search text
func (v *View) SetQuery(query string) {
	v.query = query
	v.page = 1
}

// SetMinPrice changes the lower price bound; nil clears it
func (v *View) SetMinPrice(price *float64) {
	v.minPrice = copyBound(price)
	v.page = 1
}

// SetMaxPrice changes the upper price bound; nil clears it
func (v *View) SetMaxPrice(price *float64) {
	v.maxPrice = copyBound(price)
	v.page = 1
}

// GoTo jumps to page without clamping.
func (v *View) GoTo(page int) {
	v.page = page
}

// NextPage advances one page unless already on the last one.
func (v *View) NextPage(totalPages int) {
	if v.page < totalPages {
		v.page++
	}
}

// PrevPage goes back one page unless already on the first one.
func (v *View) PrevPage() {
	if v.page > 1 {
		v.page--
	}
}

func (v *View) Page() int { return v.page }

func (v *View) PageSize() int { return v.pageSize }

// Criteria returns the filter criteria of the current state.
func (v *View) Criteria() Criteria {
	return Criteria{
		Query:    v.query,
		MinPrice: copyBound(v.minPrice),
		MaxPrice: copyBound(v.maxPrice),
	}
}

// Render filters listings and returns the current page.
func (v *View) Render(listings []models.Listing) Result {
	filtered := Filter(listings, v.Criteria())
	page := Paginate(filtered, v.pageSize, v.page)
	return Result{
		Items:      page.Items,
		Total:      len(filtered),
		Page:       v.page,
		PageSize:   v.pageSize,
		TotalPages: page.TotalPages,
	}
}

func copyBound(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
