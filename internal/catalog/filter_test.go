package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

func price(v float64) *float64 { return &v }

func ids(listings []models.Listing) []int {
	out := make([]int, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

// sampleListings builds n listings spread over three cities and two types
// with prices 100_000, 101_000, ...
func sampleListings(n int) []models.Listing {
	cities := []string{"Lima", "Rosario", "Mendoza"}
	types := []string{"Departamento", "Casa"}
	listings := make([]models.Listing, 0, n)
	for i := 1; i <= n; i++ {
		listings = append(listings, models.Listing{
			ID:     i,
			Title:  fmt.Sprintf("Propiedad %d", i),
			City:   cities[i%len(cities)],
			Type:   types[i%len(types)],
			Rooms:  1 + i%4,
			AreaM2: float64(40 + i),
			Price:  float64(100_000 + (i-1)*1_000),
		})
	}
	return listings
}

func TestFilter_QueryMatchesAcrossFields(t *testing.T) {
	listings := []models.Listing{
		{ID: 1, Title: "Casa en el centro", City: "Córdoba", Type: "Casa", Price: 150_000},
		{ID: 2, Title: "Loft luminoso", City: "Casablanca", Type: "Loft", Price: 90_000},
		{ID: 3, Title: "Departamento", City: "Lima", Type: "Oficina", Price: 120_000},
	}

	got := Filter(listings, Criteria{Query: "casa"})

	assert.Equal(t, []int{1, 2}, ids(got))
}

func TestFilter_CaseInsensitive(t *testing.T) {
	listings := []models.Listing{
		{ID: 1, Title: "PH reciclado", City: "Buenos Aires", Type: "PH", Price: 1},
		{ID: 2, Title: "Quinta", City: "Pilar", Type: "Casa", Price: 1},
	}

	assert.Equal(t, []int{1}, ids(Filter(listings, Criteria{Query: "bUeNoS"})))
	assert.Equal(t, []int{1}, ids(Filter(listings, Criteria{Query: "ph"})))
}

func TestFilter_EmptyCriteriaReturnsCollection(t *testing.T) {
	listings := sampleListings(30)

	got := Filter(listings, Criteria{})

	assert.Equal(t, listings, got)
}

func TestFilter_PriceBounds(t *testing.T) {
	listings := sampleListings(50)

	tests := []struct {
		name     string
		criteria Criteria
		wantIDs  []int
	}{
		{"min only", Criteria{MinPrice: price(147_000)}, []int{48, 49, 50}},
		{"max only", Criteria{MaxPrice: price(102_000)}, []int{1, 2, 3}},
		{"both inclusive", Criteria{MinPrice: price(110_000), MaxPrice: price(112_000)}, []int{11, 12, 13}},
		{"min above max", Criteria{MinPrice: price(130_000), MaxPrice: price(120_000)}, []int{}},
		{"query and price", Criteria{Query: "propiedad 1", MaxPrice: price(112_000)}, []int{1, 10, 11, 12, 13}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(listings, tt.criteria)
			assert.Equal(t, tt.wantIDs, ids(got))
		})
	}
}

func TestFilter_EveryResultWithinBounds(t *testing.T) {
	listings := sampleListings(100)
	minPrice, maxPrice := 120_500.0, 170_000.0

	got := Filter(listings, Criteria{MinPrice: &minPrice, MaxPrice: &maxPrice})

	require.NotEmpty(t, got)
	for _, l := range got {
		assert.GreaterOrEqual(t, l.Price, minPrice)
		assert.LessOrEqual(t, l.Price, maxPrice)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	listings := sampleListings(100)
	criteria := Criteria{Query: "rosario", MinPrice: price(130_000)}

	once := Filter(listings, criteria)
	twice := Filter(once, criteria)

	assert.Equal(t, once, twice)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	listings := sampleListings(10)
	before := make([]models.Listing, len(listings))
	copy(before, listings)

	_ = Filter(listings, Criteria{Query: "casa", MaxPrice: price(105_000)})

	assert.Equal(t, before, listings)
}

func TestSelectByIDs_KeepsCollectionOrder(t *testing.T) {
	listings := sampleListings(10)

	got := SelectByIDs(listings, []int{7, 2, 99, 5})

	assert.Equal(t, []int{2, 5, 7}, ids(got))
}

func TestFind(t *testing.T) {
	listings := sampleListings(5)

	l, ok := Find(listings, 3)
	require.True(t, ok)
	assert.Equal(t, "Propiedad 3", l.Title)

	_, ok = Find(listings, 42)
	assert.False(t, ok)
}
