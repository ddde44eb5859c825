package catalog

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

// springfieldCollection builds 100 listings, 14 of which are apartments in
// Springfield priced 100_000..130_000. Listing 34 is the reference at 110_000.
func springfieldCollection() ([]models.Listing, models.Listing) {
	listings := make([]models.Listing, 0, 100)
	springfieldPrices := []float64{
		100_000, 130_000, 104_000, 105_000, 110_000, 125_000, 101_000,
		129_500, 118_000, 129_000, 102_000, 115_000, 120_000, 108_000,
	}

	var reference models.Listing
	next := 0
	for i := 1; i <= 100; i++ {
		l := models.Listing{ID: i, Title: fmt.Sprintf("Listing %d", i), Rooms: 2, AreaM2: 60}
		if i%7 == 6 && next < len(springfieldPrices) {
			l.City, l.Type, l.Price = "Springfield", "Apartment", springfieldPrices[next]
			next++
		} else {
			l.City, l.Type, l.Price = "Shelbyville", "House", float64(90_000+i*500)
		}
		if l.City == "Springfield" && l.Price == 110_000 {
			reference = l
		}
		listings = append(listings, l)
	}
	return listings, reference
}

func TestRecommend_SpringfieldScenario(t *testing.T) {
	listings, reference := springfieldCollection()
	require.Equal(t, 110_000.0, reference.Price)

	var springfield []models.Listing
	for _, l := range listings {
		if l.City == "Springfield" && l.Type == "Apartment" {
			springfield = append(springfield, l)
		}
	}
	require.Len(t, springfield, 14)

	var expected []models.Listing
	for _, l := range springfield {
		if l.ID != reference.ID && l.Price >= 88_000 && l.Price <= 132_000 {
			expected = append(expected, l)
		}
	}
	require.Greater(t, len(expected), 2)

	got := Recommend(reference, listings, 2)

	assert.Equal(t, expected[:2], got)
}

func TestRecommend_ExcludesReference(t *testing.T) {
	reference := models.Listing{ID: 1, City: "Lima", Type: "Casa", Price: 100}
	candidates := []models.Listing{
		reference,
		{ID: 2, City: "Lima", Type: "Casa", Price: 100},
	}

	got := Recommend(reference, candidates, 5)

	assert.Equal(t, []int{2}, ids(got))
}

func TestRecommend_BandIsInclusive(t *testing.T) {
	reference := models.Listing{ID: 1, City: "Lima", Type: "Casa", Price: 100_000}
	candidates := []models.Listing{
		{ID: 2, City: "Lima", Type: "Casa", Price: 80_000},
		{ID: 3, City: "Lima", Type: "Casa", Price: 120_000},
		{ID: 4, City: "Lima", Type: "Casa", Price: 79_999},
		{ID: 5, City: "Lima", Type: "Casa", Price: 120_001},
	}

	got := Recommend(reference, candidates, 10)

	assert.Equal(t, []int{2, 3}, ids(got))
}

func TestRecommend_RequiresExactCityAndType(t *testing.T) {
	reference := models.Listing{ID: 1, City: "Lima", Type: "Casa", Price: 100}
	candidates := []models.Listing{
		{ID: 2, City: "lima", Type: "Casa", Price: 100},
		{ID: 3, City: "Lima", Type: "casa", Price: 100},
		{ID: 4, City: "Cusco", Type: "Casa", Price: 100},
		{ID: 5, City: "Lima", Type: "Departamento", Price: 100},
	}

	assert.Empty(t, Recommend(reference, candidates, 2))
}

func TestRecommend_Invariants(t *testing.T) {
	listings := sampleListings(100)

	for _, limit := range []int{0, 1, 2, 5} {
		for _, reference := range listings {
			got := Recommend(reference, listings, limit)

			require.LessOrEqual(t, len(got), limit)
			for _, r := range got {
				assert.NotEqual(t, reference.ID, r.ID)
				assert.Equal(t, reference.City, r.City)
				assert.Equal(t, reference.Type, r.Type)
				assert.LessOrEqual(t, math.Abs(r.Price-reference.Price), reference.Price*PriceBand)
			}
		}
	}
}
