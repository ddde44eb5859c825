package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/iv-catalog/internal/catalog"
	"github.com/rajivgeraev/iv-catalog/internal/models"
)

func price(v float64) *float64 { return &v }

func TestKey_DistinguishesCriteria(t *testing.T) {
	base := catalog.Criteria{Query: "casa"}

	keys := map[string]struct{}{}
	for _, k := range []string{
		Key(base, 1, 12),
		Key(base, 2, 12),
		Key(base, 1, 24),
		Key(catalog.Criteria{Query: "Casa"}, 1, 12),
		Key(catalog.Criteria{Query: "casa", MinPrice: price(0)}, 1, 12),
		Key(catalog.Criteria{Query: "casa", MaxPrice: price(0)}, 1, 12),
		Key(catalog.Criteria{Query: "casa", MinPrice: price(100)}, 1, 12),
	} {
		keys[k] = struct{}{}
	}
	assert.Len(t, keys, 7)

	assert.Equal(t, Key(catalog.Criteria{MinPrice: price(5)}, 1, 12), Key(catalog.Criteria{MinPrice: price(5)}, 1, 12))
}

func TestFilterCache_SetGetClear(t *testing.T) {
	c := NewFilterCache(100, time.Minute)
	defer c.Stop()

	key := Key(catalog.Criteria{Query: "lima"}, 1, 12)
	_, ok := c.Get(key)
	assert.False(t, ok)

	result := catalog.Result{
		Items:      []models.Listing{{ID: 1}, {ID: 2}},
		Total:      2,
		Page:       1,
		PageSize:   12,
		TotalPages: 1,
	}
	c.Set(key, result)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, result, got)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	_, ok = c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestFilterCache_Expired(t *testing.T) {
	c := NewFilterCache(100, -time.Second)
	defer c.Stop()

	key := Key(catalog.Criteria{}, 1, 12)
	c.Set(key, catalog.Result{Total: 1})

	_, ok := c.Get(key)
	assert.False(t, ok)
}
