// Package cache memoizes rendered listing pages between catalog reloads.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/rajivgeraev/iv-catalog/internal/catalog"
)

// FilterCache keeps catalog.Result values by criteria and page.
// Cached results share their Items slice and must be treated as read-only.
type FilterCache struct {
	local *ccache.Cache[*catalog.Result]
	ttl   time.Duration
}

// NewFilterCache creates a cache holding up to maxSize pages for ttl each
func NewFilterCache(maxSize int64, ttl time.Duration) *FilterCache {
	return &FilterCache{
		local: ccache.New(ccache.Configure[*catalog.Result]().MaxSize(maxSize)),
		ttl:   ttl,
	}
}

// Key identifies one rendered page
func Key(criteria catalog.Criteria, page, pageSize int) string {
	raw := fmt.Sprintf("q=%s|min=%s|max=%s|page=%d|size=%d",
		criteria.Query, bound(criteria.MinPrice), bound(criteria.MaxPrice), page, pageSize)
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func bound(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

// Get returns the cached page for key, if any and not expired
func (c *FilterCache) Get(key string) (catalog.Result, bool) {
	item := c.local.Get(key)
	if item == nil || item.Expired() {
		return catalog.Result{}, false
	}
	return *item.Value(), true
}

// Set stores a rendered page
func (c *FilterCache) Set(key string, result catalog.Result) {
	c.local.Set(key, &result, c.ttl)
}

// Clear drops every page, used when the collection changes
func (c *FilterCache) Clear() {
	c.local.Clear()
}

// Len reports the number of cached pages
func (c *FilterCache) Len() int {
	return c.local.ItemCount()
}

// Stop releases the cache worker
func (c *FilterCache) Stop() {
	c.local.Stop()
}
