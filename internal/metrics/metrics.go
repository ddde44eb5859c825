// Package metrics exposes Prometheus metrics for the catalog service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rajivgeraev/iv-catalog/internal/source"
)

// MetricsManager holds the service metrics and their registry
type MetricsManager struct {
	Registry             *prometheus.Registry
	CatalogLoadsTotal    *prometheus.CounterVec
	CatalogListings      prometheus.Gauge
	FavoriteTogglesTotal *prometheus.CounterVec
	FilterCacheLookups   *prometheus.CounterVec
	APIRequestLatency    *prometheus.HistogramVec
}

// NewMetricsManager registers all metrics under namespace on a private registry
func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	catalogLoadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_loads_total",
		Help:      "Listing collection load attempts by resulting state.",
	}, []string{"state"})
	catalogListings := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_listings",
		Help:      "Number of listings in the loaded collection.",
	})
	favoriteTogglesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorite_toggles_total",
		Help:      "Favorite toggles by resulting membership.",
	}, []string{"is_favorite"})
	filterCacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "filter_cache_lookups_total",
		Help:      "Filtered page cache lookups by result.",
	}, []string{"result"})
	apiRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	registry.MustRegister(
		catalogLoadsTotal,
		catalogListings,
		favoriteTogglesTotal,
		filterCacheLookups,
		apiRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:             registry,
		CatalogLoadsTotal:    catalogLoadsTotal,
		CatalogListings:      catalogListings,
		FavoriteTogglesTotal: favoriteTogglesTotal,
		FilterCacheLookups:   filterCacheLookups,
		APIRequestLatency:    apiRequestLatency,
	}
}

// LoaderHook records every catalog load attempt
func (m *MetricsManager) LoaderHook() source.Hook {
	return func(state source.State, count int, _ error) {
		m.CatalogLoadsTotal.WithLabelValues(string(state)).Inc()
		m.CatalogListings.Set(float64(count))
	}
}

// ObserveToggle counts one favorite toggle
func (m *MetricsManager) ObserveToggle(isFavorite bool) {
	m.FavoriteTogglesTotal.WithLabelValues(strconv.FormatBool(isFavorite)).Inc()
}

// ObserveCacheLookup counts a filter cache hit or miss
func (m *MetricsManager) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.FilterCacheLookups.WithLabelValues(result).Inc()
}

// Middleware measures request latency by matched route
func (m *MetricsManager) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		m.APIRequestLatency.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format
func (m *MetricsManager) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
