package listing

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/cache"
	"github.com/rajivgeraev/iv-catalog/internal/catalog"
	"github.com/rajivgeraev/iv-catalog/internal/config"
	"github.com/rajivgeraev/iv-catalog/internal/db"
	"github.com/rajivgeraev/iv-catalog/internal/favorites"
	"github.com/rajivgeraev/iv-catalog/internal/metrics"
	"github.com/rajivgeraev/iv-catalog/internal/middleware"
	"github.com/rajivgeraev/iv-catalog/internal/models"
	"github.com/rajivgeraev/iv-catalog/internal/source"
)

// Thumbnailer turns a listing image URL into a card thumbnail URL
type Thumbnailer interface {
	ThumbnailURL(imageURL string) string
}

// ListingService serves the listing and detail pages
type ListingService struct {
	cfg        *config.Config
	loader     *source.Loader
	sessions   *favorites.Sessions
	thumbnails Thumbnailer
	cache      *cache.FilterCache
	metrics    *metrics.MetricsManager
	logger     *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(
	cfg *config.Config,
	loader *source.Loader,
	sessions *favorites.Sessions,
	thumbnails Thumbnailer,
	filterCache *cache.FilterCache,
	metricsManager *metrics.MetricsManager,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		cfg:        cfg,
		loader:     loader,
		sessions:   sessions,
		thumbnails: thumbnails,
		cache:      filterCache,
		metrics:    metricsManager,
		logger:     logger,
	}
}

// GetListings returns one page of the filtered collection
func (s *ListingService) GetListings(c fiber.Ctx) error {
	minPrice, err := parsePrice(c.Query("min_price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid min_price"})
	}
	maxPrice, err := parsePrice(c.Query("max_price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid max_price"})
	}
	page := 1
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid page"})
		}
	}

	listings, err := s.loader.Listings()
	if err != nil {
		return loading(c)
	}

	view := catalog.NewView(s.cfg.PageSize)
	view.SetQuery(c.Query("q"))
	view.SetMinPrice(minPrice)
	view.SetMaxPrice(maxPrice)
	view.GoTo(page)

	key := cache.Key(view.Criteria(), view.Page(), view.PageSize())
	result, hit := s.cache.Get(key)
	s.metrics.ObserveCacheLookup(hit)
	if !hit {
		result = view.Render(listings)
		s.cache.Set(key, result)
	}

	store, err := s.favorites(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load favorites"})
	}

	return c.JSON(models.ListingsResponse{
		Listings:   s.cards(result.Items, store),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

// GetListing returns one listing with its recommendations
func (s *ListingService) GetListing(c fiber.Ctx) error {
	switch s.loader.State() {
	case source.StateLoading:
		return loading(c)
	case source.StateFailed:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": s.loader.Err().Error()})
	}

	listings, err := s.loader.Listings()
	if err != nil {
		return loading(c)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	}
	listing, ok := catalog.Find(listings, id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	}

	store, err := s.favorites(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load favorites"})
	}

	recommendations := catalog.Recommend(listing, listings, s.cfg.RecommendationLimit)
	return c.JSON(models.ListingDetailResponse{
		Listing:         s.cards([]models.Listing{listing}, store)[0],
		Recommendations: s.cards(recommendations, store),
	})
}

// GetCatalogStatus reports the loader state
func (s *ListingService) GetCatalogStatus(c fiber.Ctx) error {
	resp := fiber.Map{"state": s.loader.State()}
	if listings, err := s.loader.Listings(); err == nil {
		resp["count"] = len(listings)
	}
	if err := s.loader.Err(); err != nil {
		resp["error"] = err.Error()
	}
	return c.JSON(resp)
}

// ReloadCatalog fetches the collection again and drops cached pages
func (s *ListingService) ReloadCatalog(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout+5*time.Second)
	defer cancel()

	err := s.loader.Reload(ctx)
	s.cache.Clear()
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"state": source.StateFailed,
			"error": err.Error(),
		})
	}

	listings, _ := s.loader.Listings()
	return c.JSON(fiber.Map{
		"state": source.StateReady,
		"count": len(listings),
	})
}

func (s *ListingService) favorites(c fiber.Ctx) (*favorites.Store, error) {
	ctx, cancel := db.GetContext()
	defer cancel()

	sessionID := middleware.SessionID(c)
	store, err := s.sessions.For(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to open favorites", zap.String("session", sessionID), zap.Error(err))
		return nil, err
	}
	return store, nil
}

func (s *ListingService) cards(listings []models.Listing, store *favorites.Store) []models.ListingCard {
	var thumbnail func(string) string
	if s.thumbnails != nil {
		thumbnail = s.thumbnails.ThumbnailURL
	}
	return models.NewListingCards(listings, thumbnail, store.IsFavorite)
}

// loading is returned while the collection is not available
func loading(c fiber.Ctx) error {
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"state": source.StateLoading})
}

// parsePrice treats a blank value as an unset bound
func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) {
		return nil, strconv.ErrSyntax
	}
	return &v, nil
}
