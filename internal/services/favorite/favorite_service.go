package favorite

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/catalog"
	"github.com/rajivgeraev/iv-catalog/internal/db"
	"github.com/rajivgeraev/iv-catalog/internal/events"
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

// FavoriteService serves the favorites page and favorite mutations
type FavoriteService struct {
	loader     *source.Loader
	sessions   *favorites.Sessions
	thumbnails Thumbnailer
	publisher  events.Publisher
	metrics    *metrics.MetricsManager
	logger     *zap.Logger
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(
	loader *source.Loader,
	sessions *favorites.Sessions,
	thumbnails Thumbnailer,
	publisher events.Publisher,
	metricsManager *metrics.MetricsManager,
	logger *zap.Logger,
) *FavoriteService {
	return &FavoriteService{
		loader:     loader,
		sessions:   sessions,
		thumbnails: thumbnails,
		publisher:  publisher,
		metrics:    metricsManager,
		logger:     logger,
	}
}

// GetFavorites lists the session's favorite listings in collection order
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	listings, err := s.loader.Listings()
	if err != nil {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"state": source.StateLoading})
	}

	store, err := s.store(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load favorites"})
	}

	var thumbnail func(string) string
	if s.thumbnails != nil {
		thumbnail = s.thumbnails.ThumbnailURL
	}
	selected := catalog.SelectByIDs(listings, store.List())
	cards := models.NewListingCards(selected, thumbnail, store.IsFavorite)

	return c.JSON(models.FavoritesResponse{
		Favorites: cards,
		Total:     len(cards),
	})
}

// ToggleFavorite flips the membership of one listing
func (s *FavoriteService) ToggleFavorite(c fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid listing id"})
	}

	store, err := s.store(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load favorites"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	isFavorite, err := store.Toggle(ctx, id)
	if err != nil {
		s.logger.Error("Failed to toggle favorite", zap.Int("listing_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save favorites"})
	}
	s.metrics.ObserveToggle(isFavorite)
	s.publish(ctx, middleware.SessionID(c), id, isFavorite)

	return c.JSON(models.FavoriteStatus{ID: id, IsFavorite: isFavorite})
}

// AddFavorite marks a listing as favorite; repeating it changes nothing
func (s *FavoriteService) AddFavorite(c fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid listing id"})
	}

	store, err := s.store(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load favorites"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	already := store.IsFavorite(id)
	if err := store.Add(ctx, id); err != nil {
		s.logger.Error("Failed to add favorite", zap.Int("listing_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save favorites"})
	}
	if !already {
		s.publish(ctx, middleware.SessionID(c), id, true)
	}

	return c.JSON(models.FavoriteStatus{ID: id, IsFavorite: true})
}

// CheckFavorite reports whether a listing is a favorite
func (s *FavoriteService) CheckFavorite(c fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid listing id"})
	}

	store, err := s.store(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load favorites"})
	}

	return c.JSON(models.FavoriteStatus{ID: id, IsFavorite: store.IsFavorite(id)})
}

func (s *FavoriteService) store(c fiber.Ctx) (*favorites.Store, error) {
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

// publish failures are logged only; the favorite is already saved
func (s *FavoriteService) publish(ctx context.Context, sessionID string, id int, isFavorite bool) {
	err := s.publisher.PublishFavoriteToggled(ctx, models.FavoriteToggled{
		SessionID:  sessionID,
		ListingID:  id,
		IsFavorite: isFavorite,
		ToggledAt:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Failed to publish favorite event", zap.Int("listing_id", id), zap.Error(err))
	}
}

func listingID(c fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
