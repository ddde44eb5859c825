package listing

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/iv-catalog/internal/middleware"
)

// SetupRoutes registers the listing and catalog routes
func (s *ListingService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/listings")

	// favorites state on cards is scoped by session
	api.Use(middleware.SessionMiddleware())

	api.Get("/", s.GetListings)
	api.Get("/:id", s.GetListing)

	catalogAPI := app.Group("/api/catalog")
	catalogAPI.Get("/status", s.GetCatalogStatus)
	catalogAPI.Post("/reload", s.ReloadCatalog)
}
