package favorite

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/iv-catalog/internal/middleware"
)

// SetupRoutes registers the favorites routes
func (s *FavoriteService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/favorites")

	api.Use(middleware.SessionMiddleware())

	api.Get("/", s.GetFavorites)
	api.Post("/:id/toggle", s.ToggleFavorite)
	api.Put("/:id", s.AddFavorite)
	api.Get("/:id/check", s.CheckFavorite)
}
