package routes

import (
	"movein-backend/bleve/controllers"
	"movein-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InitBleveRoutes(app *fiber.App, controller *controllers.SearchController, protected fiber.Handler) {
	adminOnly := middleware.RequireAdmin()

	api := app.Group("/api/v1")
	{
		api.Get("/search/notices", controller.SearchNotices)
		api.Get("/admin/search/notices", protected, adminOnly, controller.AdminSearchNotices)
		api.Get("/admin/search/move-in-cards", protected, adminOnly, controller.SearchCards)
	}
}
