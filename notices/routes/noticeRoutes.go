package routes

import (
	"movein-backend/middleware"
	"movein-backend/notices/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitNoticeRoutes(app *fiber.App, controller *controllers.NoticeController, protected fiber.Handler) {
	adminOnly := middleware.RequireAdmin()

	api := app.Group("/api/v1")
	{
		api.Get("/notices", controller.ListPublished)
		api.Get("/notices/:id", controller.GetPublished)
	}

	admin := app.Group("/api/v1/admin/notices")
	{
		admin.Get("", protected, adminOnly, controller.AdminList)
		admin.Post("", protected, adminOnly, controller.Create)
		admin.Get("/:id", protected, adminOnly, controller.AdminGet)
		admin.Put("/:id", protected, adminOnly, controller.Update)
		admin.Delete("/:id", protected, adminOnly, controller.Delete)
		admin.Post("/:id/toggle-important", protected, adminOnly, controller.ToggleImportant)
		admin.Post("/:id/toggle-published", protected, adminOnly, controller.TogglePublished)
	}
}
