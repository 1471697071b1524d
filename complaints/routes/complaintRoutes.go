package routes

import (
	"movein-backend/complaints/controllers"
	"movein-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InitComplaintRoutes(app *fiber.App, controller *controllers.ComplaintController, protected fiber.Handler) {
	adminOnly := middleware.RequireAdmin()

	api := app.Group("/api/v1/complaints")
	{
		api.Post("", protected, controller.Submit)
		api.Get("", protected, controller.ListMine)
		api.Get("/:id", protected, controller.Get)
	}

	admin := app.Group("/api/v1/admin/complaints")
	{
		admin.Get("", protected, adminOnly, controller.AdminList)
		admin.Post("/:id/respond", protected, adminOnly, controller.Respond)
		admin.Post("/:id/status", protected, adminOnly, controller.UpdateStatus)
		admin.Delete("/:id", protected, adminOnly, controller.Delete)
	}
}
