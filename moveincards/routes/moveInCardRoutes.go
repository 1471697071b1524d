package routes

import (
	"movein-backend/middleware"
	"movein-backend/moveincards/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitMoveInCardRoutes(app *fiber.App, controller *controllers.MoveInCardController, protected fiber.Handler) {
	adminOnly := middleware.RequireAdmin()

	api := app.Group("/api/v1")
	{
		api.Post("/move-in-cards/validate-step", protected, controller.ValidateStep)
		api.Get("/move-in-cards/exists", protected, controller.Exists)
		api.Post("/move-in-cards", protected, controller.Submit)
		api.Get("/move-in-cards", protected, controller.ListMine)
		api.Get("/move-in-cards/:id", protected, controller.Get)
		api.Put("/move-in-cards/:id", protected, controller.Update)
	}

	admin := app.Group("/api/v1/admin/move-in-cards")
	{
		admin.Get("", protected, adminOnly, controller.AdminList)
		admin.Get("/export", protected, adminOnly, controller.Export)
		admin.Get("/export/:file", protected, adminOnly, controller.DownloadExport)
		admin.Post("", protected, adminOnly, controller.AdminCreate)
		admin.Put("/:id", protected, adminOnly, controller.AdminUpdate)
		admin.Post("/:id/approve", protected, adminOnly, controller.Approve)
		admin.Post("/:id/reject", protected, adminOnly, controller.Reject)
		admin.Get("/:id/delete-summary", protected, adminOnly, controller.DeleteSummary)
		admin.Delete("/:id", protected, adminOnly, controller.Delete)
	}
}
