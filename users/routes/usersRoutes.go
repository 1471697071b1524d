package router

import (
	"movein-backend/middleware"
	"movein-backend/notifications"
	"movein-backend/users/controllers"
	"movein-backend/users/repositories"
	"movein-backend/users/services"

	"github.com/gofiber/fiber/v2"
)

func InitRoutes(
	app *fiber.App,
	userRepo repositories.UserRepository,
	appCtx *middleware.AppContext,
	sessionService *services.SessionService,
	notifier notifications.Notifier,
	loginLimiter *middleware.IPRateLimiter,
	baseURL string,
) {
	authController := &controllers.AuthController{
		UserRepo:     userRepo,
		Sessions:     sessionService,
		Verification: services.NewVerificationService(appCtx.Sessions, services.DefaultVerificationTTL),
		AppCtx:       appCtx,
		Notifier:     notifier,
		BaseURL:      baseURL,
	}
	profileController := &controllers.ProfileController{UserRepo: userRepo}

	protected := middleware.ProtectedRoute(appCtx)
	adminOnly := middleware.RequireAdmin()
	limited := middleware.RateLimit(loginLimiter)

	// Middleware is attached per route: groups share the /api/v1 prefix across packages.
	api := app.Group("/api/v1")
	{
		api.Post("/auth/register", limited, authController.Register)
		api.Post("/auth/login", limited, authController.Login)
		api.Post("/auth/resend-verification", limited, authController.ResendVerification)
		api.Get("/auth/verify", authController.VerifyEmail)
		api.Post("/auth/logout", authController.Logout)

		api.Get("/me", protected, profileController.GetCurrentUser)
		api.Patch("/me", protected, profileController.UpdateProfile)

		api.Get("/admin/tenants", protected, adminOnly, profileController.ListTenants)
	}
}
