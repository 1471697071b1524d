package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movein-backend/config"
	"movein-backend/internal/bootstrap"
	"movein-backend/middleware"
	"movein-backend/notifications"
	"movein-backend/token"
	"movein-backend/utils"
	"movein-backend/websocket"

	// Repositories
	complaintRepositories "movein-backend/complaints/repositories"
	cardRepositories "movein-backend/moveincards/repositories"
	noticeRepositories "movein-backend/notices/repositories"
	userRepositories "movein-backend/users/repositories"
	userServices "movein-backend/users/services"

	// Controllers and routes
	complaintControllers "movein-backend/complaints/controllers"
	complaintRoutes "movein-backend/complaints/routes"
	cardControllers "movein-backend/moveincards/controllers"
	cardRoutes "movein-backend/moveincards/routes"
	noticeControllers "movein-backend/notices/controllers"
	noticeRoutes "movein-backend/notices/routes"
	userRoutes "movein-backend/users/routes"

	// bleve
	bleveControllers "movein-backend/bleve/controllers"
	bleveRepositories "movein-backend/bleve/repositories"
	bleveRoutes "movein-backend/bleve/routes"
	bleveServices "movein-backend/bleve/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	config.LoadEnvFile(".env")

	// Initialize Zap logger
	config.InitLogger()
	defer config.Logger.Sync()

	settings, err := config.LoadSettings()
	if err != nil {
		config.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.ConfigureDatabase(settings)
	if err != nil {
		config.Logger.Fatal("Database setup failed", zap.Error(err))
	}
	if err := config.SeedInitialAdmin(db, settings.AdminEmail, settings.AdminPassword); err != nil {
		config.Logger.Fatal("Failed to seed initial admin", zap.Error(err))
	}

	// Redis backs sessions, verification tokens and the task queue
	redisClient, err := config.InitRedisServer(ctx, settings.RedisAddress)
	if err != nil {
		config.Logger.Fatal("Redis unavailable", zap.String("address", settings.RedisAddress), zap.Error(err))
	}
	defer redisClient.Close()

	asynqRedisOpt := asynq.RedisClientOpt{Addr: settings.RedisAddress}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenMaker, err := token.NewPasetoMaker(settings.TokenSymmetricKey)
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	// ------ Email worker ------
	mailer := notifications.NewMailer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUser, settings.SMTPPassword, settings.SMTPFrom)
	worker, workerMux := notifications.NewWorker(asynqRedisOpt, &notifications.EmailTaskHandler{Sender: mailer})
	if err := worker.Start(workerMux); err != nil {
		config.Logger.Fatal("Failed to start email worker", zap.Error(err))
	}

	// ------ WebSocket hub for live notifications ------
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	notifier := notifications.NewDispatcher(asynqClient, wsHub, settings.BaseFrontendURL)

	// Repositories
	userRepo := userRepositories.NewUserRepository(db)
	cardRepo := cardRepositories.NewMoveInCardRepository(db)
	noticeRepo := noticeRepositories.NewNoticeRepository(db)
	complaintRepo := complaintRepositories.NewComplaintRepository(db)

	// Search
	bleveIndexingService := bleveServices.NewIndexingService(config.Logger, settings.BleveIndexPath)
	bleveRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)
	if err := bootstrap.IndexSearchData(cardRepo, noticeRepo, bleveRepo); err != nil {
		config.Logger.Error("Search reindex failed", zap.Error(err))
	}

	sessionService := userServices.NewSessionService(userRepo)
	appCtx := &middleware.AppContext{
		PasetoMaker:   tokenMaker,
		Ctx:           ctx,
		Sessions:      middleware.NewRedisSessionStore(redisClient),
		Profiles:      sessionService,
		SecureCookies: settings.SecureCookies(),
	}
	protected := middleware.ProtectedRoute(appCtx)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    4 * 1024 * 1024,
	})
	app.Use(fiberrecover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	prometheus := fiberprometheus.New("movein-backend")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	middleware.InitCors(app, settings.BaseFrontendURL)

	// Routes
	userRoutes.InitRoutes(app, userRepo, appCtx, sessionService, notifier,
		middleware.NewIPRateLimiter(settings.LoginRatePerMinute), settings.BaseURL)

	cardRoutes.InitMoveInCardRoutes(app, &cardControllers.MoveInCardController{
		Repo:                   cardRepo,
		UserRepo:               userRepo,
		Notifier:               notifier,
		Search:                 bleveRepo,
		AllowEditAfterDecision: settings.AllowEditAfterDecision,
		ExportDir:              settings.ExportDir,
	}, protected)

	noticeRoutes.InitNoticeRoutes(app, &noticeControllers.NoticeController{
		Repo:     noticeRepo,
		Notifier: notifier,
		Search:   bleveRepo,
	}, protected)

	complaintRoutes.InitComplaintRoutes(app, &complaintControllers.ComplaintController{
		Repo:     complaintRepo,
		UserRepo: userRepo,
		Notifier: notifier,
	}, protected)

	bleveRoutes.InitBleveRoutes(app, bleveControllers.NewSearchController(bleveRepo), protected)

	// ------ WebSocket Route for live notifications ------
	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)
	app.Get("/ws", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws")

	// Background cleanup of expired exports
	cleanup, err := utils.RunScheduledCleanup(settings.ExportDir, settings.ExportTTL)
	if err != nil {
		config.Logger.Fatal("Failed to schedule export cleanup", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		config.Logger.Info("Shutdown signal received")

		<-cleanup.Stop().Done()
		worker.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			config.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", settings.Port))
	if err := app.Listen(":" + settings.Port); err != nil {
		config.Logger.Fatal("Server failed", zap.String("port", settings.Port), zap.Error(err))
	}

	if err := bleveIndexingService.Close(); err != nil {
		config.Logger.Error("Failed to close search indexes", zap.Error(err))
	}
	config.Logger.Info("Server stopped")
}
