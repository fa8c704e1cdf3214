package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/api/handlers"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/api/middleware"
	job "github.com/Shashank-765/LinkedInAutomation-sub000/internal/jobs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/queue"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	accountRepo := repository.NewLinkedInAccountRepository(db)
	postMediaRepo := repository.NewPostMediaRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	postingHistoryRepo := repository.NewPostingHistoryRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	industryRepo := repository.NewIndustryRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, accountRepo)
	r2Service := service.NewR2Service(*cfg)
	assetService := service.NewAssetService(*cfg)
	carouselService := service.NewCarouselService(assetService)
	uploadService := service.NewUploadService(*cfg)
	linkedinService := service.NewLinkedInService(*cfg, accountRepo, postMediaRepo, mediaAssetRepo, assetService, carouselService, uploadService)
	contentService := service.NewContentService(*cfg)
	accountService := service.NewAccountService(accountRepo)
	postService := service.NewPostService(*cfg, db, postRepo, accountRepo, mediaAssetRepo, postMediaRepo, postingHistoryRepo, assetService, r2Service)
	dispatchService := service.NewDispatchService(*cfg, db, postRepo, accountRepo, mediaAssetRepo, postMediaRepo, postingHistoryRepo, settingsRepo, linkedinService, contentService, r2Service)
	scheduleService := service.NewScheduleService(calendarRepo, industryRepo, accountRepo)
	settingsService := service.NewSettingsService(settingsRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	platform := handlers.NewPlatformHandler(linkedinService, accountService, *cfg)
	app.Get("/auth/linkedin/callback", platform.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/auth/linkedin", platform.ConnectAccount)
	api.Get("/accounts", platform.ListAccounts)
	api.Post("/accounts/remove", platform.DeleteAccount)

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/active_account", user.SetActiveAccount)
	api.Post("/user/remove", user.RemoveUser)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings/info", settings.GetSettingsInfo)
	api.Post("/settings/update", settings.UpdateSettings)

	post := handlers.NewPostHandler(postService, dispatchService, client)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/approve", post.ApprovePost)
	api.Post("/posts/deploy", post.DeployPost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/history", post.ListHistory)
	api.Post("/posts/remove", post.RemovePost)

	schedule := handlers.NewScheduleHandler(scheduleService)
	api.Get("/schedule/calendar", schedule.GetCalendarConfig)
	api.Post("/schedule/calendar", schedule.UpdateCalendarConfig)
	api.Get("/schedule/industry", schedule.GetIndustryConfig)
	api.Post("/schedule/industry", schedule.UpdateIndustryConfig)

	// cron jobs
	dispatchJob := job.NewDispatchJob(dispatchService,
		job.NewScheduleSource(postRepo),
		job.NewCalendarSource(calendarRepo, accountRepo, dispatchService),
		job.NewIndustrySource(industryRepo, accountRepo, dispatchService),
	)
	refreshTokenJob := job.NewTokenRefreshJob(accountRepo, linkedinService)
	metricsSyncJob := job.NewMetricsSyncJob(postRepo, accountRepo, linkedinService)

	// queue
	queueW := queue.NewQueue(postRepo, dispatchService)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", dispatchJob.Run)
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.AddFunc("@every 01h00m00s", metricsSyncJob.SyncMetrics)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeSchedulePost, queueW.HandleSchedulePostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
