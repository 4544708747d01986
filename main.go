package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/kure-api/config"
	"github.com/meinhoongagan/kure-api/controllers"
	"github.com/meinhoongagan/kure-api/cron"
	"github.com/meinhoongagan/kure-api/db"
	"github.com/meinhoongagan/kure-api/logger"
	"github.com/meinhoongagan/kure-api/metrics"
	"github.com/meinhoongagan/kure-api/middleware"
	kredis "github.com/meinhoongagan/kure-api/redis"
	"github.com/meinhoongagan/kure-api/repository"
	"github.com/meinhoongagan/kure-api/routes"
	"github.com/meinhoongagan/kure-api/services"
	"github.com/meinhoongagan/kure-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	rdb, err := kredis.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	appointmentRepo := repository.NewAppointmentRepository(gdb)
	serviceRepo := repository.NewServiceRepository(gdb)
	userRepo := repository.NewUserRepository(gdb)
	providerRepo := repository.NewProviderRepository(gdb)
	otpStore := repository.NewOTPStore(rdb)

	collector := metrics.New()
	mailer := utils.NewMailer(cfg.SMTP)
	uploader, err := utils.NewUploader(cfg.Cloudinary)
	if err != nil {
		return fmt.Errorf("failed to configure image uploads: %w", err)
	}
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	appointmentService := services.NewAppointmentService(appointmentRepo, serviceRepo, collector, log)
	reportingService := services.NewReportingService(appointmentRepo, serviceRepo, cfg.Location, log)
	catalogService := services.NewCatalogService(serviceRepo, uploader, log)
	authService := services.NewAuthService(userRepo, providerRepo, otpStore, mailer, tokens, cfg.OTPTTL, cfg.IsProduction(), log)

	app := fiber.New(fiber.Config{
		AppName:      "Kure API",
		ErrorHandler: utils.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
	}))
	app.Use(middleware.RequestLogger(log))
	app.Use(collector.Middleware())

	routes.Setup(app, routes.Deps{
		JWTSecret:    cfg.JWTSecret,
		Parties:      appointmentRepo,
		Auth:         controllers.NewAuthController(authService),
		Appointments: controllers.NewAppointmentController(appointmentService, reportingService),
		Providers:    controllers.NewProviderController(reportingService),
		Services:     controllers.NewServiceController(catalogService),
		Metrics:      collector.Handler(),
	})

	reminders := cron.NewReminders(appointmentRepo, mailer, collector, cfg.Location, log)
	scheduler, err := cron.StartCronJobs(cfg.ReminderCron, reminders)
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	defer scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	return app.ShutdownWithTimeout(10 * time.Second)
}
