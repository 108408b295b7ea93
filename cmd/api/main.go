package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/may-baker/helpdesk-service/internal/api/http"
	"github.com/may-baker/helpdesk-service/internal/api/http/handlers"
	"github.com/may-baker/helpdesk-service/internal/config"
	"github.com/may-baker/helpdesk-service/internal/events"
	"github.com/may-baker/helpdesk-service/internal/mail"
	"github.com/may-baker/helpdesk-service/internal/observability"
	"github.com/may-baker/helpdesk-service/internal/persistence"
	"github.com/may-baker/helpdesk-service/internal/repository"
	"github.com/may-baker/helpdesk-service/internal/service"
	"github.com/may-baker/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	directoryDeps := service.DirectoryDependencies{
		UserRepo: userRepo,
		CacheTTL: cfg.Ingest.RosterCacheTTL(),
		Logger:   logger,
	}
	// Assign through the nil check so an absent cache stays a nil interface.
	if cache := persistence.NewRosterCache(redis); cache != nil {
		directoryDeps.Cache = cache
	}
	directory := service.NewDirectoryService(directoryDeps)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		Dispatcher:     dispatcher,
		AllowedDomains: cfg.Ingest.AllowedDomains,
	})
	assignmentService := service.NewAssignmentService(directory, nil)

	notificationService := service.NewNotificationService(mail.NewMailer(cfg.SMTP), dispatcher, logger)
	notificationService.RegisterHandlers()

	ingestService := service.NewIngestService(service.IngestDependencies{
		Source:     mail.NewIMAPSource(cfg.Mailbox, logger),
		Classifier: mail.NewClassifier(cfg.Ingest),
		Tickets:    ticketService,
		Directory:  directory,
		Assigner:   assignmentService,
		Logger:     logger,
		Metrics:    metrics,
	})
	ingestWorker := worker.NewIngestWorker(ingestService,
		cfg.Ingest.PollInterval(), cfg.Ingest.CycleTimeout(), logger, metrics)
	if cfg.Mailbox.Host != "" {
		ingestWorker.Start(ctx)
	} else {
		logger.Warn("IMAP_HOST not provided; mailbox ingestion disabled")
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets: handlers.NewTicketsHandler(ticketService),
		Users:   handlers.NewUsersHandler(directory),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if cfg.Mailbox.Host != "" {
		ingestWorker.Stop()
	}
	notificationService.Wait()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
