package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/pmo"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	companyRepo := repository.NewCompanyRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	typeRepo := repository.NewTicketTypeRepository(pool)
	categoryRepo := repository.NewTicketCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewTicketCommentRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	outboxRepo := repository.NewPMOOutboxRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	unitOfWork := repository.NewUnitOfWork(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	pmoClient := pmo.NewClient(cfg.PMO.RequestTimeout())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		CompanyRepo:       companyRepo,
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		UnitOfWork:     unitOfWork,
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		HistoryRepo:    historyRepo,
		AttachmentRepo: attachmentRepo,
		CompanyRepo:    companyRepo,
		CustomerRepo:   customerRepo,
		TypeRepo:       typeRepo,
		CategoryRepo:   categoryRepo,
		UserRepo:       userRepo,
		OutboxRepo:     outboxRepo,
		PMOClient:      pmoClient,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		CompanyRepo:  companyRepo,
		CustomerRepo: customerRepo,
		TypeRepo:     typeRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
		BcryptCost:   cfg.Auth.BcryptCost,
	})
	dashboardService := service.NewDashboardService(dashboardRepo, redis.Client, cfg.Dashboard.CacheTTL(), logger)
	dashboardService.RegisterInvalidation(dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	pmoWorker := worker.NewPMOWorker(outboxRepo, pmoClient, cfg.PMO, logger)
	go pmoWorker.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AdminTickets:   handlers.NewAdminTicketsHandler(ticketService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
