package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	eventapp "github.com/fitdesk/backend/internal/application/event"
	financeapp "github.com/fitdesk/backend/internal/application/finance"
	membershipapp "github.com/fitdesk/backend/internal/application/membership"
	salesapp "github.com/fitdesk/backend/internal/application/sales"
	summaryapp "github.com/fitdesk/backend/internal/application/summary"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/infrastructure/cache"
	"github.com/fitdesk/backend/internal/infrastructure/cleanup"
	"github.com/fitdesk/backend/internal/infrastructure/config"
	"github.com/fitdesk/backend/internal/infrastructure/event"
	"github.com/fitdesk/backend/internal/infrastructure/logger"
	"github.com/fitdesk/backend/internal/infrastructure/persistence"
	"github.com/fitdesk/backend/internal/infrastructure/scheduler"
	"github.com/fitdesk/backend/internal/interfaces/http/handler"
	"github.com/fitdesk/backend/internal/interfaces/http/middleware"
	"github.com/fitdesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			FitDesk Backend API
//	@version		1.0
//	@description	Contract lifecycle and financial ledger engine for multi-tenant gym management

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: time.RFC3339Nano,
	})
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("fitdesk backend starting",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Civil-date timezone for the lifecycle sweeps
	location := cfg.App.Location()
	today := func() valueobject.Date { return valueobject.Today(location) }

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("closing database", zap.Error(err))
		}
	}()
	log.Info("database connected",
		zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.DBName))

	// Repositories and stores
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	summaryRepo := persistence.NewGormSummaryRepository(db.DB)
	sequenceGenerator := persistence.NewGormSequenceGenerator(db.DB)
	enrollmentStore := persistence.NewGormEnrollmentStore(db.DB)
	enrollmentStore.SetTodayProvider(today)
	branchPolicyStore := persistence.NewGormBranchPolicyStore(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)

	// The outbox saver rides the same database transaction as every
	// aggregate save, so events and state commit or roll back together
	outboxPublisher := event.NewOutboxPublisher(serializer)
	receivableRepo.SetOutboxEventSaver(outboxPublisher)

	membershipTxScope := persistence.NewGormMembershipTransactionScope(db.DB)
	membershipTxScope.SetOutboxEventSaver(outboxPublisher)
	financeTxScope := persistence.NewGormFinanceTransactionScope(db.DB)
	financeTxScope.SetOutboxEventSaver(outboxPublisher)
	salesTxScope := persistence.NewGormSalesTransactionScope(db.DB)
	salesTxScope.SetOutboxEventSaver(outboxPublisher)

	// Post-commit cleanup worker for cancellation cascades
	cleanupWorker := cleanup.NewWorker(cleanup.Config{
		QueueSize:   cfg.Cleanup.QueueSize,
		Workers:     cfg.Cleanup.Workers,
		TaskTimeout: cleanup.DefaultConfig().TaskTimeout,
	}, log)
	cleanupWorker.Start(context.Background())
	defer func() {
		if err := cleanupWorker.Stop(context.Background()); err != nil {
			log.Error("stopping cleanup worker", zap.Error(err))
		}
	}()

	// Application services
	contractService := membershipapp.NewContractService(
		membershipTxScope,
		sequenceGenerator,
		enrollmentStore,
		branchPolicyStore,
		receivableRepo,
		cleanupWorker,
		log,
	)
	contractService.SetTodayProvider(today)

	receivableService := financeapp.NewReceivableService(financeTxScope, sequenceGenerator, log)
	receivableService.SetTodayProvider(today)
	transactionService := financeapp.NewTransactionService(financeTxScope, sequenceGenerator)
	saleService := salesapp.NewSaleService(salesTxScope, sequenceGenerator, log)
	summaryQueryService := summaryapp.NewQueryService(summaryRepo)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Idempotency store for event handlers: Redis when reachable, with an
	// in-memory fallback that only dedupes within this process
	var idempotencyStore shared.IdempotencyStore
	if redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotencyStore = redisStore
		log.Info("redis idempotency store connected",
			zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
	}

	// Summary projections subscribe through the idempotency wrapper so
	// at-least-once outbox delivery cannot double-count a bucket
	bus := event.NewInMemoryEventBus(log)

	transactionSummaryHandler := summaryapp.NewTransactionSummaryHandler(summaryRepo, log)
	saleSummaryHandler := summaryapp.NewSaleSummaryHandler(summaryRepo, log)
	contractSummaryHandler := summaryapp.NewContractSummaryHandler(summaryRepo, log)
	for _, h := range []shared.EventHandler{
		transactionSummaryHandler,
		saleSummaryHandler,
		contractSummaryHandler,
	} {
		bus.Subscribe(event.NewIdempotentHandler(h, idempotencyStore, log))
	}

	log.Info("summary projection handlers registered",
		zap.Strings("transaction_events", transactionSummaryHandler.EventTypes()),
		zap.Strings("sale_events", saleSummaryHandler.EventTypes()),
		zap.Strings("contract_events", contractSummaryHandler.EventTypes()),
	)

	if err := bus.Start(context.Background()); err != nil {
		log.Fatal("event bus start failed", zap.Error(err))
	}
	defer func() {
		if err := bus.Stop(context.Background()); err != nil {
			log.Error("stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers stored events to the bus
	if cfg.Event.ProcessorEnabled {
		processorCfg := event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  event.DefaultOutboxProcessorConfig().CleanupInterval,
		}
		processor := event.NewOutboxProcessor(outboxRepo, bus, serializer, processorCfg, log)
		if err := processor.Start(context.Background()); err != nil {
			log.Fatal("outbox processor start failed", zap.Error(err))
		}
		defer func() {
			if err := processor.Stop(context.Background()); err != nil {
				log.Error("stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("outbox processor started",
			zap.Int("batch_size", processorCfg.BatchSize),
			zap.Duration("poll_interval", processorCfg.PollInterval),
		)
	}

	// Lifecycle scheduler sweeps due suspensions and scheduled cancellations
	if cfg.Scheduler.Enabled {
		schedCfg := scheduler.DefaultConfig()
		schedCfg.Enabled = true
		schedCfg.SweepInterval = cfg.Scheduler.SweepInterval
		schedCfg.JobTimeout = cfg.Scheduler.JobTimeout
		lifecycleScheduler := scheduler.NewScheduler(
			schedCfg,
			scheduler.NewLifecycleExecutor(contractService),
			log,
		)
		if err := lifecycleScheduler.Start(context.Background()); err != nil {
			log.Fatal("lifecycle scheduler start failed", zap.Error(err))
		}
		defer func() {
			if err := lifecycleScheduler.Stop(context.Background()); err != nil {
				log.Error("stopping lifecycle scheduler", zap.Error(err))
			}
		}()
		log.Info("lifecycle scheduler started",
			zap.Duration("sweep_interval", schedCfg.SweepInterval),
			zap.Duration("job_timeout", schedCfg.JobTimeout),
		)
	}

	contractHandler := handler.NewContractHandler(contractService)
	financeHandler := handler.NewFinanceHandler(receivableService, transactionService)
	saleHandler := handler.NewSaleHandler(saleService)
	summaryHandler := handler.NewSummaryHandler(summaryQueryService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler(db)

	engine := buildEngine(cfg, log)

	// Liveness probe stays outside API versioning so load balancers can
	// reach it without tenant headers
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Contract lifecycle
	contractRoutes := router.NewDomainGroup("contracts", "/contracts")
	contractRoutes.Use(middleware.RequireScope())
	contractRoutes.POST("", contractHandler.CreateContract)
	contractRoutes.GET("", contractHandler.ListContracts)
	contractRoutes.GET("/:id", contractHandler.GetContract)
	contractRoutes.POST("/:id/suspensions", contractHandler.ScheduleSuspension)
	contractRoutes.GET("/:id/suspensions", contractHandler.ListSuspensions)
	contractRoutes.POST("/:id/suspensions/:suspensionId/stop", contractHandler.StopSuspension)
	contractRoutes.POST("/:id/cancel", contractHandler.CancelContract)

	// Client receivables
	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.Use(middleware.RequireScope())
	clientRoutes.GET("/:clientId/receivables", financeHandler.ListOpenReceivables)
	clientRoutes.POST("/:clientId/receivable-payments", financeHandler.PayReceivables)

	// Ledger transactions
	transactionRoutes := router.NewDomainGroup("transactions", "/transactions")
	transactionRoutes.Use(middleware.RequireScope())
	transactionRoutes.POST("", financeHandler.CreateTransaction)
	transactionRoutes.GET("", financeHandler.ListTransactions)
	transactionRoutes.GET("/:id", financeHandler.GetTransaction)
	transactionRoutes.PUT("/:id", financeHandler.UpdateTransaction)
	transactionRoutes.DELETE("/:id", financeHandler.DeleteTransaction)

	// Sales
	saleRoutes := router.NewDomainGroup("sales", "/sales")
	saleRoutes.Use(middleware.RequireScope())
	saleRoutes.POST("", saleHandler.SaveSale)
	saleRoutes.GET("", saleHandler.ListSales)
	saleRoutes.GET("/:id", saleHandler.GetSale)
	saleRoutes.DELETE("/:id", saleHandler.DeleteSale)

	// Financial summaries
	summaryRoutes := router.NewDomainGroup("summaries", "/summaries")
	summaryRoutes.Use(middleware.RequireScope())
	summaryRoutes.GET("/daily", summaryHandler.GetDailySummaryRange)
	summaryRoutes.GET("/daily/:date", summaryHandler.GetDailySummary)
	summaryRoutes.GET("/monthly/:month", summaryHandler.GetMonthlySummary)

	// System routes (health, outbox administration)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)
	systemRoutes.POST("/outbox/retry-all", outboxHandler.RetryAllDeadEntries)

	r.Register(contractRoutes).
		Register(clientRoutes).
		Register(transactionRoutes).
		Register(saleRoutes).
		Register(summaryRoutes).
		Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-shutdownCtx.Done()
	log.Info("shutdown signal received, draining requests")

	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped cleanly")
}

// buildEngine assembles the gin engine with the shared middleware stack.
// Route groups are registered by the caller.
func buildEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("trusted proxy configuration rejected", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
	)

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	return engine
}
