package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	importapp "github.com/fundledger/backend/internal/application/import"
	investorapp "github.com/fundledger/backend/internal/application/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/fundledger/backend/internal/infrastructure/cache"
	"github.com/fundledger/backend/internal/infrastructure/config"
	"github.com/fundledger/backend/internal/infrastructure/logger"
	"github.com/fundledger/backend/internal/infrastructure/persistence"
	"github.com/fundledger/backend/internal/infrastructure/storage"
	"github.com/fundledger/backend/internal/infrastructure/telemetry"
	"github.com/fundledger/backend/internal/interfaces/http/handler"
	"github.com/fundledger/backend/internal/interfaces/http/middleware"
	"github.com/fundledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/fundledger/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			FundLedger API
//	@version		1.0
//	@description	Investor and commitment ingestion service. Accepts CSV batches and single records, and reports per-investor commitment totals.

//	@contact.name	API Support
//	@contact.url	https://github.com/fundledger/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}

	// Bootstrap logger for telemetry setup; replaced once the OTLP log bridge is up
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers := setupTelemetry(ctx, cfg, bootLog)

	var extraCores []zapcore.Core
	if providers.logs.IsEnabled() {
		extraCores = append(extraCores,
			telemetry.NewZapOTELCore(providers.logs, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	}
	log, err := logger.New(logCfg, extraCores...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting FundLedger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	if cfg.Database.Driver == config.DriverSQLite {
		dbTracing.DBSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}

	// Per-investor locking
	lockerFactory := cache.NewKeyLockerFactory(cfg.Redis, shared.KeyLockConfig{
		TTL:           cfg.Import.LockTTL,
		RetryInterval: 50 * time.Millisecond,
		WaitTimeout:   cfg.Import.LockWaitTimeout,
	}, cache.WithLogger(log))
	locker, closeLocker, err := lockerFactory.Create(cfg.Import.LockBackend)
	if err != nil {
		log.Fatal("Failed to create key locker", zap.Error(err))
	}
	defer func() {
		if err := closeLocker(); err != nil {
			log.Error("Error closing key locker", zap.Error(err))
		}
	}()

	// Repositories
	uow := persistence.NewGormTransactionScope(db.DB)
	investorRepo := persistence.NewGormInvestorRepository(db.DB)
	commitmentRepo := persistence.NewGormCommitmentRepository(db.DB)
	historyRepo := persistence.NewGormImportHistoryRepository(db.DB)

	// Application services
	importOpts := []importapp.Option{
		importapp.WithHistory(historyRepo),
		importapp.WithLogger(log),
		importapp.WithMaxErrorDetails(cfg.Import.MaxErrorDetails),
	}
	importMetrics, err := telemetry.NewImportMetrics(providers.metrics.Meter("fundledger/import"))
	if err != nil {
		log.Warn("Failed to create import metrics", zap.Error(err))
	} else {
		importOpts = append(importOpts, importapp.WithMetrics(importMetrics))
	}

	var archive importapp.BatchArchive
	if cfg.Import.ArchiveEnabled {
		archive = newArchive(ctx, cfg, log)
		importOpts = append(importOpts, importapp.WithArchive(archive))
	}

	importService := importapp.NewInvestorImportService(uow, locker, importOpts...)
	historyService := importapp.NewImportHistoryService(historyRepo, archive, log)
	commandService := investorapp.NewCommandService(uow, investorRepo, locker, log)
	queryService := investorapp.NewQueryService(investorRepo, commitmentRepo)

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(version, db)
	handlers := router.Handlers{
		Investor:      handler.NewInvestorHandler(commandService, queryService),
		Import:        handler.NewImportHandler(importService, cfg.Import.MaxFileSize),
		ImportHistory: handler.NewImportHistoryHandler(historyService),
		System:        systemHandler,
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack in order:
	// 1. Recovery - Catch panics
	// 2. RequestID - Generate/propagate request ID
	// 3. Tracing - Server span per request, tagged with the request ID
	// 4. Logger - Request logging with trace correlation
	// 5. Security - Security headers
	// 6. CORS - Cross-origin requests
	// 7. BodyLimit - Request body cap
	// 8. Metrics - Request counters and latency
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	if providers.tracer.IsEnabled() {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: true}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if providers.metrics.IsEnabled() {
		httpMetrics, err := middleware.HTTPMetrics(providers.metrics.Meter("fundledger/http"))
		if err != nil {
			log.Warn("Failed to create HTTP metrics", zap.Error(err))
		} else {
			engine.Use(httpMetrics)
		}
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var uploadMiddleware []gin.HandlerFunc
	if cfg.Import.UploadRateLimit > 0 {
		uploadLimiter := middleware.NewRateLimiter(cfg.Import.UploadRateLimit, time.Minute)
		defer uploadLimiter.Stop()
		uploadMiddleware = append(uploadMiddleware, middleware.RateLimit(uploadLimiter))
		log.Info("Upload rate limiting enabled", zap.Int("uploads_per_minute", cfg.Import.UploadRateLimit))
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPI(r, handlers, uploadMiddleware...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	providers.shutdown(shutdownCtx, log)

	log.Info("Server exited gracefully")
}

type telemetryProviders struct {
	tracer  *telemetry.TracerProvider
	metrics *telemetry.MeterProvider
	logs    *telemetry.LoggerProvider
}

// setupTelemetry starts the OTLP trace, metric and log providers. A provider
// that fails to start is replaced by a disabled one so the service still runs.
func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) telemetryProviders {
	t := cfg.Telemetry

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           t.Enabled,
		CollectorEndpoint: t.CollectorEndpoint,
		SamplingRatio:     t.SamplingRatio,
		ServiceName:       t.ServiceName,
		ServiceVersion:    version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Warn("Failed to start tracer provider, tracing disabled", zap.Error(err))
		tracer, _ = telemetry.NewTracerProvider(ctx, telemetry.Config{}, log)
	}

	metrics, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           t.Enabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ExportInterval:    t.MetricsInterval,
		ServiceName:       t.ServiceName,
		ServiceVersion:    version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Warn("Failed to start meter provider, metrics disabled", zap.Error(err))
		metrics, _ = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{}, log)
	}

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           t.Enabled && t.LogsEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ServiceName:       t.ServiceName,
		ServiceVersion:    version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Warn("Failed to start logs bridge, OTLP logs disabled", zap.Error(err))
		logs, _ = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{}, log)
	}

	return telemetryProviders{tracer: tracer, metrics: metrics, logs: logs}
}

func (p telemetryProviders) shutdown(ctx context.Context, log *zap.Logger) {
	if err := p.tracer.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := p.metrics.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := p.logs.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}

// newArchive connects to S3-compatible storage. Without a bucket the raw
// uploads are kept in memory, which only suits development.
func newArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) importapp.BatchArchive {
	if cfg.Storage.Bucket == "" {
		log.Warn("No storage bucket configured, archiving uploads in memory")
		return storage.NewMemoryObjectStorage()
	}

	s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare storage bucket", zap.Error(err))
	}
	log.Info("Archiving uploads to object storage", zap.String("bucket", s3.GetBucket()))
	return s3
}
