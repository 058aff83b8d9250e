package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "taxwizard/api/swagger" // swagger docs
	"taxwizard/internal/catalog"
	"taxwizard/internal/config"
	"taxwizard/internal/database"
	"taxwizard/internal/gemini"
	"taxwizard/internal/handler"
	"taxwizard/internal/i18n"
	"taxwizard/internal/metrics"
	"taxwizard/internal/middleware"
	"taxwizard/internal/model"
	"taxwizard/internal/repository"
	"taxwizard/internal/service"
	"taxwizard/internal/websocket"
	"taxwizard/internal/wizard"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// @title           Tax Wizard API
// @version         1.0
// @description     Multi-country tax form wizard with AI assistance.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := config.LoadEnvFile("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Static reference data
	countryCatalog, err := catalog.Load()
	if err != nil {
		logger.Fatal("failed to load country catalog", zap.Error(err))
	}
	translations, err := i18n.Load()
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}
	seed, err := catalog.SeedConfigs()
	if err != nil {
		logger.Fatal("failed to load country configs", zap.Error(err))
	}

	store, err := openStore(ctx, cfg, seed, logger)
	if err != nil {
		logger.Fatal("storage setup failed", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	if n, err := store.TaxForms.Count(ctx); err == nil {
		metrics.StoredForms.Set(float64(n))
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run(ctx)

	aiClient := gemini.NewClient(gemini.Config{
		APIKey:  cfg.GoogleAIAPIKey,
		BaseURL: cfg.GoogleAIBaseURL,
		Model:   cfg.GoogleAIModel,
		Timeout: cfg.AIHTTPTimeout,
	}, logger)

	// Set up dependencies (Repository -> Service -> Handler)
	formService := service.NewFormService(store.TaxForms, wsHub, logger)
	countryService := service.NewCountryService(store.Countries, countryCatalog, translations)
	assistService := service.NewAssistService(aiClient, store.AIAssistance, wsHub, logger)
	wizardService := service.NewWizardService(wizard.NewEngine(countryCatalog, translations), store.Sessions, formService, logger)

	formHandler := handler.NewFormHandler(formService)
	countryHandler := handler.NewCountryHandler(countryService)
	assistHandler := handler.NewAssistHandler(assistService)
	wizardHandler := handler.NewWizardHandler(wizardService)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger), middleware.Metrics())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Request-Id"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", assistHandler.Health)

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	// API Routing
	api := router.Group("/api")
	formHandler.RegisterRoutes(api)
	countryHandler.RegisterRoutes(api)
	assistHandler.RegisterRoutes(api)
	wizardHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageDriver),
			zap.Bool("ai_enabled", aiClient.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	if cfg.GinMode == gin.ReleaseMode {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func openStore(ctx context.Context, cfg *config.Config, seed []model.CountryConfig, logger *zap.Logger) (*repository.Store, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		logger.Info("using in-memory storage")
		return repository.NewMemoryStore(seed), nil
	}

	db, err := database.NewConnection(cfg.Database.DSN(), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to PostgreSQL", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
	return repository.NewGormStore(ctx, db, seed)
}
