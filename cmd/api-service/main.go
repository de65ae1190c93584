package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocksense-api/internal/api/config"
	delivery "stocksense-api/internal/api/delivery/http"
	_ "stocksense-api/internal/api/docs"
	"stocksense-api/internal/api/repository"
	"stocksense-api/internal/api/service"
	"stocksense-api/internal/api/strategy"
	"stocksense-api/pkg/logger"
	"stocksense-api/pkg/postgres"
	"stocksense-api/pkg/redis"
	"stocksense-api/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize repositories
	analysisRepo := repository.NewStockAnalysisRepository(db.DB)
	holdingRepo := repository.NewPortfolioHoldingRepository(db.DB)
	profileRepo := repository.NewUserProfileRepository(db.DB)
	quoteRepo := repository.NewStaticQuoteRepository(cfg.Portfolio.QuoteOverrides, cfg.Portfolio.QuoteCacheTTL)

	// Initialize the notifier strategy for dispatching analysis jobs
	var notifier strategy.Notifier
	switch cfg.Dispatcher.Strategy {
	case strategy.TypeQueue:
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		notifier = strategy.NewQueueNotifier(redisClient.Client, cfg.Redis.StreamMaxLen, appLogger)
	case strategy.TypeWebhook:
		notifier = strategy.NewWebhookNotifier(cfg.Dispatcher.WebhookTimeout, cfg.Dispatcher.MaxRequestPerMinute, appLogger)
	default:
		appLogger.Fatal("Unknown dispatcher strategy", logger.Field("strategy", cfg.Dispatcher.Strategy))
	}

	// Initialize the optional Telegram notifier
	var telegramNotifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
		}
	}

	// Initialize services
	analysisSvc := service.NewAnalysisService(analysisRepo, profileRepo, notifier, telegramNotifier, cfg.Results.PageSize, appLogger)
	portfolioSvc := service.NewPortfolioService(holdingRepo, quoteRepo, appLogger)
	profileSvc := service.NewProfileService(profileRepo, appLogger)
	retentionSvc := service.NewRetentionService(analysisRepo, cfg.Retention, appLogger)

	if err := retentionSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start retention job", logger.ErrorField(err))
	}
	defer retentionSvc.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	analysisHandler := delivery.NewAnalysisHandler(analysisSvc, cfg.Callback.AuthToken, appLogger)
	analysisHandler.RegisterRoutes(apiV1.Group("/analyses"))

	portfolioHandler := delivery.NewPortfolioHandler(portfolioSvc, appLogger)
	portfolioHandler.RegisterRoutes(apiV1.Group("/portfolio"))

	profileHandler := delivery.NewProfileHandler(profileSvc, appLogger)
	profileHandler.RegisterRoutes(apiV1.Group("/profiles"))

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title StockSense API
// @version 1.0
// @description Backend for the StockSense stock analysis dashboard.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
