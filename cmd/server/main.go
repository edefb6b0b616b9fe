package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oliveirafelipe/carteira-backend/internal/adapter/marketdata/brapi"
	"github.com/oliveirafelipe/carteira-backend/internal/adapter/repository/postgres"
	"github.com/oliveirafelipe/carteira-backend/internal/adapter/rest"
	"github.com/oliveirafelipe/carteira-backend/internal/config"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/history"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/operation"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/position"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/valuation"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/wallet"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 1. Setup Database
	db, err := postgres.NewDB(cfg.Database.ConnString())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	operationRepo := postgres.NewOperationRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)
	snapshotEventRepo := postgres.NewSnapshotEventRepository(db)

	// 3. Initialize the Market Data Adapter (brapi.dev)
	priceProvider := brapi.NewClient(cfg.Brapi.BaseURL, cfg.Brapi.Token, cfg.Brapi.Timeout(), cfg.Brapi.CacheTTL())

	// 4. Initialize Services (Use Cases)
	policy, err := cfg.Engine.Policy()
	if err != nil {
		logger.Error("invalid engine configuration", "error", err)
		os.Exit(1)
	}
	calculator := position.NewCalculator(policy)

	walletService := wallet.NewService(investmentRepo, snapshotEventRepo)
	operationService := operation.NewService(operationRepo, investmentRepo)
	positionService := position.NewService(operationRepo, calculator)
	valuationService := valuation.NewService(investmentRepo, operationRepo, priceProvider, calculator)
	reconstructor := history.NewReconstructor(investmentRepo, operationRepo, priceProvider, calculator)

	// 5. Start HTTP Server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	api.Use(rest.AuthMiddleware(cfg.Server.APIToken))

	handler := rest.NewHandler(walletService, operationService, positionService, valuationService, reconstructor, logger)
	handler.RegisterRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	logger.Info("http server stopped")
}
