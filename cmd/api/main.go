package main

// @title Docking Planner API
// @version 1.0.0
// @description Сервис планирования новых велодокстанций: выдаёт токен Mapbox фронтенду карты,
// @description отдаёт датасет кандидатов (диаграмма Вороного по станциям TfL, привязанная к дорогам)
// @description и ставит запуски пайплайна в очередь.

// @host localhost:5000
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/docking-planner/docs"
	"github.com/docking-planner/internal/bootstrap"
	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain"
	httpDelivery "github.com/docking-planner/internal/delivery/http"
	"github.com/docking-planner/internal/delivery/http/handler"
	"github.com/docking-planner/internal/pkg/logger"
	"github.com/docking-planner/internal/repository/postgres"
	"github.com/docking-planner/internal/usecase"
	"github.com/docking-planner/internal/worker"
	"github.com/docking-planner/internal/worker/pipeline"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Docking Planner API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Bool("database", cfg.Database.Enabled),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	// 3. Connect to secret store, PostgreSQL, Redis, Kafka
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	infra, err := bootstrap.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize infrastructure", zap.Error(err))
	}
	defer infra.Close()

	// 4. Health checks
	checks := map[string]handler.HealthCheck{}
	if infra.DB != nil {
		checks["postgres"] = infra.DB.Health
	}
	if infra.Redis != nil {
		checks["redis"] = infra.Redis.Health
	}

	// 5. Initialize use cases and handlers
	handlers := httpDelivery.Handlers{
		Token:  handler.NewTokenHandler(infra.TokenUseCase(cfg), log),
		Health: handler.NewHealthHandler(checks, log),
	}

	if infra.DB != nil {
		nodeUC := usecase.NewNodeUseCase(
			postgres.NewNodeRepository(infra.DB),
			infra.CacheRepository(),
			log,
			cfg.Cache.NodesCacheTTL,
		)
		handlers.Nodes = handler.NewNodeHandler(nodeUC, log)
	}

	if streams := infra.StreamRepository(cfg); streams != nil {
		handlers.Pipeline = handler.NewPipelineHandler(usecase.NewTriggerUseCase(streams, log), log)
	}

	log.Info("HTTP handlers initialized")

	// 6. Optional in-process pipeline worker
	var workerManager *worker.WorkerManager
	if cfg.Worker.Enabled && infra.Redis != nil {
		pipelineUC, err := bootstrap.NewPipeline(ctx, cfg, infra, log, domain.StageAll)
		if err != nil {
			log.Fatal("Failed to initialize pipeline", zap.Error(err))
		}

		workerManager = worker.NewWorkerManager(log, 0)
		workerManager.Register(pipeline.NewPipelineWorker(
			infra.StreamRepository(cfg),
			pipelineUC,
			cfg.Worker.ConsumerGroup,
			log,
		).WithClaimMinIdle(cfg.Worker.ClaimMinIdle))
		if err := workerManager.Start(ctx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	// 7. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, handlers)

	// 8. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if workerManager != nil {
		if err := workerManager.Stop(); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
		}
	}
	cancel()

	log.Info("Server stopped successfully")
}
