package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docking-planner/internal/bootstrap"
	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/pkg/logger"
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

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "pipeline-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Pipeline Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.String("stage", cfg.Pipeline.Stage),
		zap.Int("snap_concurrency", cfg.Pipeline.SnapConcurrency))

	if !cfg.Redis.Enabled {
		log.Fatal("Worker needs Redis streams, set REDIS_ENABLED=true")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to PostgreSQL / Redis / Kafka
	infra, err := bootstrap.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize infrastructure", zap.Error(err))
	}
	defer infra.Close()

	// 4. Initialize use cases
	pipelineUC, err := bootstrap.NewPipeline(ctx, cfg, infra, log, domain.StageAll)
	if err != nil {
		log.Fatal("Failed to initialize pipeline", zap.Error(err))
	}

	// 5. Initialize workers
	pipelineWorker := pipeline.NewPipelineWorker(
		infra.StreamRepository(cfg),
		pipelineUC,
		cfg.Worker.ConsumerGroup,
		log,
	).WithClaimMinIdle(cfg.Worker.ClaimMinIdle)

	// 6. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log, 0)
	workerManager.Register(pipelineWorker)

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Stop consuming first so the current run can finish
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
