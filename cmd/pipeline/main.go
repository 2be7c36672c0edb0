package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docking-planner/internal/bootstrap"
	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	stageFlag := flag.String("stage", "", "pipeline stage: edges, nodes, all or hexgrid (default: PIPELINE_STAGE)")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "pipeline")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	stageName := cfg.Pipeline.Stage
	if *stageFlag != "" {
		stageName = *stageFlag
	}
	stage, err := domain.ParseStage(stageName)
	if err != nil {
		log.Fatal("Invalid stage", zap.Error(err))
	}

	// 3. Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Connect to external systems
	infra, err := bootstrap.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize infrastructure", zap.Error(err))
	}
	defer infra.Close()

	// 5. Build pipeline
	pipelineUC, err := bootstrap.NewPipeline(ctx, cfg, infra, log, stage)
	if err != nil {
		log.Fatal("Failed to initialize pipeline", zap.Error(err))
	}

	// 6. Run once
	done := pipelineUC.Execute(ctx, &domain.PipelineRunEvent{
		RunID:       uuid.New(),
		Stage:       stage,
		RequestedAt: time.Now().UTC(),
	})
	if !done.Succeeded() {
		log.Error("Pipeline failed", zap.String("error", done.Error))
		infra.Close()
		os.Exit(1)
	}

	log.Info("Pipeline complete",
		zap.String("run_id", done.RunID.String()),
		zap.String("edges_path", cfg.Pipeline.EdgesPath),
		zap.String("nodes_path", cfg.Pipeline.NodesPath),
		zap.String("hexgrid_path", cfg.HexGrid.Path),
		zap.Int("nodes", done.Summary.Nodes),
		zap.Int("hexagons", done.Summary.Hexagons))
}
