package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const nodesContentType = "text/csv"

// PipelineUseCase прогоняет этапы пайплайна кандидатов:
// станции -> рёбра Вороного -> файл рёбер -> дедупликация -> привязка к дорогам
// -> объединение со станциями -> файл узлов (+ Postgres, S3, события).
// Отдельный этап hexgrid пишет сетку H3 для карты.
type PipelineUseCase struct {
	stationRepo repository.StationRepository
	edgeStore   repository.EdgeStore
	nodeStore   repository.NodeStore
	voronoi     *VoronoiUseCase
	snapper     *SnapUseCase
	logger      *zap.Logger
	precision   int

	// опциональные публикации
	nodeRepo   repository.NodeRepository
	storage    repository.ObjectStorage
	objectKey  string
	publishers []repository.EventPublisher
	hexgrid    *HexGridUseCase

	now func() time.Time
}

// NewPipelineUseCase создает новый PipelineUseCase. snapper may be nil for a
// pipeline that never runs the nodes stage.
func NewPipelineUseCase(
	stationRepo repository.StationRepository,
	edgeStore repository.EdgeStore,
	nodeStore repository.NodeStore,
	voronoi *VoronoiUseCase,
	snapper *SnapUseCase,
	logger *zap.Logger,
	precision int,
) *PipelineUseCase {
	return &PipelineUseCase{
		stationRepo: stationRepo,
		edgeStore:   edgeStore,
		nodeStore:   nodeStore,
		voronoi:     voronoi,
		snapper:     snapper,
		logger:      logger,
		precision:   precision,
		now:         time.Now,
	}
}

// WithNodeRepository stores every finished dataset in repo.
func (uc *PipelineUseCase) WithNodeRepository(repo repository.NodeRepository) *PipelineUseCase {
	uc.nodeRepo = repo
	return uc
}

// WithObjectStorage uploads every finished dataset under key.
func (uc *PipelineUseCase) WithObjectStorage(storage repository.ObjectStorage, key string) *PipelineUseCase {
	uc.storage = storage
	uc.objectKey = key
	return uc
}

// WithPublishers announces finished runs through each publisher.
func (uc *PipelineUseCase) WithPublishers(publishers ...repository.EventPublisher) *PipelineUseCase {
	uc.publishers = append(uc.publishers, publishers...)
	return uc
}

// WithHexGrid enables the hexgrid stage.
func (uc *PipelineUseCase) WithHexGrid(hexgrid *HexGridUseCase) *PipelineUseCase {
	uc.hexgrid = hexgrid
	return uc
}

// Run executes stage. Files are replaced only when their stage succeeds, so
// a failed run leaves earlier artifacts in place.
func (uc *PipelineUseCase) Run(ctx context.Context, runID uuid.UUID, stage domain.Stage) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{
		RunID:     runID,
		Stage:     stage,
		StartedAt: uc.now(),
	}

	uc.logger.Info("Pipeline run started",
		zap.String("run_id", runID.String()),
		zap.String("stage", string(stage)))

	var stations []domain.Station

	if stage.RunsEdges() {
		fetched, err := uc.runEdges(ctx, summary)
		if err != nil {
			return nil, err
		}
		stations = fetched
	}

	if stage.RunsNodes() {
		if err := uc.runNodes(ctx, summary, stations); err != nil {
			return nil, err
		}
	}

	if stage.RunsHexGrid() {
		if uc.hexgrid == nil {
			return nil, fmt.Errorf("hexgrid stage is not configured")
		}
		n, err := uc.hexgrid.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("hexgrid: %w", err)
		}
		summary.Hexagons = n
	}

	summary.FinishedAt = uc.now()

	uc.logger.Info("Pipeline run finished",
		zap.String("run_id", runID.String()),
		zap.Int("stations", summary.Stations),
		zap.Int("edges", summary.Edges),
		zap.Int("unique_coordinates", summary.UniqueCoordinates),
		zap.Int("snapped", summary.Snapped),
		zap.Int("nodes", summary.Nodes),
		zap.Int("hexagons", summary.Hexagons),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)))

	return summary, nil
}

// Execute runs the pipeline for a trigger event and publishes the outcome.
// The returned event carries either the summary or the error message.
func (uc *PipelineUseCase) Execute(ctx context.Context, event *domain.PipelineRunEvent) *domain.PipelineDoneEvent {
	stage := event.Stage
	if stage == "" {
		stage = domain.StageAll
	}

	done := &domain.PipelineDoneEvent{RunID: event.RunID}

	summary, err := uc.Run(ctx, event.RunID, stage)
	if err != nil {
		uc.logger.Error("Pipeline run failed",
			zap.String("run_id", event.RunID.String()),
			zap.Error(err))
		done.Error = err.Error()
	} else {
		done.Summary = summary
	}

	for _, p := range uc.publishers {
		if perr := p.PublishDone(ctx, done); perr != nil {
			uc.logger.Error("Failed to publish done event",
				zap.String("run_id", event.RunID.String()),
				zap.Error(perr))
		}
	}

	return done
}

func (uc *PipelineUseCase) runEdges(ctx context.Context, summary *domain.RunSummary) ([]domain.Station, error) {
	stations, err := uc.stationRepo.FetchStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch stations: %w", err)
	}
	summary.Stations = len(stations)

	edges, err := uc.voronoi.ExtractEdges(stations)
	if err != nil {
		return nil, fmt.Errorf("extract edges: %w", err)
	}

	if err := uc.edgeStore.WriteEdges(edges); err != nil {
		return nil, err
	}
	summary.Edges = len(edges)

	return stations, nil
}

func (uc *PipelineUseCase) runNodes(ctx context.Context, summary *domain.RunSummary, stations []domain.Station) error {
	if uc.snapper == nil {
		return fmt.Errorf("nodes stage is not configured: no road snapper")
	}

	edges, err := uc.edgeStore.ReadEdges()
	if err != nil {
		return fmt.Errorf("read edges: %w", err)
	}
	summary.Edges = len(edges)

	unique := Deduplicate(domain.Endpoints(edges), uc.precision)
	summary.UniqueCoordinates = len(unique)

	snapped, snappedCount := uc.snapper.SnapAll(ctx, unique)
	summary.Snapped = snappedCount

	// этап nodes без edges: станции ещё не загружены
	if stations == nil {
		stations, err = uc.stationRepo.FetchStations(ctx)
		if err != nil {
			return fmt.Errorf("fetch stations: %w", err)
		}
	}
	summary.Stations = len(stations)

	nodes, err := MergeNodes(snapped, stations)
	if err != nil {
		return err
	}

	if err := uc.nodeStore.WriteNodes(nodes); err != nil {
		return err
	}
	summary.Nodes = len(nodes)

	if uc.nodeRepo != nil {
		if err := uc.nodeRepo.SaveRun(ctx, summary.RunID, nodes); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	if uc.storage != nil {
		if err := uc.upload(ctx, nodes); err != nil {
			return err
		}
		summary.ObjectKey = uc.objectKey
	}

	return nil
}

func (uc *PipelineUseCase) upload(ctx context.Context, nodes []domain.Node) error {
	body, err := uc.nodeStore.Encode(nodes)
	if err != nil {
		return fmt.Errorf("encode nodes: %w", err)
	}

	if err := uc.storage.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	if err := uc.storage.PutObject(ctx, uc.objectKey, bytes.NewReader(body), int64(len(body)), nodesContentType); err != nil {
		return fmt.Errorf("upload nodes: %w", err)
	}

	uc.logger.Info("Node dataset uploaded",
		zap.String("key", uc.objectKey),
		zap.Int("bytes", len(body)))

	return nil
}
