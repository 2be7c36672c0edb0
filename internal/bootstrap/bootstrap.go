// Package bootstrap собирает зависимости, общие для cmd/api, cmd/worker и cmd/pipeline.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/docking-planner/internal/infrastructure/mapbox"
	"github.com/docking-planner/internal/infrastructure/secrets"
	"github.com/docking-planner/internal/infrastructure/storage"
	"github.com/docking-planner/internal/infrastructure/tfl"
	"github.com/docking-planner/internal/repository/cache"
	"github.com/docking-planner/internal/repository/csvfile"
	"github.com/docking-planner/internal/repository/geojsonfile"
	"github.com/docking-planner/internal/repository/kafka"
	"github.com/docking-planner/internal/repository/postgres"
	redisRepo "github.com/docking-planner/internal/repository/redis"
	"github.com/docking-planner/internal/usecase"
	"go.uber.org/zap"
)

// Infra - подключения к внешним системам. Поля nil, если система выключена в конфиге.
type Infra struct {
	DB      *postgres.DB
	Redis   *cache.Redis
	Kafka   *kafka.Publisher
	Secrets repository.SecretRepository

	logger *zap.Logger
}

// Connect открывает включённые подключения и применяет миграции
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	infra := &Infra{logger: logger}

	store, err := secrets.New(ctx, &cfg.Secrets, logger)
	if err != nil {
		return nil, fmt.Errorf("secret store: %w", err)
	}
	infra.Secrets = store

	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		infra.DB = db

		if err := db.Migrate(ctx); err != nil {
			infra.Close()
			return nil, err
		}
	}

	if cfg.Redis.Enabled {
		r, err := cache.NewRedis(&cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Redis = r
	}

	if len(cfg.Kafka.Brokers) > 0 {
		infra.Kafka = kafka.NewPublisher(&cfg.Kafka, logger)
		logger.Info("Kafka publisher configured",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}

	return infra, nil
}

// Close закрывает все открытые подключения
func (i *Infra) Close() {
	if i.Kafka != nil {
		if err := i.Kafka.Close(); err != nil {
			i.logger.Error("Failed to close Kafka writer", zap.Error(err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			i.logger.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}
}

// CacheRepository возвращает nil без Redis
func (i *Infra) CacheRepository() repository.CacheRepository {
	if i.Redis == nil {
		return nil
	}
	return cache.NewCacheRepository(i.Redis)
}

// StreamRepository возвращает nil без Redis
func (i *Infra) StreamRepository(cfg *config.Config) repository.StreamRepository {
	if i.Redis == nil {
		return nil
	}
	return redisRepo.NewStreamRepository(i.Redis.Client(), i.logger, cfg.Worker.StreamReadTimeout)
}

// TokenUseCase читает токен Mapbox из хранилища секретов
func (i *Infra) TokenUseCase(cfg *config.Config) *usecase.TokenUseCase {
	return usecase.NewTokenUseCase(i.Secrets, cfg.Secrets.SecretName, cfg.Secrets.MapboxKey, i.logger)
}

// NewPipeline собирает PipelineUseCase для запуска stage. Токен Mapbox нужен
// только этапу nodes: он читается из хранилища секретов один раз на процесс,
// если не задан через MAPBOX_ACCESS_TOKEN.
func NewPipeline(ctx context.Context, cfg *config.Config, infra *Infra, logger *zap.Logger, stage domain.Stage) (*usecase.PipelineUseCase, error) {
	stationRepo := tfl.NewStationClient(&cfg.TfL, logger)

	var snapUC *usecase.SnapUseCase
	if stage.RunsNodes() {
		token := cfg.Mapbox.AccessToken
		if token == "" {
			t, err := infra.TokenUseCase(cfg).GetMapboxToken(ctx)
			if err != nil {
				return nil, fmt.Errorf("mapbox token: %w", err)
			}
			token = t
		}

		snapUC = usecase.NewSnapUseCase(
			mapbox.NewMapboxClient(&cfg.Mapbox, token, logger),
			infra.CacheRepository(),
			logger,
			cfg.Pipeline.SnapConcurrency,
			cfg.Pipeline.Precision,
			cfg.Cache.SnapCacheTTL,
		)
	}

	pipelineUC := usecase.NewPipelineUseCase(
		stationRepo,
		csvfile.NewEdgeStore(cfg.Pipeline.EdgesPath),
		csvfile.NewNodeStore(cfg.Pipeline.NodesPath),
		usecase.NewVoronoiUseCase(logger),
		snapUC,
		logger,
		cfg.Pipeline.Precision,
	)

	if b := cfg.HexGrid.BBox; len(b) == 4 {
		pipelineUC.WithHexGrid(usecase.NewHexGridUseCase(
			geojsonfile.NewHexGridStore(cfg.HexGrid.Path),
			domain.BoundingBox{MinLon: b[0], MinLat: b[1], MaxLon: b[2], MaxLat: b[3]},
			cfg.HexGrid.Resolution,
			logger,
		))
	}

	if infra.DB != nil {
		pipelineUC.WithNodeRepository(postgres.NewNodeRepository(infra.DB))
	}

	if cfg.Storage.Enabled {
		objectStorage, err := storage.NewS3Storage(&cfg.Storage, logger)
		if err != nil {
			return nil, err
		}
		pipelineUC.WithObjectStorage(objectStorage, cfg.Storage.ObjectKey)
	}

	if streams := infra.StreamRepository(cfg); streams != nil {
		pipelineUC.WithPublishers(redisRepo.NewDonePublisher(streams))
	}
	if infra.Kafka != nil {
		pipelineUC.WithPublishers(infra.Kafka)
	}

	return pipelineUC, nil
}
