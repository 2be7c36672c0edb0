// Package secrets provides the secret store used for the Mapbox token.
package secrets

import (
	"context"
	"fmt"

	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain/repository"
	"go.uber.org/zap"
)

// New выбирает реализацию по SECRET_PROVIDER
func New(ctx context.Context, cfg *config.SecretsConfig, logger *zap.Logger) (repository.SecretRepository, error) {
	switch cfg.Provider {
	case "env":
		return NewStaticStore(cfg.SecretName, cfg.StaticValue), nil
	case "aws":
		return NewAWSStore(ctx, cfg, logger)
	}
	return nil, fmt.Errorf("unknown secret provider %q", cfg.Provider)
}
