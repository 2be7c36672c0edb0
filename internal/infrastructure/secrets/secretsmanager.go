package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"go.uber.org/zap"
)

// secretsAPI is the subset of the Secrets Manager client we call.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type awsStore struct {
	api     secretsAPI
	timeout time.Duration
	logger  *zap.Logger
}

// NewAWSStore создает хранилище секретов поверх AWS Secrets Manager
func NewAWSStore(ctx context.Context, cfg *config.SecretsConfig, logger *zap.Logger) (repository.SecretRepository, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return newAWSStore(secretsmanager.NewFromConfig(awsCfg), cfg.Timeout, logger), nil
}

func newAWSStore(api secretsAPI, timeout time.Duration, logger *zap.Logger) *awsStore {
	return &awsStore{api: api, timeout: timeout, logger: logger}
}

// GetSecret читает секрет и разбирает SecretString как JSON-объект
func (s *awsStore) GetSecret(ctx context.Context, name string) (map[string]interface{}, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, apperrors.ErrSecretStore.Wrap(fmt.Errorf("secret %q not found", name))
		}
		s.logger.Error("Failed to get secret value", zap.String("secret", name), zap.Error(err))
		return nil, apperrors.ErrSecretStore.Wrap(fmt.Errorf("could not retrieve secret %q: %w", name, err))
	}

	if out.SecretString == nil {
		return nil, apperrors.ErrSecretStore.Wrap(fmt.Errorf("SecretString not found in the response for %s", name))
	}

	return decodeSecret(name, *out.SecretString)
}

func decodeSecret(name, raw string) (map[string]interface{}, error) {
	var secret map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &secret); err != nil {
		return nil, apperrors.ErrSecretStore.Wrap(fmt.Errorf("secret %q is not a JSON object: %w", name, err))
	}
	return secret, nil
}
