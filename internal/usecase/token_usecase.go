package usecase

import (
	"context"
	"fmt"

	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"go.uber.org/zap"
)

// TokenUseCase отдаёт фронтенду публичный токен Mapbox из хранилища секретов
type TokenUseCase struct {
	secrets    repository.SecretRepository
	secretName string
	key        string
	logger     *zap.Logger
}

// NewTokenUseCase создает новый TokenUseCase
func NewTokenUseCase(
	secrets repository.SecretRepository,
	secretName string,
	key string,
	logger *zap.Logger,
) *TokenUseCase {
	return &TokenUseCase{
		secrets:    secrets,
		secretName: secretName,
		key:        key,
		logger:     logger,
	}
}

// GetMapboxToken reads the token from the secret store on every call.
func (uc *TokenUseCase) GetMapboxToken(ctx context.Context) (string, error) {
	secret, err := uc.secrets.GetSecret(ctx, uc.secretName)
	if err != nil {
		uc.logger.Error("Failed to read secret",
			zap.String("secret", uc.secretName),
			zap.Error(err))
		return "", err
	}

	return lookupString(secret, uc.secretName, uc.key)
}

func lookupString(secret map[string]interface{}, name, key string) (string, error) {
	details := map[string]interface{}{"secret": name, "key": key}

	raw, ok := secret[key]
	if !ok {
		return "", apperrors.ErrSecretKeyMissing.WithDetails(details).
			Wrap(fmt.Errorf("key %q not found in secret %q", key, name))
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", apperrors.ErrSecretKeyMissing.WithDetails(details).
			Wrap(fmt.Errorf("key %q in secret %q is not a non-empty string", key, name))
	}
	return value, nil
}
