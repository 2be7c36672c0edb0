package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSecretsAPI struct {
	mock.Mock
}

func (m *mockSecretsAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(ctx, aws.ToString(params.SecretId))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsmanager.GetSecretValueOutput), args.Error(1)
}

func TestAWSStore_GetSecret(t *testing.T) {
	logger := zap.NewNop()

	t.Run("decodes secret string", func(t *testing.T) {
		api := new(mockSecretsAPI)
		api.On("GetSecretValue", mock.Anything, "masters-project").
			Return(&secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"mapbox_public":"tok_abc"}`)}, nil)

		store := newAWSStore(api, time.Second, logger)

		secret, err := store.GetSecret(context.Background(), "masters-project")
		require.NoError(t, err)
		assert.Equal(t, "tok_abc", secret["mapbox_public"])
		api.AssertExpectations(t)
	})

	t.Run("resource not found", func(t *testing.T) {
		api := new(mockSecretsAPI)
		api.On("GetSecretValue", mock.Anything, "missing").
			Return(nil, &types.ResourceNotFoundException{Message: aws.String("nope")})

		store := newAWSStore(api, time.Second, logger)

		_, err := store.GetSecret(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrSecretStore))
		assert.Contains(t, err.Error(), `secret "missing" not found`)
	})

	t.Run("binary secret", func(t *testing.T) {
		api := new(mockSecretsAPI)
		api.On("GetSecretValue", mock.Anything, "binary").
			Return(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1, 2}}, nil)

		store := newAWSStore(api, time.Second, logger)

		_, err := store.GetSecret(context.Background(), "binary")
		assert.ErrorContains(t, err, "SecretString not found")
	})
}

func TestStaticStore_GetSecret(t *testing.T) {
	ctx := context.Background()

	t.Run("configured name", func(t *testing.T) {
		store := NewStaticStore("masters-project", `{"mapbox_public":"tok_abc"}`)
		secret, err := store.GetSecret(ctx, "masters-project")
		require.NoError(t, err)
		assert.Equal(t, "tok_abc", secret["mapbox_public"])
	})

	t.Run("unknown secret name", func(t *testing.T) {
		store := NewStaticStore("masters-project", `{"mapbox_public":"tok"}`)
		_, err := store.GetSecret(ctx, "other")
		assert.True(t, errors.Is(err, apperrors.ErrSecretStore))
	})

	t.Run("empty value", func(t *testing.T) {
		store := NewStaticStore("masters-project", "")
		_, err := store.GetSecret(ctx, "masters-project")
		assert.True(t, errors.Is(err, apperrors.ErrSecretStore))
	})

	t.Run("invalid json", func(t *testing.T) {
		store := NewStaticStore("masters-project", `mapbox_public=tok`)
		_, err := store.GetSecret(ctx, "masters-project")
		assert.True(t, errors.Is(err, apperrors.ErrSecretStore))
	})
}
