package secrets

import (
	"context"
	"fmt"

	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
)

type staticStore struct {
	name string
	raw  string
}

// NewStaticStore serves a single secret from a JSON string, typically SECRET_VALUE.
// Used for local runs without AWS credentials.
func NewStaticStore(name, raw string) repository.SecretRepository {
	return &staticStore{name: name, raw: raw}
}

func (s *staticStore) GetSecret(_ context.Context, name string) (map[string]interface{}, error) {
	if name != s.name {
		return nil, apperrors.ErrSecretStore.Wrap(fmt.Errorf("secret %q not found", name))
	}
	if s.raw == "" {
		return nil, apperrors.ErrSecretStore.Wrap(fmt.Errorf("secret %q is empty", name))
	}
	return decodeSecret(name, s.raw)
}
