package repository

import "context"

// SecretRepository - хранилище секретов (AWS Secrets Manager или статический JSON)
type SecretRepository interface {
	// GetSecret возвращает JSON-объект секрета по имени
	GetSecret(ctx context.Context, name string) (map[string]interface{}, error)
}
