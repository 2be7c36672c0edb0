package repository

import (
	"context"
	"io"
)

// ObjectStorage - S3-совместимое хранилище для публикации датасета
type ObjectStorage interface {
	// EnsureBucket создаёт бакет, если его ещё нет
	EnsureBucket(ctx context.Context) error

	// PutObject загружает объект под ключом key
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}
