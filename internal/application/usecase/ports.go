package usecase

import (
	"context"
	"io"
)

// ImageStorage almacenamiento de objetos para imágenes de producto.
type ImageStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// URL devuelve una URL de lectura (firmada si el bucket es privado).
	URL(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}
