package domain

import "context"

// FileStorage is the port for the etiquetas bucket. Paths are relative to the
// bucket root.
type FileStorage interface {
	Save(ctx context.Context, path string, data []byte) (string, error)
	Open(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}
