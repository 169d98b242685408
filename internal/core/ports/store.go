package ports

import "context"

// ArtifactStore defines the interface for persisting packed artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Exists reports whether an artifact is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Read returns the bytes of the artifact at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write stores data at path so that readers never observe a partial file.
	// Missing parent directories are created.
	Write(ctx context.Context, path string, data []byte) error
}
