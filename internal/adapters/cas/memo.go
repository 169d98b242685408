package cas

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*MemoStore)(nil)

// MemoStore keeps recently read or written artifacts in memory.
//
// Artifacts are never rewritten under the same name, so memoized bytes stay
// valid as long as the file exists. Existence is always asked of the
// underlying store since artifacts may be removed from outside.
type MemoStore struct {
	next  ports.ArtifactStore
	cache *lru.Cache[string, []byte]
}

// NewMemoStore decorates next with an LRU of the given size.
func NewMemoStore(next ports.ArtifactStore, size int) (*MemoStore, error) {
	if size <= 0 {
		size = domain.DefaultMemoSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create artifact memo")
	}
	return &MemoStore{next: next, cache: cache}, nil
}

// Exists asks the underlying store and forgets artifacts that are gone.
func (m *MemoStore) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := m.next.Exists(ctx, path)
	if err != nil {
		return false, err
	}
	if !ok {
		m.cache.Remove(path)
	}
	return ok, nil
}

// Read answers from memory when possible and remembers what it reads.
func (m *MemoStore) Read(ctx context.Context, path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}
	data, err := m.next.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	m.cache.Add(path, data)
	return data, nil
}

// Write persists through to the underlying store and remembers the result.
func (m *MemoStore) Write(ctx context.Context, path string, data []byte) error {
	if err := m.next.Write(ctx, path, data); err != nil {
		return err
	}
	m.cache.Add(path, data)
	return nil
}
