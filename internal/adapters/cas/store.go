// Package cas implements the content addressed artifact store.
package cas

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*Store)(nil)

// Store implements ports.ArtifactStore on the local file system.
//
// Artifacts are written to a temporary file in the target directory and
// renamed into place, so a reader sees either no file or the whole file.
// Configured precompressed siblings are written the same way after the
// artifact itself.
type Store struct {
	compressions []domain.Compression
	zstd         *zstd.Encoder
}

// NewStore creates a Store that additionally writes the given siblings.
func NewStore(compressions ...domain.Compression) (*Store, error) {
	s := &Store{}
	for _, c := range compressions {
		switch c {
		case domain.CompressionGzip:
		case domain.CompressionZstd:
			if s.zstd == nil {
				enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
				if err != nil {
					return nil, zerr.Wrap(err, "failed to initialize zstd encoder")
				}
				s.zstd = enc
			}
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownCompression, "configure store"), "compression", string(c))
		}
		s.compressions = append(s.compressions, c)
	}
	return s, nil
}

// Exists reports whether a regular file is present at path. A parent that
// is not a directory means there is no artifact either.
func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
	}
	return info.Mode().IsRegular(), nil
}

// Read returns the bytes of the artifact at path.
func (s *Store) Read(_ context.Context, path string) ([]byte, error) {
	//nolint:gosec // Path is derived from the configured output directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrArtifactRead, err), "path", path)
	}
	return data, nil
}

// Write stores data at path and then each configured sibling.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrArtifactWrite, err), "path", path)
	}

	if err := writeAtomic(path, data); err != nil {
		return zerr.With(errors.Join(domain.ErrArtifactWrite, err), "path", path)
	}

	for _, c := range s.compressions {
		compressed, err := s.compress(c, data)
		if err != nil {
			return zerr.With(errors.Join(domain.ErrArtifactWrite, err), "compression", string(c))
		}
		sibling := path + c.Ext()
		if err := writeAtomic(sibling, compressed); err != nil {
			return zerr.With(errors.Join(domain.ErrArtifactWrite, err), "path", sibling)
		}
	}

	return nil
}

func (s *Store) compress(c domain.Compression, data []byte) ([]byte, error) {
	switch c {
	case domain.CompressionZstd:
		return s.zstd.EncodeAll(data, make([]byte, 0, len(data))), nil
	case domain.CompressionGzip:
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to initialize gzip writer")
		}
		if _, err := zw.Write(data); err != nil {
			return nil, zerr.Wrap(err, "failed to gzip artifact")
		}
		if err := zw.Close(); err != nil {
			return nil, zerr.Wrap(err, "failed to flush gzip artifact")
		}
		return buf.Bytes(), nil
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrUnknownCompression, "compress artifact"), "compression", string(c))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp artifact")
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write temp artifact")
	}

	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp artifact")
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to chmod temp artifact")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to rename temp artifact")
	}

	return nil
}
