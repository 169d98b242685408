package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.PathResolver = (*Resolver)(nil)
	_ ports.Stater       = (*Resolver)(nil)
)

// Resolver locates assets below an ordered list of input roots.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the location of name.
//
// Absolute names, POSIX or Windows style, are returned unchanged without
// touching the disk. Relative names are joined with each root in order and
// the first one that exists is returned.
func (r *Resolver) Resolve(name string, roots []string) (string, error) {
	if IsAbs(name) {
		return name, nil
	}

	for _, root := range roots {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	err := zerr.With(zerr.Wrap(domain.ErrAssetNotFound, "resolve asset"), "asset", name)
	return "", zerr.With(err, "roots", roots)
}

// ModTime returns the modification time of the file at path.
// Directories are rejected because they cannot be packed.
func (r *Resolver) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, zerr.With(errors.Join(domain.ErrAssetStat, err), "path", path)
	}
	if info.IsDir() {
		return time.Time{}, zerr.With(errors.Join(domain.ErrAssetStat, iofs.ErrInvalid), "path", path)
	}
	return info.ModTime(), nil
}

// IsAbs reports whether name is absolute on either POSIX or Windows.
// A leading slash or a drive letter followed by a separator qualifies.
func IsAbs(name string) bool {
	if name == "" {
		return false
	}
	if name[0] == '/' {
		return true
	}
	if len(name) >= 3 && isDriveLetter(name[0]) && name[1] == ':' && (name[2] == '\\' || name[2] == '/') {
		return true
	}
	return filepath.IsAbs(name)
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
