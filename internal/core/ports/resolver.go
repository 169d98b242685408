package ports

import "time"

// PathResolver defines the interface for locating assets on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type PathResolver interface {
	// Resolve returns the path of name. Absolute names are returned unchanged.
	// Relative names are tried against each root in order and the first
	// existing match wins.
	Resolve(name string, roots []string) (string, error)
}

// Stater defines the interface for reading file metadata.
type Stater interface {
	// ModTime returns the modification time of the regular file at path.
	ModTime(path string) (time.Time, error)
}
