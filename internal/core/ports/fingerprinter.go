package ports

import "go.trai.ch/packer/internal/core/domain"

// Fingerprinter defines the interface for deriving content addresses.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint returns a short hex digest of the manifest. Equal manifests
	// always produce equal fingerprints.
	Fingerprint(manifest domain.Manifest) (string, error)
}
