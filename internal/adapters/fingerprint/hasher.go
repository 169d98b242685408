// Package fingerprint derives content addresses from packer manifests.
package fingerprint

import (
	"encoding/hex"
	"hash"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Hasher)(nil)

// Hasher computes fingerprints as a truncated hex digest of the canonical
// CBOR encoding of a manifest.
type Hasher struct {
	enc    cbor.EncMode
	newFn  func() hash.Hash
	length int
}

// New creates a Hasher for the given options. A zero Algorithm selects
// xxhash and a zero Length selects the default length.
func New(opts domain.HashOptions) (*Hasher, error) {
	newFn, size, err := digestFor(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	length := opts.Length
	if length == 0 {
		length = domain.DefaultFingerprintLength
	}
	if length < 1 || length > 2*size {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidHashLength, "configure fingerprint"), "length", length)
		return nil, zerr.With(err, "max", 2*size)
	}

	encOpts := cbor.CoreDetEncOptions()
	encOpts.NilContainers = cbor.NilContainerAsEmpty
	enc, err := encOpts.EncMode()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build canonical encoder")
	}

	return &Hasher{enc: enc, newFn: newFn, length: length}, nil
}

// NewDefault creates a Hasher with xxhash and the default length.
func NewDefault() *Hasher {
	h, err := New(domain.HashOptions{})
	if err != nil {
		panic(err)
	}
	return h
}

// Fingerprint returns the fingerprint of manifest.
func (h *Hasher) Fingerprint(manifest domain.Manifest) (string, error) {
	data, err := h.enc.Marshal(manifest)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode manifest")
	}

	d := h.newFn()
	_, _ = d.Write(data)
	sum := hex.EncodeToString(d.Sum(nil))

	return sum[:h.length], nil
}

// Length returns the number of hex characters in a fingerprint.
func (h *Hasher) Length() int {
	return h.length
}

func digestFor(alg domain.HashAlgorithm) (func() hash.Hash, int, error) {
	switch alg {
	case "", domain.HashXXHash:
		return func() hash.Hash { return xxhash.New() }, 8, nil
	case domain.HashBlake3:
		return func() hash.Hash { return blake3.New() }, 32, nil
	}
	return nil, 0, zerr.With(zerr.Wrap(domain.ErrUnknownHashAlgorithm, "select digest"), "algorithm", string(alg))
}
