package domain

import (
	"path/filepath"
	"slices"
)

// HashAlgorithm names the digest used for fingerprints.
type HashAlgorithm string

const (
	// HashXXHash is xxhash64, the default.
	HashXXHash HashAlgorithm = "xxhash"
	// HashBlake3 is BLAKE3 with a 256 bit output.
	HashBlake3 HashAlgorithm = "blake3"
)

// Compression names a precompressed sibling format.
type Compression string

const (
	// CompressionGzip writes <artifact>.gz next to the artifact.
	CompressionGzip Compression = "gzip"
	// CompressionZstd writes <artifact>.zst next to the artifact.
	CompressionZstd Compression = "zstd"
)

// Ext returns the file extension of the compressed sibling.
func (c Compression) Ext() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	}
	return ""
}

// HashOptions configures fingerprinting.
type HashOptions struct {
	Algorithm HashAlgorithm
	Length    int
}

// Bundle is a named packer definition from the project file.
type Bundle struct {
	Name    string
	Kind    Kind
	Config  Config
	Assets  []string
	AddOnce bool
}

// Project is the parsed project file.
type Project struct {
	Root        string
	Hash        HashOptions
	Precompress []Compression
	Compilers   map[Source][]string
	Bundles     []Bundle
}

// Bundle returns the bundle called name.
func (p *Project) Bundle(name string) (Bundle, bool) {
	i := slices.IndexFunc(p.Bundles, func(b Bundle) bool { return b.Name == name })
	if i < 0 {
		return Bundle{}, false
	}
	return p.Bundles[i], true
}

// BundleNames returns the bundle names in declaration order.
func (p *Project) BundleNames() []string {
	out := make([]string, len(p.Bundles))
	for i, b := range p.Bundles {
		out[i] = b.Name
	}
	return out
}

// BinDir returns the directory of locally installed node tools. It is put
// in front of PATH when preprocessors are looked up.
func (p *Project) BinDir() string {
	return filepath.Join(p.Root, "node_modules", ".bin")
}
