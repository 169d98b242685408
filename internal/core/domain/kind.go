package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Kind identifies the type of assets a packer bundles.
type Kind string

const (
	// KindCSS bundles stylesheets, optionally compiled from LESS or SCSS.
	KindCSS Kind = "css"
	// KindJS bundles scripts.
	KindJS Kind = "js"
)

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCSS:
		return KindCSS, nil
	case KindJS:
		return KindJS, nil
	}
	return "", zerr.With(zerr.Wrap(ErrUnknownKind, "parse kind"), "kind", s)
}

// KindFromName guesses the kind from a file name or template extension.
// It reports false when the extension is not recognized.
func KindFromName(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".css", ".less", ".scss", ".sass":
		return KindCSS, true
	case ".js", ".mjs":
		return KindJS, true
	}
	return "", false
}

// DefaultTemplate returns the name template used when a bundle does not set one.
func (k Kind) DefaultTemplate() NameTemplate {
	switch k {
	case KindCSS:
		return mustContentAddressed("_*.css")
	case KindJS:
		return mustContentAddressed("_*.js")
	}
	return mustContentAddressed(DefaultNameTemplate)
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// KindFlags records which preprocessors the registered assets need.
type KindFlags struct {
	LESS bool `cbor:"less"`
	SCSS bool `cbor:"scss"`
}

// Observe returns the flags updated for an asset at path.
func (f KindFlags) Observe(path string) KindFlags {
	switch SourceOf(path) {
	case SourceLESS:
		f.LESS = true
	case SourceSCSS:
		f.SCSS = true
	case SourcePlain:
	}
	return f
}

// Source is the dialect of a single asset file.
type Source uint8

const (
	// SourcePlain is CSS or JS that needs no compilation.
	SourcePlain Source = iota
	// SourceLESS is a LESS stylesheet.
	SourceLESS
	// SourceSCSS is a Sass stylesheet in SCSS or indented syntax.
	SourceSCSS
)

// SourceOf returns the dialect of the asset at path, judged by its extension.
func SourceOf(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".less":
		return SourceLESS
	case ".scss", ".sass":
		return SourceSCSS
	}
	return SourcePlain
}

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case SourceLESS:
		return "less"
	case SourceSCSS:
		return "scss"
	case SourcePlain:
	}
	return "plain"
}
