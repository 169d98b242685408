package domain

import (
	"slices"
	"time"
)

// Asset is a resolved source file registered with a packer.
// Two assets are the same asset when their paths are equal.
type Asset struct {
	Path    string
	ModTime time.Time
}

// AddPolicy controls how Registry.Add treats paths that are already registered.
type AddPolicy uint8

const (
	// PolicyAdd appends unconditionally, duplicates included.
	PolicyAdd AddPolicy = iota
	// PolicyAddOnce skips paths that are already registered.
	PolicyAddOnce
)

// Registry is the ordered list of assets of a packer together with the
// newest modification time seen and the preprocessors they need.
type Registry struct {
	assets       []Asset
	seen         map[string]struct{}
	lastModified time.Time
	flags        KindFlags
}

// RegistrySnapshot captures a Registry so that a failed batch can be undone.
type RegistrySnapshot struct {
	n            int
	lastModified time.Time
	flags        KindFlags
}

// Add registers a under policy and reports whether it was appended.
func (r *Registry) Add(a Asset, policy AddPolicy) bool {
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	if _, ok := r.seen[a.Path]; ok && policy == PolicyAddOnce {
		return false
	}

	r.assets = append(r.assets, a)
	r.seen[a.Path] = struct{}{}
	if a.ModTime.After(r.lastModified) {
		r.lastModified = a.ModTime
	}
	r.flags = r.flags.Observe(a.Path)
	return true
}

// Assets returns a copy of the registered assets in insertion order.
func (r *Registry) Assets() []Asset {
	return slices.Clone(r.assets)
}

// Paths returns the registered paths in insertion order.
func (r *Registry) Paths() []string {
	out := make([]string, len(r.assets))
	for i, a := range r.assets {
		out[i] = a.Path
	}
	return out
}

// Len returns the number of registered assets, duplicates included.
func (r *Registry) Len() int {
	return len(r.assets)
}

// LastModified returns the newest modification time of all registered assets.
// It is the zero time when nothing was registered.
func (r *Registry) LastModified() time.Time {
	return r.lastModified
}

// Flags returns the preprocessors needed by the registered assets.
func (r *Registry) Flags() KindFlags {
	return r.flags
}

// Snapshot records the current state for a later Restore.
func (r *Registry) Snapshot() RegistrySnapshot {
	return RegistrySnapshot{n: len(r.assets), lastModified: r.lastModified, flags: r.flags}
}

// Restore drops every asset added after s was taken.
func (r *Registry) Restore(s RegistrySnapshot) {
	if s.n >= len(r.assets) {
		return
	}
	r.assets = r.assets[:s.n]
	r.lastModified = s.lastModified
	r.flags = s.flags

	r.seen = make(map[string]struct{}, len(r.assets))
	for _, a := range r.assets {
		r.seen[a.Path] = struct{}{}
	}
}
