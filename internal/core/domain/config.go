package domain

import (
	"maps"
	"path/filepath"
	"slices"
)

// Config is the complete configuration of a single packer.
//
// Config is a value. Every With/Add/Pop method returns a modified copy and
// leaves the receiver untouched.
type Config struct {
	inputPaths  []string
	outputPath  string
	debug       bool
	name        NameTemplate
	presets     map[string]string
	atomicBatch bool
}

// NewConfig returns a Config with the given file name template and no paths.
func NewConfig(name NameTemplate) Config {
	return Config{name: name}
}

// InputPaths returns a copy of the ordered input roots.
func (c Config) InputPaths() []string {
	return slices.Clone(c.inputPaths)
}

// OutputPath returns the directory artifacts are written to.
func (c Config) OutputPath() string {
	return c.outputPath
}

// Debug reports whether transforms run in pass-through mode.
func (c Config) Debug() bool {
	return c.debug
}

// Name returns the file name template.
func (c Config) Name() NameTemplate {
	return c.name
}

// Presets returns a copy of the preprocessor variables.
func (c Config) Presets() map[string]string {
	return maps.Clone(c.presets)
}

// AtomicBatch reports whether a failing batch add rolls back the whole batch.
func (c Config) AtomicBatch() bool {
	return c.atomicBatch
}

// WithInputPaths replaces the input roots.
func (c Config) WithInputPaths(paths ...string) Config {
	c.inputPaths = cleanAll(paths)
	return c
}

// AddInputPath appends an input root.
func (c Config) AddInputPath(path string) Config {
	c.inputPaths = append(slices.Clone(c.inputPaths), filepath.Clean(path))
	return c
}

// PrependInputPath inserts an input root before all others.
func (c Config) PrependInputPath(path string) Config {
	c.inputPaths = append([]string{filepath.Clean(path)}, c.inputPaths...)
	return c
}

// PopInputPath removes the last input root. It is a no-op on an empty list.
func (c Config) PopInputPath() Config {
	if len(c.inputPaths) == 0 {
		return c
	}
	c.inputPaths = slices.Clone(c.inputPaths[:len(c.inputPaths)-1])
	return c
}

// ShiftInputPath removes the first input root. It is a no-op on an empty list.
func (c Config) ShiftInputPath() Config {
	if len(c.inputPaths) == 0 {
		return c
	}
	c.inputPaths = slices.Clone(c.inputPaths[1:])
	return c
}

// WithOutputPath sets the artifact directory.
func (c Config) WithOutputPath(path string) Config {
	c.outputPath = filepath.Clean(path)
	return c
}

// WithDebug toggles pass-through mode.
func (c Config) WithDebug(debug bool) Config {
	c.debug = debug
	return c
}

// WithName replaces the file name template.
func (c Config) WithName(name NameTemplate) Config {
	c.name = name
	return c
}

// WithPresets replaces the preprocessor variables.
func (c Config) WithPresets(presets map[string]string) Config {
	c.presets = maps.Clone(presets)
	return c
}

// WithAtomicBatch toggles rollback of failed batch adds.
func (c Config) WithAtomicBatch(atomic bool) Config {
	c.atomicBatch = atomic
	return c
}

func cleanAll(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Clean(p)
	}
	return out
}
