// Package config provides the project file loader for packer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// supportedVersion is the only project file version understood by the loader.
const supportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the project file at path. Relative paths inside the file are
// resolved against the directory containing it.
func (l *Loader) Load(path string) (*domain.Project, error) {
	var file Packerfile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, err
	}

	if file.Version != "" && file.Version != supportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, reading it as version %s",
			filepath.Base(path), file.Version, supportedVersion))
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigRead, err), "path", path)
	}

	project := &domain.Project{Root: root}

	if project.Hash, err = parseHash(file.Hash); err != nil {
		return nil, err
	}
	if project.Precompress, err = parsePrecompress(file.Precompress); err != nil {
		return nil, err
	}
	if project.Compilers, err = parseCompilers(file.Compilers); err != nil {
		return nil, err
	}

	project.Bundles = make([]domain.Bundle, 0, len(file.Bundles))
	for _, dto := range file.Bundles {
		bundle, err := buildBundle(root, &file, dto)
		if err != nil {
			return nil, zerr.With(err, "bundle", dto.Name)
		}
		project.Bundles = append(project.Bundles, bundle)
	}

	return project, nil
}

func buildBundle(root string, file *Packerfile, dto BundleDTO) (domain.Bundle, error) {
	kind, err := bundleKind(dto)
	if err != nil {
		return domain.Bundle{}, err
	}

	name := kind.DefaultTemplate()
	if dto.FileName != "" {
		if name, err = domain.ParseNameTemplate(dto.FileName); err != nil {
			return domain.Bundle{}, errors.Join(domain.ErrInvalidBundle, err)
		}
	}

	inputs := []string(file.InputPath)
	if len(dto.InputPath) > 0 {
		inputs = dto.InputPath
	}

	output := file.OutputPath
	if dto.OutputPath != "" {
		output = dto.OutputPath
	}
	if output == "" {
		return domain.Bundle{}, zerr.Wrap(domain.ErrInvalidBundle, "output_path is required")
	}

	debug := file.Debug
	if dto.Debug != nil {
		debug = *dto.Debug
	}

	cfg := domain.NewConfig(name).
		WithInputPaths(resolveAll(root, inputs)...).
		WithOutputPath(resolvePath(root, output)).
		WithDebug(debug).
		WithPresets(dto.Presets).
		WithAtomicBatch(dto.AtomicAdd)

	return domain.Bundle{
		Name:    dto.Name,
		Kind:    kind,
		Config:  cfg,
		Assets:  dto.Assets,
		AddOnce: dto.AddOnce,
	}, nil
}

// bundleKind takes the explicit kind or infers it from the file name or the
// bundle name.
func bundleKind(dto BundleDTO) (domain.Kind, error) {
	if dto.Kind != "" {
		kind, err := domain.ParseKind(dto.Kind)
		if err != nil {
			return "", errors.Join(domain.ErrInvalidBundle, err)
		}
		return kind, nil
	}

	for _, candidate := range []string{dto.FileName, dto.Name} {
		if kind, ok := domain.KindFromName(candidate); ok {
			return kind, nil
		}
	}

	return "", zerr.Wrap(domain.ErrInvalidBundle, "kind is missing and cannot be inferred")
}

func parseHash(dto HashDTO) (domain.HashOptions, error) {
	opts := domain.HashOptions{
		Algorithm: domain.HashXXHash,
		Length:    domain.DefaultFingerprintLength,
	}

	switch alg := domain.HashAlgorithm(strings.ToLower(dto.Algorithm)); alg {
	case "":
	case domain.HashXXHash, domain.HashBlake3:
		opts.Algorithm = alg
	default:
		return opts, zerr.With(zerr.Wrap(domain.ErrUnknownHashAlgorithm, "invalid hash options"), "algorithm", dto.Algorithm)
	}

	if dto.Length != 0 {
		opts.Length = dto.Length
	}
	return opts, nil
}

func parsePrecompress(names []string) ([]domain.Compression, error) {
	out := make([]domain.Compression, 0, len(names))
	for _, name := range names {
		c := domain.Compression(strings.ToLower(name))
		if c.Ext() == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownCompression, "invalid precompress list"), "compression", name)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseCompilers(dto map[string][]string) (map[domain.Source][]string, error) {
	if len(dto) == 0 {
		return nil, nil
	}

	out := make(map[domain.Source][]string, len(dto))
	for key, command := range dto {
		var source domain.Source
		switch strings.ToLower(key) {
		case "less":
			source = domain.SourceLESS
		case "scss", "sass":
			source = domain.SourceSCSS
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParse, "unknown compiler"), "compiler", key)
		}
		if len(command) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParse, "compiler command is empty"), "compiler", key)
		}
		out[source] = command
	}
	return out, nil
}

func resolveAll(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = resolvePath(root, p)
	}
	return out
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is provided by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigRead, err), "path", configPath)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigParse, err), "path", configPath)
	}

	return nil
}
