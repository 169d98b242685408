// Package packer implements the content addressed build cache for one bundle.
package packer

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// flights collapses concurrent builds of the same artifact within the process.
var flights singleflight.Group

// Deps are the collaborators a Packer needs.
type Deps struct {
	Resolver      ports.PathResolver
	Stater        ports.Stater
	Fingerprinter ports.Fingerprinter
	Store         ports.ArtifactStore
	Transformer   ports.Transformer
}

// Result describes the outcome of a pack.
type Result struct {
	// FileName is the bare artifact name inside the output directory.
	FileName string
	// Path is the full artifact path.
	Path string
	// Cached is true when the artifact already existed and nothing was transformed.
	Cached bool
}

// Packer collects assets of one kind and packs them into a single artifact
// whose name is derived from everything that affects its content.
//
// A Packer is not safe for concurrent use. Separate packers may run in
// parallel, including packers that resolve to the same artifact.
type Packer struct {
	kind domain.Kind
	cfg  domain.Config
	reg  domain.Registry
	deps Deps
}

// DefaultConfig returns an empty configuration with the default template of kind.
func DefaultConfig(kind domain.Kind) domain.Config {
	return domain.NewConfig(kind.DefaultTemplate())
}

// New creates a Packer for kind with the given configuration.
func New(kind domain.Kind, cfg domain.Config, deps Deps) *Packer {
	return &Packer{kind: kind, cfg: cfg, deps: deps}
}

// Kind returns the asset kind.
func (p *Packer) Kind() domain.Kind {
	return p.kind
}

// Config returns the current configuration.
func (p *Packer) Config() domain.Config {
	return p.cfg
}

// InputPaths returns the ordered input roots.
func (p *Packer) InputPaths() []string {
	return p.cfg.InputPaths()
}

// OutputPath returns the artifact directory.
func (p *Packer) OutputPath() string {
	return p.cfg.OutputPath()
}

// Debug reports whether packing runs in pass-through mode.
func (p *Packer) Debug() bool {
	return p.cfg.Debug()
}

// LastModified returns the newest modification time of all registered assets.
func (p *Packer) LastModified() time.Time {
	return p.reg.LastModified()
}

// SetInputPath replaces the input roots.
func (p *Packer) SetInputPath(paths ...string) {
	p.cfg = p.cfg.WithInputPaths(paths...)
}

// AddInputPath appends an input root.
func (p *Packer) AddInputPath(path string) {
	p.cfg = p.cfg.AddInputPath(path)
}

// PrependInputPath inserts an input root in front of all others.
func (p *Packer) PrependInputPath(path string) {
	p.cfg = p.cfg.PrependInputPath(path)
}

// PopInputPath removes the last input root.
func (p *Packer) PopInputPath() {
	p.cfg = p.cfg.PopInputPath()
}

// ShiftInputPath removes the first input root.
func (p *Packer) ShiftInputPath() {
	p.cfg = p.cfg.ShiftInputPath()
}

// SetOutputPath sets the artifact directory.
func (p *Packer) SetOutputPath(path string) {
	p.cfg = p.cfg.WithOutputPath(path)
}

// SetFilename sets the file name template. A template containing the
// placeholder is content addressed, any other value is a fixed name.
func (p *Packer) SetFilename(template string) error {
	name, err := domain.ParseNameTemplate(template)
	if err != nil {
		return err
	}
	p.cfg = p.cfg.WithName(name)
	return nil
}

// SetDebug toggles pass-through mode.
func (p *Packer) SetDebug(debug bool) {
	p.cfg = p.cfg.WithDebug(debug)
}

// Add registers assets in order, duplicates included.
//
// Assets are resolved against the input roots and stat'ed one by one. On
// failure the assets before the failing one stay registered, unless the
// configuration asks for atomic batches.
func (p *Packer) Add(names ...string) error {
	return p.add(names, domain.PolicyAdd)
}

// AddOnce is like Add but skips assets whose resolved path is already registered.
func (p *Packer) AddOnce(names ...string) error {
	return p.add(names, domain.PolicyAddOnce)
}

func (p *Packer) add(names []string, policy domain.AddPolicy) error {
	snap := p.reg.Snapshot()
	roots := p.cfg.InputPaths()

	for _, name := range names {
		path, err := p.deps.Resolver.Resolve(name, roots)
		if err != nil {
			p.rollback(snap)
			return err
		}

		mtime, err := p.deps.Stater.ModTime(path)
		if err != nil {
			p.rollback(snap)
			return err
		}

		p.reg.Add(domain.Asset{Path: path, ModTime: mtime}, policy)
	}

	return nil
}

func (p *Packer) rollback(snap domain.RegistrySnapshot) {
	if p.cfg.AtomicBatch() {
		p.reg.Restore(snap)
	}
}

// Assets returns the registered asset paths in order.
func (p *Packer) Assets() []string {
	return p.reg.Paths()
}

// FileName returns the artifact name for the current state.
func (p *Packer) FileName() (string, error) {
	name := p.cfg.Name()
	if !name.IsContentAddressed() {
		return name.Resolve(""), nil
	}

	fp, err := p.deps.Fingerprinter.Fingerprint(p.Manifest())
	if err != nil {
		return "", zerr.Wrap(err, "failed to fingerprint bundle")
	}
	return name.Resolve(fp), nil
}

// Manifest returns the fingerprint input for the current state.
func (p *Packer) Manifest() domain.Manifest {
	return domain.NewManifest(p.kind, p.cfg, &p.reg)
}

// Dump returns the packed output. An existing artifact is read back as is,
// otherwise the assets are transformed without writing anything.
func (p *Packer) Dump(ctx context.Context) ([]byte, error) {
	path, _, err := p.artifactPath()
	if err != nil {
		return nil, err
	}

	// Output problems are left to Pack.
	if exists, err := p.deps.Store.Exists(ctx, path); err == nil && exists {
		return p.deps.Store.Read(ctx, path)
	}

	return p.transform(ctx)
}

// Pack writes the artifact unless it already exists and returns its bare file name.
func (p *Packer) Pack(ctx context.Context) (string, error) {
	res, err := p.Build(ctx)
	if err != nil {
		return "", err
	}
	return res.FileName, nil
}

// Build is Pack with details about what happened.
func (p *Packer) Build(ctx context.Context) (Result, error) {
	path, fileName, err := p.artifactPath()
	if err != nil {
		return Result{}, err
	}
	res := Result{FileName: fileName, Path: path}

	exists, err := p.deps.Store.Exists(ctx, path)
	if err != nil {
		return Result{}, errors.Join(domain.ErrArtifactWrite, err)
	}
	if exists {
		res.Cached = true
		return res, nil
	}

	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	v, err, _ := flights.Do(key, func() (any, error) {
		// Another flight may have finished writing while this one waited.
		exists, err := p.deps.Store.Exists(ctx, path)
		if err != nil {
			return false, errors.Join(domain.ErrArtifactWrite, err)
		}
		if exists {
			return true, nil
		}

		data, err := p.transform(ctx)
		if err != nil {
			return false, err
		}

		if err := p.deps.Store.Write(ctx, path, data); err != nil {
			return false, err
		}
		return false, nil
	})
	if err != nil {
		return Result{}, err
	}

	res.Cached, _ = v.(bool)
	return res, nil
}

func (p *Packer) artifactPath() (path, fileName string, err error) {
	fileName, err = p.FileName()
	if err != nil {
		return "", "", err
	}
	return filepath.Join(p.cfg.OutputPath(), fileName), fileName, nil
}

func (p *Packer) transform(ctx context.Context) ([]byte, error) {
	data, err := p.deps.Transformer.Transform(ctx, domain.TransformRequest{
		Kind:    p.kind,
		Assets:  p.reg.Assets(),
		Debug:   p.cfg.Debug(),
		Flags:   p.reg.Flags(),
		Presets: p.cfg.Presets(),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.Join(domain.ErrTransformFailed, err)
	}
	return data, nil
}
