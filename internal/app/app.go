// Package app implements the application layer for packer.
package app

import (
	"context"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/packer/internal/adapters/cas"
	"go.trai.ch/packer/internal/adapters/fingerprint"
	"go.trai.ch/packer/internal/adapters/shell"
	"go.trai.ch/packer/internal/adapters/transform"
	"go.trai.ch/packer/internal/adapters/watcher"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/packer/internal/engine/packer"
	"go.trai.ch/packer/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Options are the per-invocation settings shared by all commands.
type Options struct {
	// ConfigPath is the project file. Empty selects domain.ConfigFileName.
	ConfigPath string
	// Debug overrides the debug flag of every bundle when set.
	Debug *bool
	// Jobs bounds the number of bundles packed at once. Zero uses all CPUs.
	Jobs int
}

func (o Options) configPath() string {
	if o.ConfigPath == "" {
		return domain.ConfigFileName
	}
	return o.ConfigPath
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	resolver     ports.PathResolver
	stater       ports.Stater
	scheduler    *scheduler.Scheduler
	newWatcher   watcher.Factory
	window       time.Duration
	memoSize     int

	// stores outlive a single pack so watch mode reuses the artifact memo.
	mu     sync.Mutex
	stores map[string]ports.ArtifactStore
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	resolver ports.PathResolver,
	stater ports.Stater,
	sched *scheduler.Scheduler,
	newWatcher watcher.Factory,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		resolver:     resolver,
		stater:       stater,
		scheduler:    sched,
		newWatcher:   newWatcher,
		window:       watcher.DefaultDebounceWindow,
		memoSize:     domain.DefaultMemoSize,
		stores:       make(map[string]ports.ArtifactStore),
	}
}

// WithDebounceWindow sets how long watch mode waits for a burst of changes to settle.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.window = window
	return a
}

// Pack packs the named bundles, or every bundle when names is empty.
func (a *App) Pack(ctx context.Context, names []string, opts Options) ([]scheduler.Result, error) {
	project, bundles, err := a.selectBundles(opts, names)
	if err != nil {
		return nil, err
	}
	return a.pack(ctx, project, bundles, opts)
}

// Dump writes the packed output of the named bundle to w without writing an artifact.
func (a *App) Dump(ctx context.Context, name string, w io.Writer, opts Options) error {
	p, err := a.packerFor(opts, name)
	if err != nil {
		return err
	}

	data, err := p.Dump(ctx)
	if err != nil {
		return zerr.With(err, "bundle", name)
	}

	if _, err := w.Write(data); err != nil {
		return zerr.Wrap(err, "failed to write output")
	}
	return nil
}

// Name returns the artifact file name the named bundle currently packs to.
func (a *App) Name(ctx context.Context, name string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p, err := a.packerFor(opts, name)
	if err != nil {
		return "", err
	}

	fileName, err := p.FileName()
	if err != nil {
		return "", zerr.With(err, "bundle", name)
	}
	return fileName, nil
}

// Assets returns the resolved asset paths of the named bundle.
func (a *App) Assets(ctx context.Context, name string, opts Options) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := a.packerFor(opts, name)
	if err != nil {
		return nil, err
	}
	return p.Assets(), nil
}

// Watch packs the named bundles and packs them again whenever a file below
// their input roots changes, until ctx is done. Pack failures are logged and
// do not stop watching.
func (a *App) Watch(ctx context.Context, names []string, opts Options) error {
	project, bundles, err := a.selectBundles(opts, names)
	if err != nil {
		return err
	}

	if _, err := a.pack(ctx, project, bundles, opts); err != nil {
		a.logger.Error(err)
	}

	w, err := a.newWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	if err := w.Start(ctx, watchRoots(bundles)); err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		stopped bool
	)
	debouncer := watcher.NewDebouncer(a.window, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}

		affected := affectedBundles(bundles, paths)
		if len(affected) == 0 {
			return
		}
		if _, err := a.pack(ctx, project, affected, opts); err != nil {
			a.logger.Error(err)
		}
	})

	for event := range w.Events() {
		if isOutput(bundles, event.Path) {
			continue
		}
		debouncer.Add(event.Path)
	}

	debouncer.Stop()
	mu.Lock()
	stopped = true
	mu.Unlock()

	return nil
}

func (a *App) pack(
	ctx context.Context,
	project *domain.Project,
	bundles []domain.Bundle,
	opts Options,
) ([]scheduler.Result, error) {
	deps, err := a.deps(project)
	if err != nil {
		return nil, err
	}

	jobs := make([]scheduler.Job, 0, len(bundles))
	for _, bundle := range bundles {
		p, err := a.newPacker(bundle, deps, opts)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, scheduler.Job{Name: bundle.Name, Kind: bundle.Kind, Builder: p})
	}

	return a.scheduler.Run(ctx, jobs, opts.Jobs)
}

func (a *App) packerFor(opts Options, name string) (*packer.Packer, error) {
	project, bundles, err := a.selectBundles(opts, []string{name})
	if err != nil {
		return nil, err
	}

	deps, err := a.deps(project)
	if err != nil {
		return nil, err
	}
	return a.newPacker(bundles[0], deps, opts)
}

func (a *App) newPacker(bundle domain.Bundle, deps packer.Deps, opts Options) (*packer.Packer, error) {
	p := packer.New(bundle.Kind, bundle.Config, deps)
	if opts.Debug != nil {
		p.SetDebug(*opts.Debug)
	}

	add := p.Add
	if bundle.AddOnce {
		add = p.AddOnce
	}
	if err := add(bundle.Assets...); err != nil {
		return nil, zerr.With(err, "bundle", bundle.Name)
	}
	return p, nil
}

// selectBundles loads the project and picks the named bundles in the order
// given, or all of them in declaration order.
func (a *App) selectBundles(opts Options, names []string) (*domain.Project, []domain.Bundle, error) {
	project, err := a.configLoader.Load(opts.configPath())
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}

	if len(names) == 0 {
		if len(project.Bundles) == 0 {
			return nil, nil, zerr.With(zerr.Wrap(domain.ErrNoBundles, "nothing to pack"), "config", opts.configPath())
		}
		return project, project.Bundles, nil
	}

	bundles := make([]domain.Bundle, 0, len(names))
	for _, name := range names {
		bundle, ok := project.Bundle(name)
		if !ok {
			return nil, nil, zerr.With(zerr.Wrap(domain.ErrBundleNotFound, "unknown bundle"), "bundle", name)
		}
		bundles = append(bundles, bundle)
	}
	return project, bundles, nil
}

// deps builds the project dependent adapters. Stores are cached per
// precompression set so repeated packs share one memo.
func (a *App) deps(project *domain.Project) (packer.Deps, error) {
	hasher, err := fingerprint.New(project.Hash)
	if err != nil {
		return packer.Deps{}, err
	}

	store, err := a.store(project.Precompress)
	if err != nil {
		return packer.Deps{}, err
	}

	commands := shell.DefaultCommands()
	maps.Copy(commands, project.Compilers)
	compiler := shell.NewCompiler(a.logger, commands).
		WithRoot(project.Root).
		WithEnv("PATH=" + project.BinDir())

	return packer.Deps{
		Resolver:      a.resolver,
		Stater:        a.stater,
		Fingerprinter: hasher,
		Store:         store,
		Transformer:   transform.New(compiler),
	}, nil
}

func (a *App) store(precompress []domain.Compression) (ports.ArtifactStore, error) {
	names := make([]string, len(precompress))
	for i, c := range precompress {
		names[i] = string(c)
	}
	key := strings.Join(names, ",")

	a.mu.Lock()
	defer a.mu.Unlock()

	if store, ok := a.stores[key]; ok {
		return store, nil
	}

	disk, err := cas.NewStore(precompress...)
	if err != nil {
		return nil, err
	}
	store, err := cas.NewMemoStore(disk, a.memoSize)
	if err != nil {
		return nil, err
	}
	a.stores[key] = store
	return store, nil
}

// watchRoots returns the input roots of bundles plus the directories of
// absolute assets, without duplicates.
func watchRoots(bundles []domain.Bundle) []string {
	seen := make(map[string]struct{})
	for _, bundle := range bundles {
		for _, root := range bundle.Config.InputPaths() {
			seen[root] = struct{}{}
		}
		for _, asset := range bundle.Assets {
			if filepath.IsAbs(asset) {
				seen[filepath.Dir(asset)] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// affectedBundles returns the bundles that may read one of paths.
func affectedBundles(bundles []domain.Bundle, paths []string) []domain.Bundle {
	var out []domain.Bundle
	for _, bundle := range bundles {
		if slices.ContainsFunc(paths, func(path string) bool { return reads(bundle, path) }) {
			out = append(out, bundle)
		}
	}
	return out
}

func reads(bundle domain.Bundle, path string) bool {
	for _, root := range bundle.Config.InputPaths() {
		if within(root, path) {
			return true
		}
	}
	for _, asset := range bundle.Assets {
		if filepath.IsAbs(asset) && filepath.Clean(asset) == path {
			return true
		}
	}
	return false
}

// isOutput reports whether path lies in the output directory of a bundle.
// Artifacts written by a repack must not trigger another one.
func isOutput(bundles []domain.Bundle, path string) bool {
	return slices.ContainsFunc(bundles, func(b domain.Bundle) bool {
		return b.Config.OutputPath() != "" && within(b.Config.OutputPath(), path)
	})
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
