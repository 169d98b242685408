// Package scheduler packs several bundles concurrently.
package scheduler

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/packer/internal/engine/packer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Builder packs one bundle. *packer.Packer implements it.
type Builder interface {
	Build(ctx context.Context) (packer.Result, error)
}

// Job is a bundle waiting to be packed.
type Job struct {
	Name    string
	Kind    domain.Kind
	Builder Builder
}

// Result is the outcome of one job.
type Result struct {
	Name   string
	Kind   domain.Kind
	Status domain.BundleStatus
	// Artifact is set unless the job failed.
	Artifact packer.Result
	Err      error
}

// Scheduler runs pack jobs with bounded parallelism. A failing job does not
// stop the others.
type Scheduler struct {
	telemetry ports.Telemetry

	mu     sync.RWMutex
	status map[string]domain.BundleStatus
}

// NewScheduler creates a new Scheduler reporting progress to telemetry.
func NewScheduler(telemetry ports.Telemetry) *Scheduler {
	return &Scheduler{
		telemetry: telemetry,
		status:    make(map[string]domain.BundleStatus),
	}
}

func (s *Scheduler) initStatuses(jobs []Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.status)
	for _, job := range jobs {
		s.status[job.Name] = domain.BundleStatusPending
	}
}

func (s *Scheduler) updateStatus(name string, status domain.BundleStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

// Run packs all jobs, at most parallelism at a time. A parallelism below one
// uses the number of CPUs. Results keep the order of jobs. The returned error
// joins the errors of all failed jobs.
func (s *Scheduler) Run(ctx context.Context, jobs []Job, parallelism int) ([]Result, error) {
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	s.initStatuses(jobs)
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(parallelism)

	for i, job := range jobs {
		g.Go(func() error {
			results[i] = s.execute(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	if len(errs) > 0 {
		return results, zerr.With(errors.Join(domain.ErrPackFailed, errors.Join(errs...)), "failed", len(errs))
	}
	return results, nil
}

func (s *Scheduler) execute(ctx context.Context, job Job) Result {
	if err := ctx.Err(); err != nil {
		return s.fail(job, err)
	}

	s.updateStatus(job.Name, domain.BundleStatusRunning)

	ctx, vertex := s.telemetry.Record(ctx, job.Name, ports.WithGroup(string(job.Kind)))

	artifact, err := job.Builder.Build(ctx)
	if err != nil {
		vertex.Complete(err)
		return s.fail(job, err)
	}

	status := domain.BundleStatusPacked
	if artifact.Cached {
		status = domain.BundleStatusCached
		vertex.Cached()
	}
	vertex.Complete(nil)
	s.updateStatus(job.Name, status)

	return Result{Name: job.Name, Kind: job.Kind, Status: status, Artifact: artifact}
}

func (s *Scheduler) fail(job Job, err error) Result {
	s.updateStatus(job.Name, domain.BundleStatusFailed)
	return Result{
		Name:   job.Name,
		Kind:   job.Kind,
		Status: domain.BundleStatusFailed,
		Err:    zerr.With(zerr.Wrap(err, "failed to pack bundle"), "bundle", job.Name),
	}
}
