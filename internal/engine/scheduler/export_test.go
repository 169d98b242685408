package scheduler

import "go.trai.ch/packer/internal/core/domain"

// Status returns the current status of the named job.
func (s *Scheduler) Status(name string) domain.BundleStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[name]
}
