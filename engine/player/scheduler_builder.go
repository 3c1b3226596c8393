package player

import (
	"github.com/Carmen-Shannon/rig-go/engine/profiler"
)

// SchedulerBuilderOption is a functional option for configuring a
// Scheduler during construction.
type SchedulerBuilderOption func(*scheduler)

// WithWorkers is an option builder that sets the worker pool size used
// for parallel player updates.
//
// Parameters:
//   - workers: the number of workers, clamped to at least 1
//
// Returns:
//   - SchedulerBuilderOption: a function that applies the worker count
func WithWorkers(workers int) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.workers = max(workers, 1)
	}
}

// WithProfiler is an option builder that attaches a profiler ticked once
// per scheduler update.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - SchedulerBuilderOption: a function that attaches the profiler
func WithProfiler(p *profiler.Profiler) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.prof = p
	}
}
