package engine

import (
	"time"

	"github.com/Carmen-Shannon/rig-go/engine/assets"
	"github.com/Carmen-Shannon/rig-go/engine/player"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - tps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(tps float64) EngineBuilderOption {
	return func(e *engine) {
		if tps <= 0 {
			tps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(tps)
	}
}

// WithLibrary sets a pre-populated asset library for the engine to use
// rather than allowing the engine to create an empty one internally.
//
// Parameters:
//   - l: a pre-configured Library instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLibrary(l assets.Library) EngineBuilderOption {
	return func(e *engine) {
		e.library = l
	}
}

// WithScheduler sets a custom configured scheduler for the engine to use
// rather than allowing the engine to create and manage one internally.
//
// Parameters:
//   - s: a pre-configured Scheduler instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScheduler(s player.Scheduler) EngineBuilderOption {
	return func(e *engine) {
		e.sched = s
	}
}
