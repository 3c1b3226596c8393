// package engine ties the runtime together: an asset library, a player
// scheduler and a fixed-rate tick loop driving them. Embedding hosts that
// run their own loop can skip this package and call the scheduler
// directly.
package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/rig-go/engine/assets"
	"github.com/Carmen-Shannon/rig-go/engine/player"
	"github.com/Carmen-Shannon/rig-go/engine/profiler"
)

// engine implements the Engine interface.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	library assets.Library
	sched   player.Scheduler

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	errorCallback  func(err error)
}

// Engine is the main entry point for the animation runtime. It owns the
// shared asset library, the player scheduler and the tick loop that
// advances every player at a fixed rate.
type Engine interface {
	// Library returns the shared asset library.
	//
	// Returns:
	//   - assets.Library: the library instance
	Library() assets.Library

	// Scheduler returns the player scheduler.
	//
	// Returns:
	//   - player.Scheduler: the scheduler instance
	Scheduler() player.Scheduler

	// LoadAssets loads every recognized asset file under a directory into
	// the library and validates the loaded graphs.
	//
	// Parameters:
	//   - root: the directory to walk
	//
	// Returns:
	//   - error: error if loading or validation fails
	LoadAssets(root string) error

	// SpawnPlayer creates a player for a loaded graph asset and registers
	// it with the scheduler.
	//
	// Parameters:
	//   - id: the player identifier
	//   - graphID: the root graph asset id
	//   - options: functional options forwarded to the player
	//
	// Returns:
	//   - player.Player: the new player
	//   - error: error if the graph asset is not loaded
	SpawnPlayer(id, graphID string, options ...player.PlayerBuilderOption) (player.Player, error)

	// RemovePlayer unregisters a player from the scheduler.
	//
	// Parameters:
	//   - id: the player identifier
	RemovePlayer(id string)

	// Player retrieves a registered player.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the player identifier
	//
	// Returns:
	//   - player.Player: the player or nil
	Player(id string) player.Player

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second.
	// Players are advanced at this rate.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetTickCallback registers a function called after each tick, once
	// every player has been advanced. Use it to read poses out.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetErrorCallback registers a function called with per-tick
	// evaluation errors. Without one, errors are logged.
	//
	// Parameters:
	//   - callback: function receiving the joined evaluation errors
	SetErrorCallback(callback func(err error))

	// Run starts the tick loop and blocks until Quit is called.
	Run()

	// Quit signals the tick loop to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// Ensure engine implements Engine interface.
var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// The library and scheduler are created internally unless supplied via
// options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.library == nil {
		e.library = assets.NewLibrary()
	}
	if e.sched == nil {
		e.sched = player.NewScheduler()
	}

	return e
}

func (e *engine) Library() assets.Library {
	return e.library
}

func (e *engine) Scheduler() player.Scheduler {
	return e.sched
}

func (e *engine) LoadAssets(root string) error {
	return e.library.LoadDir(root)
}

func (e *engine) SpawnPlayer(id, graphID string, options ...player.PlayerBuilderOption) (player.Player, error) {
	g, ok := e.library.GraphByID(graphID)
	if !ok {
		return nil, fmt.Errorf("spawn player %q: graph %q not loaded", id, graphID)
	}
	p := player.NewPlayer(id, g, e.library, options...)
	e.sched.Add(p)
	return p, nil
}

func (e *engine) RemovePlayer(id string) {
	e.sched.Remove(id)
}

func (e *engine) Player(id string) player.Player {
	return e.sched.Get(id)
}

func (e *engine) Run() {
	e.running = true
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()
	e.wg.Wait()
}

// Quit signals the tick loop to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Advances every player each tick and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	// Recover from panics inside the tick goroutine to avoid crashing the
	// whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if err := e.sched.Update(dt); err != nil {
				if e.errorCallback != nil {
					e.errorCallback(err)
				} else {
					log.Printf("tick: %v", err)
				}
			}

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick(e.sched.Count())
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 60
	}
	newRate := time.Second / time.Duration(tps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called after each tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetErrorCallback registers the function called with per-tick errors.
func (e *engine) SetErrorCallback(callback func(err error)) {
	e.errorCallback = callback
}
