// package player drives animation graphs at runtime: each player owns the
// mutable evaluation state for one character, advancing its root graph
// once per frame and exposing the resulting pose. A scheduler fans player
// updates out over a persistent worker pool.
package player

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
	"github.com/Carmen-Shannon/rig-go/engine/pose"
)

// PinUserEvents is the reserved graph input parameter carrying events
// queued on the player, typically wired into a state machine driver.
const PinUserEvents graph.PinID = "user events"

// PlaybackState is the player's transport state.
type PlaybackState uint8

const (
	// StatePlaying advances the graph by scaled frame deltas.
	StatePlaying PlaybackState = iota
	// StatePaused holds the current position; updates are zero-delta
	// ticks so parameter changes still re-evaluate.
	StatePaused
	// StateStopped holds at the start; the next Play begins from zero.
	StateStopped
)

// player is the implementation of the Player interface.
type player struct {
	mu *sync.Mutex

	id        string
	g         *graph.AnimationGraph
	resources graph.Resources
	arena     *graph.GraphContextArena
	overlay   *graph.InputOverlay

	state PlaybackState
	speed float32

	// pending accumulates seeks and deltas between frames, collapsed
	// into one update per tick.
	pending    graph.TimeUpdate
	hasPending bool

	// queued holds user events injected on the next tick.
	queued []events.SampledEvent

	outputs  map[graph.PinID]graph.DataValue
	lastPose pose.Pose
	hasPose  bool
	lastErr  error
}

// Player owns the runtime state of one animated character: the context
// arena its graph evaluates in, its transport state, runtime parameters,
// and the queue of user events feeding its state machines. Graph assets
// stay shared and read-only; everything mutable lives here. Thread-safe.
type Player interface {
	// ID returns the player's identifier.
	//
	// Returns:
	//   - string: the identifier
	ID() string

	// Graph returns the root graph the player evaluates.
	//
	// Returns:
	//   - *graph.AnimationGraph: the root graph
	Graph() *graph.AnimationGraph

	// State returns the transport state.
	//
	// Returns:
	//   - PlaybackState: the current state
	State() PlaybackState

	// Play starts or resumes playback.
	Play()

	// Pause holds the current position. The graph still re-evaluates
	// each tick so parameter changes take effect immediately.
	Pause()

	// Stop halts playback and rewinds to the start, discarding all
	// per-frame evaluation state. State machine positions reset too.
	Stop()

	// Seek jumps the root timeline to an absolute position on the next
	// tick.
	//
	// Parameters:
	//   - t: the target position in seconds
	Seek(t float32)

	// Speed returns the playback rate multiplier.
	//
	// Returns:
	//   - float32: the multiplier
	Speed() float32

	// SetSpeed sets the playback rate multiplier.
	//
	// Parameters:
	//   - speed: the multiplier, 1 for normal speed
	SetSpeed(speed float32)

	// SetParameter sets a runtime value for one of the graph's input
	// parameters, overriding its declared default until cleared.
	//
	// Parameters:
	//   - pin: the graph input parameter
	//   - v: the value
	SetParameter(pin graph.PinID, v graph.DataValue)

	// ClearParameter removes a runtime override, restoring the graph's
	// declared default.
	//
	// Parameters:
	//   - pin: the graph input parameter
	ClearParameter(pin graph.PinID)

	// QueueEvent queues a user event delivered through the reserved
	// "user events" input parameter on the next tick.
	//
	// Parameters:
	//   - ev: the event
	QueueEvent(ev events.AnimationEvent)

	// Step advances playback by a single frame and leaves the player
	// paused, so a scene can be scrubbed tick by tick. A stopped player
	// steps onto its first frame.
	//
	// Parameters:
	//   - dt: the frame length in seconds
	//
	// Returns:
	//   - error: the evaluation error, if any
	Step(dt float32) error

	// Update advances the player by one frame. On evaluation failure the
	// previous pose is kept, so a broken graph degrades to a freeze
	// instead of a T-pose.
	//
	// Parameters:
	//   - dt: elapsed time since the last frame in seconds
	//
	// Returns:
	//   - error: the evaluation error, if any
	Update(dt float32) error

	// Pose returns the pose produced by the last successful tick.
	//
	// Returns:
	//   - pose.Pose: the pose
	//   - bool: false if no tick has succeeded yet
	Pose() (pose.Pose, bool)

	// LastError returns the error of the most recent tick, nil if it
	// succeeded. Useful when updates run through a scheduler and the
	// per-player error is wanted after the fact.
	//
	// Returns:
	//   - error: the last tick's error
	LastError() error

	// Output returns one of the graph's declared outputs from the last
	// successful tick.
	//
	// Parameters:
	//   - pin: the output name
	//
	// Returns:
	//   - graph.DataValue: the value
	//   - bool: false if absent
	Output(pin graph.PinID) (graph.DataValue, bool)
}

// Ensure player implements Player interface.
var _ Player = &player{}

// NewPlayer creates a player for a root graph. The graph and resources
// are required; NewPlayer panics if either is nil.
//
// Parameters:
//   - id: the player identifier
//   - g: the root graph asset (must not be nil)
//   - resources: asset resolution for the graph (must not be nil)
//   - options: functional options to further configure the player
//
// Returns:
//   - Player: the newly created player
func NewPlayer(id string, g *graph.AnimationGraph, resources graph.Resources, options ...PlayerBuilderOption) Player {
	if g == nil {
		panic("player: NewPlayer requires a non-nil graph")
	}
	if resources == nil {
		panic("player: NewPlayer requires non-nil resources")
	}
	p := &player{
		mu:        &sync.Mutex{},
		id:        id,
		g:         g,
		resources: resources,
		arena:     graph.NewGraphContextArena(g.ID),
		overlay:   graph.NewInputOverlay(),
		state:     StateStopped,
		speed:     1,
		outputs:   make(map[graph.PinID]graph.DataValue),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *player) ID() string {
	return p.id
}

func (p *player) Graph() *graph.AnimationGraph {
	return p.g
}

func (p *player) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateStopped {
		p.combinePending(graph.AbsoluteUpdate(0))
	}
	p.state = StatePlaying
}

func (p *player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StatePaused
}

func (p *player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateStopped
	p.arena = graph.NewGraphContextArena(p.g.ID)
	p.pending = graph.TimeUpdate{}
	p.hasPending = false
	p.queued = nil
}

func (p *player) Seek(t float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.combinePending(graph.AbsoluteUpdate(t))
}

func (p *player) Speed() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

func (p *player) SetSpeed(speed float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = speed
}

func (p *player) SetParameter(pin graph.PinID, v graph.DataValue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlay.Parameters[pin] = v
}

func (p *player) ClearParameter(pin graph.PinID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.overlay.Parameters, pin)
}

func (p *player) QueueEvent(ev events.AnimationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queued = append(p.queued, events.NewSampledEvent(ev))
}

// combinePending folds a new update into the pending one. Callers must
// hold the mutex.
func (p *player) combinePending(tu graph.TimeUpdate) {
	if p.hasPending {
		p.pending = p.pending.Combine(tu)
	} else {
		p.pending = tu
	}
	p.hasPending = true
}

func (p *player) Step(dt float32) error {
	p.mu.Lock()
	if p.state == StateStopped {
		p.combinePending(graph.AbsoluteUpdate(0))
	}
	p.combinePending(graph.DeltaUpdate(dt * p.speed))
	p.state = StatePaused
	p.mu.Unlock()
	return p.Update(0)
}

func (p *player) Update(dt float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateStopped {
		return nil
	}

	delta := dt * p.speed
	if p.state == StatePaused {
		delta = 0
	}
	p.combinePending(graph.DeltaUpdate(delta))
	tu := p.pending
	p.pending = graph.TimeUpdate{}
	p.hasPending = false

	p.overlay.Parameters[PinUserEvents] = graph.EventQueueValue(events.EventQueue{Events: p.queued})
	p.queued = nil

	p.arena.NextFrame()
	c := graph.NewPassContext(p.g, p.arena.Toplevel(), p.arena, p.resources, p.overlay)
	outputs, err := p.g.Query(c, tu)
	if err != nil {
		p.lastErr = fmt.Errorf("player %q: %w", p.id, err)
		return p.lastErr
	}
	p.lastErr = nil

	p.outputs = outputs
	if v, ok := outputs[graph.PinID("pose")]; ok {
		if out, err := v.AsPose(); err == nil {
			p.lastPose = out
			p.hasPose = true
		}
	}
	return nil
}

func (p *player) Pose() (pose.Pose, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPose, p.hasPose
}

func (p *player) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *player) Output(pin graph.PinID) (graph.DataValue, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.outputs[pin]
	return v, ok
}
