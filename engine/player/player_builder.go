package player

import (
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// PlayerBuilderOption is a functional option for configuring a Player
// during construction.
type PlayerBuilderOption func(*player)

// WithSpeed is an option builder that sets the initial playback rate
// multiplier.
//
// Parameters:
//   - speed: the multiplier, 1 for normal speed
//
// Returns:
//   - PlayerBuilderOption: a function that applies the speed to a player
func WithSpeed(speed float32) PlayerBuilderOption {
	return func(p *player) {
		p.speed = speed
	}
}

// WithAutoPlay is an option builder that starts the player in the
// playing state from position zero.
//
// Returns:
//   - PlayerBuilderOption: a function that starts playback on creation
func WithAutoPlay() PlayerBuilderOption {
	return func(p *player) {
		p.state = StatePlaying
		p.combinePending(graph.AbsoluteUpdate(0))
	}
}

// WithParameter is an option builder that sets an initial runtime value
// for a graph input parameter.
//
// Parameters:
//   - pin: the graph input parameter
//   - v: the value
//
// Returns:
//   - PlayerBuilderOption: a function that applies the parameter
func WithParameter(pin graph.PinID, v graph.DataValue) PlayerBuilderOption {
	return func(p *player) {
		p.overlay.Parameters[pin] = v
	}
}
