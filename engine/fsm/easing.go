package fsm

import (
	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/tanema/gween/ease"
)

// easingFuncs maps the curve names accepted in transition definitions to
// tween functions. An unknown or empty name leaves the percent linear and
// unclamped.
var easingFuncs = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in_quad":        ease.InQuad,
	"out_quad":       ease.OutQuad,
	"in_out_quad":    ease.InOutQuad,
	"in_cubic":       ease.InCubic,
	"out_cubic":      ease.OutCubic,
	"in_out_cubic":   ease.InOutCubic,
	"in_quart":       ease.InQuart,
	"out_quart":      ease.OutQuart,
	"in_out_quart":   ease.InOutQuart,
	"in_quint":       ease.InQuint,
	"out_quint":      ease.OutQuint,
	"in_out_quint":   ease.InOutQuint,
	"in_sine":        ease.InSine,
	"out_sine":       ease.OutSine,
	"in_out_sine":    ease.InOutSine,
	"in_expo":        ease.InExpo,
	"out_expo":       ease.OutExpo,
	"in_out_expo":    ease.InOutExpo,
	"in_circ":        ease.InCirc,
	"out_circ":       ease.OutCirc,
	"in_out_circ":    ease.InOutCirc,
	"in_back":        ease.InBack,
	"out_back":       ease.OutBack,
	"in_out_back":    ease.InOutBack,
	"in_elastic":     ease.InElastic,
	"out_elastic":    ease.OutElastic,
	"in_out_elastic": ease.InOutElastic,
	"in_bounce":      ease.InBounce,
	"out_bounce":     ease.OutBounce,
	"in_out_bounce":  ease.InOutBounce,
}

// shapedPercent converts elapsed transition time into the driver value
// fed to transition graphs. Without an easing curve the raw ratio is
// returned unclamped; with one, the curve is evaluated over the clamped
// elapsed time so overshooting curves stay well defined.
//
// Parameters:
//   - elapsed: seconds since the transition was entered
//   - duration: the transition length in seconds
//   - easing: the curve name, empty for linear
//
// Returns:
//   - float32: the shaped percent
func shapedPercent(elapsed, duration float32, easing string) float32 {
	if duration <= 0 {
		return 1
	}
	fn, ok := easingFuncs[easing]
	if !ok {
		return elapsed / duration
	}
	return fn(common.Clamp(elapsed, 0, duration), 0, 1, duration)
}
