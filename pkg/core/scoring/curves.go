package scoring

import (
	"math"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
)

// Curve is a bounded logistic multiplier curve. Eval maps a 0-1 state
// fraction to a multiplier in [Floor, 1]: well above Threshold the output
// approaches 1, well below it the output collapses toward Floor.
type Curve struct {
	Floor     float64
	Threshold float64
	Steepness float64
}

// NewCurve builds a Curve from its configuration.
func NewCurve(p config.CurveParams) Curve {
	return Curve{Floor: p.Floor, Threshold: p.Threshold, Steepness: p.Steepness}
}

// Eval returns the multiplier for state fraction x.
func (c Curve) Eval(x float64) float64 {
	s := 1.0 / (1.0 + math.Exp(-c.Steepness*(x-c.Threshold)))
	return c.Floor + (1-c.Floor)*s
}

// EvalInverted returns the multiplier with the emphasis flipped: low x is
// boosted toward 1 and high x collapses toward Floor. Used by
// sharpness-building fixtures to route minutes at rusty players.
func (c Curve) EvalInverted(x float64) float64 {
	return c.Eval(1 - x)
}

// BaseRating combines the two phase ratings with a harmonic mean, so a
// severe weakness in either phase dominates the result.
func BaseRating(in, out float64) float64 {
	if in <= 0 || out <= 0 {
		return 0
	}
	return 2 * in * out / (in + out)
}
