// Package fitness is the state propagation engine: it advances a player's
// perishable state (condition, sharpness, minutes window, load) across one
// fixture, either played or rested, plus the days elapsed until the next
// fixture.
//
// Advance is pure and deterministic. Shadow pricing projects hypothetical
// futures through the same function, so projected and real dynamics can
// never drift apart.
package fitness

import (
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

// Advance returns the player's next state after the current fixture.
//
// played=true applies match effects (condition drain, sharpness gain, window
// minutes, consecutive-start count) before the elapsed-days recovery.
// played=false with elapsedDays=0 is the identity.
func Advance(p model.Player, played bool, minutes int, imp model.Importance, elapsedDays int, params *config.Params) model.Player {
	if !played && elapsedDays == 0 {
		return p.Clone()
	}

	out := p.Clone()

	if played && minutes > 0 {
		ip := params.Importance[imp]

		// Stamina 20 drains at 0.8x the base rate, stamina 10 at 1.2x.
		staminaFactor := 1.6 - (p.Stamina/20)*0.8
		frac := float64(minutes) / 90

		out.Condition -= params.ConditionDrainPer90 * frac * ip.Intensity * staminaFactor
		out.Sharpness += ip.SharpnessGainPer90 * frac

		out.MinutesWindow = append(out.MinutesWindow, model.MinutesEntry{DaysAgo: 0, Minutes: minutes})
		out.ConsecutiveStarts++
		out.JadedRestDays = 0
	}

	ageWindow(&out, elapsedDays, params.WindowDays)

	if elapsedDays > 0 {
		out.Condition += params.ConditionRecoveryPerDay * recoveryFactor(&p) * float64(elapsedDays)

		if !played {
			out.Sharpness -= params.SharpnessDecayPerDay * float64(elapsedDays)
			out.ConsecutiveStarts = 0
			if out.Jaded {
				out.JadedRestDays += elapsedDays
			}
		}
	}

	out.Condition = clamp01(out.Condition)
	out.Sharpness = clamp01(out.Sharpness)

	updateLoad(&out, params)

	return out
}

// ageWindow shifts every window entry by the elapsed days and drops entries
// that fell outside the rolling window.
func ageWindow(p *model.Player, days, windowDays int) {
	if days == 0 {
		return
	}
	kept := p.MinutesWindow[:0]
	for _, e := range p.MinutesWindow {
		e.DaysAgo += days
		if e.DaysAgo < windowDays {
			kept = append(kept, e)
		}
	}
	p.MinutesWindow = kept
}

// updateLoad recomputes the load category from the window total, and applies
// the sticky jadedness rules: entered on sustained overload across multiple
// consecutive starts, cleared only after an extended no-play period with the
// window back under the tired threshold.
func updateLoad(p *model.Player, params *config.Params) {
	wm := p.WindowMinutes(params.WindowDays)

	if !p.Jaded && wm > jadedThreshold(p, params) && p.ConsecutiveStarts >= params.ConsecutiveStartTrigger {
		p.Jaded = true
		p.JadedRestDays = 0
	}

	if p.Jaded && p.JadedRestDays >= params.JadedRestDaysToClear && wm < params.TiredWindowMinutes {
		p.Jaded = false
		p.JadedRestDays = 0
	}

	switch {
	case p.Jaded:
		p.Load = model.LoadJaded
	case wm >= params.TiredWindowMinutes:
		p.Load = model.LoadTired
	case wm >= params.FitWindowMinutes:
		p.Load = model.LoadFit
	default:
		p.Load = model.LoadFresh
	}
}

// jadedThreshold is the player-specific window-minute total beyond which
// jadedness can set in. Older and less naturally fit players overload sooner.
func jadedThreshold(p *model.Player, params *config.Params) int {
	ageFactor := 1.0
	if p.Age > 30 {
		ageFactor = 1 - 0.03*float64(p.Age-30)
		if ageFactor < 0.7 {
			ageFactor = 0.7
		}
	}
	fitnessFactor := 0.8 + (p.NaturalFitness/20)*0.4

	return int(float64(params.JadedWindowMinutes) * ageFactor * fitnessFactor)
}

// recoveryFactor moderates per-day condition recovery by natural fitness and
// age. Always positive, so recovery to any pre-play condition terminates in
// a bounded number of days.
func recoveryFactor(p *model.Player) float64 {
	nf := 0.7 + (p.NaturalFitness/20)*0.6

	age := 1.0
	if p.Age > 27 {
		age = 1 - 0.02*float64(p.Age-27)
		if age < 0.7 {
			age = 0.7
		}
	}

	return nf * age
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
