// Package shadow estimates the opportunity cost of fielding a player now
// instead of preserving them for higher-value fixtures later in the horizon.
//
// For each player two futures are projected with the propagation engine: one
// where the player rests now, one where they play now. The GSS advantage the
// rested branch holds at each future fixture, weighted by that fixture's
// importance and discounted per fixture step, is the shadow price. Tightly
// packed fixtures therefore compound opportunity cost faster than sparse
// ones.
package shadow

import (
	"math"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/fitness"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/scoring"
)

// ComputePrices returns the shadow price for every player at fixture k,
// looking ahead at most params.ShadowHorizon fixtures. Prices are
// non-negative and on the GSS scale, so the solver can add them straight
// onto assignment costs.
func ComputePrices(roster []model.Player, fixtures []model.Fixture, k int, params *config.Params) (map[model.PlayerID]float64, error) {
	prices := make(map[model.PlayerID]float64, len(roster))

	for i := range roster {
		price, err := priceFor(&roster[i], roster, fixtures, k, params)
		if err != nil {
			return nil, err
		}
		prices[roster[i].ID] = price
	}

	return prices, nil
}

func priceFor(p *model.Player, roster []model.Player, fixtures []model.Fixture, k int, params *config.Params) (float64, error) {
	if !p.Available() {
		return 0, nil
	}

	last := min(k+params.ShadowHorizon, len(fixtures)-1)
	if last <= k {
		return 0, nil
	}

	current := fixtures[k]

	// Branch states after the current fixture: rested from now vs played
	// now then managed normally (rested onward in both branches).
	days := elapsedDays(fixtures, k)
	rested := fitness.Advance(*p, false, 0, current.Importance, days, params)
	played := fitness.Advance(*p, true, params.DefaultMinutes, current.Importance, days, params)

	total := 0.0
	for j := k + 1; j <= last; j++ {
		fx := fixtures[j]

		restBest, err := bestEligibleGSS(&rested, fx, params)
		if err != nil {
			return 0, err
		}
		playBest, err := bestEligibleGSS(&played, fx, params)
		if err != nil {
			return 0, err
		}

		weight := params.Importance[fx.Importance].Weight
		discount := math.Pow(params.Discount, float64(j-k))
		total += (restBest - playBest) * weight * discount

		if j < last {
			d := elapsedDays(fixtures, j)
			rested = fitness.Advance(rested, false, 0, fx.Importance, d, params)
			played = fitness.Advance(played, false, 0, fx.Importance, d, params)
		}
	}

	// Resting never incurs a penalty for failing to preserve further.
	if total < 0 {
		return 0, nil
	}

	amp, err := scarcityAmplifier(p, roster, current, params)
	if err != nil {
		return 0, err
	}

	return total * amp, nil
}

// bestEligibleGSS is the player's strongest GSS across the fixture's slots.
// Goalkeepers are scored on the goalkeeper slot, outfielders on the rest.
func bestEligibleGSS(p *model.Player, fx model.Fixture, params *config.Params) (float64, error) {
	best := 0.0
	for _, slot := range fx.Formation.Slots {
		if (slot.Role == model.RoleGK) != p.Goalkeeper {
			continue
		}
		score, err := scoring.GSS(p, slot, fx.Importance, params)
		if err != nil {
			return 0, err
		}
		if score.Value > best {
			best = score.Value
		}
	}
	return best, nil
}

// scarcityAmplifier raises the price of players the squad cannot replace. A
// player well clear of the next-best alternative for the slots they cover is
// scarce; a player with comparable backups is not. The amplification is
// capped so one irreplaceable player cannot dominate every fixture.
func scarcityAmplifier(p *model.Player, roster []model.Player, fx model.Fixture, params *config.Params) (float64, error) {
	scarcity := 0.0

	for _, slot := range fx.Formation.Slots {
		if (slot.Role == model.RoleGK) != p.Goalkeeper {
			continue
		}
		if _, rated := p.Ratings[slot.Role]; !rated && !p.Goalkeeper {
			continue
		}

		own, err := scoring.GSS(p, slot, fx.Importance, params)
		if err != nil {
			return 0, err
		}
		if own.Value <= 0 {
			continue
		}

		bestAlt := 0.0
		for i := range roster {
			alt := &roster[i]
			if alt.ID == p.ID || !alt.Available() || alt.Goalkeeper != p.Goalkeeper {
				continue
			}
			score, err := scoring.GSS(alt, slot, fx.Importance, params)
			if err != nil {
				return 0, err
			}
			if score.Value > bestAlt {
				bestAlt = score.Value
			}
		}

		if own.Value > bestAlt {
			// Fraction of the player's value the squad would lose
			// outright with no comparable replacement.
			scarcity += (own.Value - bestAlt) / own.Value
		}
	}

	if scarcity > params.ScarcityCap {
		scarcity = params.ScarcityCap
	}

	return 1 + scarcity, nil
}

// elapsedDays returns the whole days between fixture k and the one after it,
// or 0 at the end of the horizon.
func elapsedDays(fixtures []model.Fixture, k int) int {
	if k+1 >= len(fixtures) {
		return 0
	}
	d := int(fixtures[k+1].Date.Sub(fixtures[k].Date).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
