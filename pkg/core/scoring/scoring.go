// Package scoring computes the Global Selection Score: the single utility
// value that makes players comparable for one slot in one fixture.
//
// GSS = Base × Φ(condition) × Ψ(sharpness) × Θ(familiarity) × Ω(load)
//
// Every factor is a multiplier in [0, 1], so GSS never exceeds the base
// rating. Scores are only comparable within a single fixture: the curve
// parameters shift with importance, so raw GSS values from fixtures of
// different importance must not be compared directly.
package scoring

import (
	"fmt"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

// awkwardFamiliarity is the familiarity assumed for a role the player has no
// familiarity entry for (emergency out-of-position cover).
const awkwardFamiliarity = 0.1

// Score is a computed GSS with its factor breakdown.
type Score struct {
	Value float64

	Base              float64
	ConditionFactor   float64
	SharpnessFactor   float64
	FamiliarityFactor float64
	LoadFactor        float64

	// BelowFloor marks a player whose condition is under the hard floor.
	// The cost matrix turns this into a forbidden cell; the score itself is
	// still computed so the floor-override relaxation has a value to use.
	BelowFloor bool
}

// GSS computes the Global Selection Score for a (player, slot, importance)
// triple. It is pure and total for in-range input; out-of-range state or
// parameters produce a ValidationError.
func GSS(p *model.Player, slot model.Slot, imp model.Importance, params *config.Params) (Score, error) {
	if err := validateInput(p, slot, imp); err != nil {
		return Score{}, err
	}

	ip, ok := params.Importance[imp]
	if !ok {
		return Score{}, &model.ValidationError{
			Subject: "params",
			Field:   "importance",
			Reason:  fmt.Sprintf("no parameters for importance level %q", imp),
		}
	}

	base := baseForRole(p, slot.Role, params)

	condCurve := NewCurve(ip.ConditionCurve)
	sharpCurve := NewCurve(ip.SharpnessCurve)

	condFactor := condCurve.Eval(p.Condition)
	var sharpFactor float64
	if ip.InvertSharpness {
		sharpFactor = sharpCurve.EvalInverted(p.Sharpness)
	} else {
		sharpFactor = sharpCurve.Eval(p.Sharpness)
	}

	famFactor := familiarityFactor(p, slot.Role, params)
	loadFactor := params.LoadMultipliers[p.Load]

	return Score{
		Value:             base * condFactor * sharpFactor * famFactor * loadFactor,
		Base:              base,
		ConditionFactor:   condFactor,
		SharpnessFactor:   sharpFactor,
		FamiliarityFactor: famFactor,
		LoadFactor:        loadFactor,
		BelowFloor:        p.Condition < params.HardConditionFloor,
	}, nil
}

// baseForRole returns the harmonic-mean base rating for the role. Players
// with no rating for the role are scored off a fraction of their best rating
// so emergency cover is possible at heavily reduced value.
func baseForRole(p *model.Player, role model.Role, params *config.Params) float64 {
	if r, ok := p.Ratings[role]; ok {
		return BaseRating(r.InPossession, r.OutOfPossession)
	}
	fallback := p.BestRating() * params.UnratedRoleFactor
	return BaseRating(fallback, fallback)
}

// familiarityFactor combines the two phase familiarities with a penalty
// proportional to the gap between them. A player strong in one phase but
// weak in the other is penalized, never rewarded for the strong phase alone.
func familiarityFactor(p *model.Player, role model.Role, params *config.Params) float64 {
	in, out := awkwardFamiliarity, awkwardFamiliarity
	if f, ok := p.Familiarity[role]; ok {
		in, out = f.InPossession, f.OutOfPossession
	}

	wIn, wOut := params.FamiliarityInWeight, params.FamiliarityOutWeight
	mean := (wIn*in + wOut*out) / (wIn + wOut)

	gap := in - out
	if gap < 0 {
		gap = -gap
	}

	factor := mean - params.FamiliarityGapPenalty*gap
	if factor < 0 {
		return 0
	}
	if factor > 1 {
		return 1
	}
	return factor
}

func validateInput(p *model.Player, slot model.Slot, imp model.Importance) error {
	subject := fmt.Sprintf("player %s", p.ID)

	if p.Condition < 0 || p.Condition > 1 {
		return &model.ValidationError{Subject: subject, Field: "condition", Reason: "must be within [0,1]"}
	}
	if p.Sharpness < 0 || p.Sharpness > 1 {
		return &model.ValidationError{Subject: subject, Field: "sharpness", Reason: "must be within [0,1]"}
	}
	if !p.Load.IsValid() {
		return &model.ValidationError{Subject: subject, Field: "load", Reason: fmt.Sprintf("unknown load state %q", p.Load)}
	}
	for role, r := range p.Ratings {
		if r.InPossession < 0 || r.OutOfPossession < 0 {
			return &model.ValidationError{
				Subject: subject,
				Field:   "ratings." + string(role),
				Reason:  "ratings must be non-negative",
			}
		}
	}
	for role, f := range p.Familiarity {
		if f.InPossession < 0 || f.InPossession > 1 || f.OutOfPossession < 0 || f.OutOfPossession > 1 {
			return &model.ValidationError{
				Subject: subject,
				Field:   "familiarity." + string(role),
				Reason:  "familiarity must be within [0,1]",
			}
		}
	}
	if !slot.Role.IsValid() {
		return &model.ValidationError{Subject: "slot " + slot.Name, Field: "role", Reason: fmt.Sprintf("unknown role %q", slot.Role)}
	}
	if !imp.IsValid() {
		return &model.ValidationError{Subject: "fixture", Field: "importance", Reason: fmt.Sprintf("unknown importance %q", imp)}
	}
	return nil
}
