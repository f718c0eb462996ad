package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

// CurveParams parameterizes one logistic selection curve. The multiplier
// rises from Floor toward 1.0 around Threshold; Steepness controls how
// quickly it collapses below the threshold.
type CurveParams struct {
	Threshold float64 `yaml:"threshold" validate:"gt=0,lt=1"`
	Floor     float64 `yaml:"floor" validate:"gte=0,lt=1"`
	Steepness float64 `yaml:"steepness" validate:"gt=0"`
}

// ImportanceParams holds the per-importance tuning. Higher-stakes fixtures
// tolerate lower condition (lower threshold, higher floor) and weigh heavier
// in shadow pricing.
type ImportanceParams struct {
	ConditionCurve CurveParams `yaml:"conditionCurve"`
	SharpnessCurve CurveParams `yaml:"sharpnessCurve"`

	// InvertSharpness flips the sharpness emphasis so rusty players are
	// boosted instead of penalized (sharpness-building fixtures).
	InvertSharpness bool `yaml:"invertSharpness"`

	// Weight scales this fixture's contribution to shadow prices.
	Weight float64 `yaml:"weight" validate:"gt=0"`

	// RestWeight scales how attractive rest sinks are for this fixture.
	RestWeight float64 `yaml:"restWeight" validate:"gte=0"`

	// Intensity scales condition drain for minutes played in this fixture.
	Intensity float64 `yaml:"intensity" validate:"gt=0"`

	// SharpnessGainPer90 is the sharpness earned by a full match here.
	SharpnessGainPer90 float64 `yaml:"sharpnessGainPer90" validate:"gte=0,lte=1"`
}

// Params is the full externally supplied tuning surface for the optimizer.
// Defaults() provides a tuned baseline; a YAML file loaded with LoadFromPath
// overrides individual fields.
type Params struct {
	Importance map[model.Importance]ImportanceParams `yaml:"importance" validate:"required"`

	// HardConditionFloor forbids starting any player whose condition is
	// below it, regardless of curve output.
	HardConditionFloor float64 `yaml:"hardConditionFloor" validate:"gte=0,lte=1"`

	// AllowFloorOverride relaxes the hard floor for a slot when every other
	// candidate for that slot is forbidden. Off by default.
	AllowFloorOverride bool `yaml:"allowFloorOverride"`

	FamiliarityInWeight   float64 `yaml:"familiarityInWeight" validate:"gt=0"`
	FamiliarityOutWeight  float64 `yaml:"familiarityOutWeight" validate:"gt=0"`
	FamiliarityGapPenalty float64 `yaml:"familiarityGapPenalty" validate:"gte=0"`

	// UnratedRoleFactor is the fraction of a player's best rating used when
	// scoring a role they have no rating for (emergency out-of-position
	// cover).
	UnratedRoleFactor float64 `yaml:"unratedRoleFactor" validate:"gte=0,lte=1"`

	LoadMultipliers map[model.LoadState]float64 `yaml:"loadMultipliers" validate:"required"`

	// WindowDays is the rolling minutes window length W.
	WindowDays int `yaml:"windowDays" validate:"gt=0"`

	// Window-minute thresholds for the load ladder. Jaded additionally
	// requires the consecutive-start trigger; see pkg/core/fitness.
	FitWindowMinutes   int `yaml:"fitWindowMinutes" validate:"gt=0"`
	TiredWindowMinutes int `yaml:"tiredWindowMinutes" validate:"gt=0"`
	JadedWindowMinutes int `yaml:"jadedWindowMinutes" validate:"gt=0"`

	ConsecutiveStartTrigger int `yaml:"consecutiveStartTrigger" validate:"gt=0"`
	JadedRestDaysToClear    int `yaml:"jadedRestDaysToClear" validate:"gt=0"`

	ConditionDrainPer90     float64 `yaml:"conditionDrainPer90" validate:"gt=0,lte=1"`
	ConditionRecoveryPerDay float64 `yaml:"conditionRecoveryPerDay" validate:"gt=0,lte=1"`
	SharpnessDecayPerDay    float64 `yaml:"sharpnessDecayPerDay" validate:"gte=0,lte=1"`

	// Discount is the per-fixture-step shadow discount factor gamma.
	Discount float64 `yaml:"discount" validate:"gt=0,lt=1"`

	// ShadowHorizon is how many future fixtures shadow pricing looks at.
	ShadowHorizon int `yaml:"shadowHorizon" validate:"gte=0"`

	// ScarcityCap bounds the position-scarcity amplification of shadow
	// prices.
	ScarcityCap float64 `yaml:"scarcityCap" validate:"gte=0"`

	StabilityBonus   float64 `yaml:"stabilityBonus" validate:"gte=0"`
	StabilityPenalty float64 `yaml:"stabilityPenalty" validate:"gte=0"`

	// FatigueReliefScale and RustReliefScale convert rest value into the
	// GSS cost scale when pricing rest sinks.
	FatigueReliefScale float64 `yaml:"fatigueReliefScale" validate:"gte=0"`
	RustReliefScale    float64 `yaml:"rustReliefScale" validate:"gte=0"`

	ForbiddenCost float64 `yaml:"forbiddenCost" validate:"gt=0"`

	// DefaultMinutes is the minutes a starter is assumed to play.
	DefaultMinutes int `yaml:"defaultMinutes" validate:"gt=0"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the tuned baseline parameter set.
func Default() *Params {
	return &Params{
		Importance: map[model.Importance]ImportanceParams{
			model.ImportanceHigh: {
				ConditionCurve:     CurveParams{Threshold: 0.78, Floor: 0.35, Steepness: 12},
				SharpnessCurve:     CurveParams{Threshold: 0.50, Floor: 0.60, Steepness: 6},
				Weight:             3.0,
				RestWeight:         0.5,
				Intensity:          1.1,
				SharpnessGainPer90: 0.25,
			},
			model.ImportanceMedium: {
				ConditionCurve:     CurveParams{Threshold: 0.85, Floor: 0.30, Steepness: 12},
				SharpnessCurve:     CurveParams{Threshold: 0.55, Floor: 0.55, Steepness: 6},
				Weight:             2.0,
				RestWeight:         1.0,
				Intensity:          1.0,
				SharpnessGainPer90: 0.20,
			},
			model.ImportanceLow: {
				ConditionCurve:     CurveParams{Threshold: 0.90, Floor: 0.25, Steepness: 12},
				SharpnessCurve:     CurveParams{Threshold: 0.60, Floor: 0.50, Steepness: 6},
				Weight:             1.0,
				RestWeight:         1.6,
				Intensity:          0.9,
				SharpnessGainPer90: 0.15,
			},
			model.ImportanceSharpnessBuilding: {
				ConditionCurve:     CurveParams{Threshold: 0.90, Floor: 0.25, Steepness: 12},
				SharpnessCurve:     CurveParams{Threshold: 0.50, Floor: 0.40, Steepness: 5},
				InvertSharpness:    true,
				Weight:             0.5,
				RestWeight:         1.2,
				Intensity:          0.8,
				SharpnessGainPer90: 0.30,
			},
		},
		HardConditionFloor:    0.70,
		AllowFloorOverride:    false,
		FamiliarityInWeight:   0.5,
		FamiliarityOutWeight:  0.5,
		FamiliarityGapPenalty: 0.5,
		UnratedRoleFactor:     0.5,
		LoadMultipliers: map[model.LoadState]float64{
			model.LoadFresh: 1.00,
			model.LoadFit:   0.97,
			model.LoadTired: 0.85,
			model.LoadJaded: 0.60,
		},
		WindowDays:              28,
		FitWindowMinutes:        180,
		TiredWindowMinutes:      360,
		JadedWindowMinutes:      540,
		ConsecutiveStartTrigger: 4,
		JadedRestDaysToClear:    10,
		ConditionDrainPer90:     0.40,
		ConditionRecoveryPerDay: 0.10,
		SharpnessDecayPerDay:    0.02,
		Discount:                0.85,
		ShadowHorizon:           3,
		ScarcityCap:             1.0,
		StabilityBonus:          2.0,
		StabilityPenalty:        1.0,
		FatigueReliefScale:      40,
		RustReliefScale:         25,
		ForbiddenCost:           1e7,
		DefaultMinutes:          90,
	}
}

// LoadFromPath loads parameters from a YAML file, applied on top of the
// defaults, and validates the result.
func LoadFromPath(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}

	params := Default()
	if err := yaml.Unmarshal(data, params); err != nil {
		return nil, fmt.Errorf("failed to parse params file: %w", err)
	}

	if err := Validate(params); err != nil {
		return nil, err
	}

	return params, nil
}

// Validate runs struct validation plus the semantic checks yaml tags cannot
// express.
func Validate(p *Params) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("params validation failed: %w", err)
	}

	// All four importance levels must be tuned.
	for _, imp := range []model.Importance{
		model.ImportanceHigh,
		model.ImportanceMedium,
		model.ImportanceLow,
		model.ImportanceSharpnessBuilding,
	} {
		if _, ok := p.Importance[imp]; !ok {
			return &model.ValidationError{
				Subject: "params",
				Field:   "importance",
				Reason:  fmt.Sprintf("missing parameters for importance level %q", imp),
			}
		}
	}

	// All four load states must be present and non-increasing from Fresh
	// through Jaded.
	order := []model.LoadState{model.LoadFresh, model.LoadFit, model.LoadTired, model.LoadJaded}
	prev := 1.0
	for _, ls := range order {
		m, ok := p.LoadMultipliers[ls]
		if !ok {
			return &model.ValidationError{
				Subject: "params",
				Field:   "loadMultipliers",
				Reason:  fmt.Sprintf("missing multiplier for load state %q", ls),
			}
		}
		if m < 0 || m > 1 {
			return &model.ValidationError{
				Subject: "params",
				Field:   "loadMultipliers",
				Reason:  fmt.Sprintf("multiplier for %q must be within [0,1]", ls),
			}
		}
		if m > prev {
			return &model.ValidationError{
				Subject: "params",
				Field:   "loadMultipliers",
				Reason:  fmt.Sprintf("multiplier for %q exceeds the previous load state's", ls),
			}
		}
		prev = m
	}

	if p.FitWindowMinutes >= p.TiredWindowMinutes || p.TiredWindowMinutes >= p.JadedWindowMinutes {
		return &model.ValidationError{
			Subject: "params",
			Field:   "windowMinutes",
			Reason:  "thresholds must satisfy fit < tired < jaded",
		}
	}

	return nil
}
