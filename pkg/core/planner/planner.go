// Package planner sequences scoring, shadow pricing, the assignment solver
// and the propagation engine across the full fixture horizon, threading each
// fixture's post-match state into the next solve.
package planner

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/fitness"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/lineup"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/shadow"
)

// Planner drives one horizon run. Independent horizons (e.g. candidate
// formations) can run in parallel as long as each holds its own roster copy;
// the planner itself is single-threaded and never shares state across runs.
type Planner struct {
	params *config.Params
	logger *zap.Logger
}

// Plan is the full horizon result: one assignment per fixture plus the
// player-state trajectory after each fixture.
type Plan struct {
	RunID       string
	Assignments []model.Assignment
	// Trajectory[k] is every player's state after fixture k has been
	// played and the gap to fixture k+1 has elapsed.
	Trajectory [][]model.Player
	TotalGSS   float64
}

// New creates a Planner. A nil logger disables logging.
func New(params *config.Params, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{params: params, logger: logger}
}

// Run plans the whole fixture horizon. The input roster is copied, never
// mutated; the same inputs always reproduce the same plan.
func (pl *Planner) Run(roster []model.Player, fixtures []model.Fixture) (*Plan, error) {
	if err := validateHorizon(roster, fixtures); err != nil {
		return nil, err
	}

	state := make([]model.Player, len(roster))
	for i := range roster {
		state[i] = roster[i].Clone()
	}

	plan := &Plan{
		RunID:       uuid.NewString(),
		Assignments: make([]model.Assignment, 0, len(fixtures)),
		Trajectory:  make([][]model.Player, 0, len(fixtures)),
	}

	var prev *model.Assignment

	for k, fx := range fixtures {
		prices, err := shadow.ComputePrices(state, fixtures, k, pl.params)
		if err != nil {
			return nil, fmt.Errorf("shadow pricing failed at fixture %d: %w", k, err)
		}

		asg, err := lineup.Solve(state, fx, prices, prev, pl.params)
		if err != nil {
			return nil, err
		}

		pl.logger.Debug("fixture solved",
			zap.Int("fixture", fx.Index),
			zap.String("importance", string(fx.Importance)),
			zap.Float64("total_gss", asg.TotalGSS),
			zap.Int("rested", len(asg.Rested)))

		days := 0
		if k+1 < len(fixtures) {
			days = int(fixtures[k+1].Date.Sub(fx.Date).Hours() / 24)
		}

		for i := range state {
			started := asg.Started(state[i].ID)
			minutes := 0
			if started {
				minutes = pl.params.DefaultMinutes
			}
			state[i] = fitness.Advance(state[i], started, minutes, fx.Importance, days, pl.params)
		}

		snapshot := make([]model.Player, len(state))
		for i := range state {
			snapshot[i] = state[i].Clone()
		}

		plan.Assignments = append(plan.Assignments, *asg)
		plan.Trajectory = append(plan.Trajectory, snapshot)
		plan.TotalGSS += asg.TotalGSS
		prev = asg
	}

	pl.logger.Info("horizon planned",
		zap.String("run_id", plan.RunID),
		zap.Int("fixtures", len(fixtures)),
		zap.Float64("total_gss", plan.TotalGSS))

	return plan, nil
}

func validateHorizon(roster []model.Player, fixtures []model.Fixture) error {
	seen := make(map[model.PlayerID]bool, len(roster))
	for i := range roster {
		if roster[i].ID == "" {
			return &model.ValidationError{Subject: "roster", Field: "id", Reason: "empty player id"}
		}
		if seen[roster[i].ID] {
			return &model.ValidationError{
				Subject: "roster",
				Field:   "id",
				Reason:  fmt.Sprintf("duplicate player id %q", roster[i].ID),
			}
		}
		seen[roster[i].ID] = true
	}

	for k, fx := range fixtures {
		if fx.Index != k {
			return &model.ValidationError{
				Subject: fmt.Sprintf("fixture %d", k),
				Field:   "index",
				Reason:  fmt.Sprintf("index %d does not match horizon position %d", fx.Index, k),
			}
		}
		if !fx.Importance.IsValid() {
			return &model.ValidationError{
				Subject: fmt.Sprintf("fixture %d", k),
				Field:   "importance",
				Reason:  fmt.Sprintf("unknown importance %q", fx.Importance),
			}
		}
		if k > 0 && fx.Date.Before(fixtures[k-1].Date) {
			return &model.ValidationError{
				Subject: fmt.Sprintf("fixture %d", k),
				Field:   "date",
				Reason:  "fixtures must be ordered by date",
			}
		}
	}

	return nil
}
