package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/planner"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/squadfile"
)

// PlanHorizonResult contains the planned horizon plus the rotation summary
// callers render.
type PlanHorizonResult struct {
	RunID       string
	Fixtures    []model.Fixture
	Assignments []model.Assignment
	Trajectory  [][]model.Player
	TotalGSS    float64

	// Roster is the squad state as loaded, before any fixture is played.
	Roster []model.Player

	// Starts counts fixtures started per player across the horizon.
	Starts map[model.PlayerID]int
}

// PlanHorizon loads the squad file and plans the full fixture horizon.
func PlanHorizon(ctx context.Context, squadPath string, params *config.Params, logger *zap.Logger) (*PlanHorizonResult, error) {
	logger.Debug("Starting planHorizon", zap.String("squad_file", squadPath))

	squad, err := squadfile.Load(squadPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load squad file: %w", err)
	}
	logger.Debug("Squad loaded",
		zap.Int("players", len(squad.Players)),
		zap.Int("fixtures", len(squad.Fixtures)))

	if len(squad.Fixtures) == 0 {
		return nil, fmt.Errorf("squad file defines no fixtures - nothing to plan")
	}

	plan, err := planner.New(params, logger).Run(squad.Players, squad.Fixtures)
	if err != nil {
		return nil, err
	}

	result := &PlanHorizonResult{
		RunID:       plan.RunID,
		Fixtures:    squad.Fixtures,
		Assignments: plan.Assignments,
		Trajectory:  plan.Trajectory,
		TotalGSS:    plan.TotalGSS,
		Roster:      squad.Players,
		Starts:      countStarts(plan.Assignments),
	}

	logger.Info("Horizon planned",
		zap.String("run_id", result.RunID),
		zap.Int("fixtures", len(result.Assignments)),
		zap.Float64("total_gss", result.TotalGSS))

	return result, nil
}

func countStarts(assignments []model.Assignment) map[model.PlayerID]int {
	starts := make(map[model.PlayerID]int)
	for i := range assignments {
		for _, id := range assignments[i].Starters {
			starts[id]++
		}
	}
	return starts
}
