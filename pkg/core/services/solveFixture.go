package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

// SolveFixtureResult is one fixture's lineup with its cost breakdown.
type SolveFixtureResult struct {
	Fixture    model.Fixture
	Assignment model.Assignment
	// Roster is every player's state going into the fixture, for display.
	Roster []model.Player
}

// SolveFixture plans the horizon up to and including the requested fixture
// and returns that fixture's assignment. Earlier fixtures must be planned
// too because the fixture's input state depends on them.
func SolveFixture(ctx context.Context, squadPath string, fixtureIndex int, params *config.Params, logger *zap.Logger) (*SolveFixtureResult, error) {
	logger.Debug("Starting solveFixture",
		zap.String("squad_file", squadPath),
		zap.Int("fixture", fixtureIndex))

	result, err := PlanHorizon(ctx, squadPath, params, logger)
	if err != nil {
		return nil, err
	}

	if fixtureIndex < 0 || fixtureIndex >= len(result.Assignments) {
		return nil, fmt.Errorf("fixture index %d out of range (horizon has %d fixtures)", fixtureIndex, len(result.Assignments))
	}

	out := &SolveFixtureResult{
		Fixture:    result.Fixtures[fixtureIndex],
		Assignment: result.Assignments[fixtureIndex],
	}
	if fixtureIndex > 0 {
		out.Roster = result.Trajectory[fixtureIndex-1]
	} else {
		out.Roster = result.Roster
	}

	return out, nil
}
