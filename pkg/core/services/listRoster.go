package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/squadfile"
)

// ListRoster loads the squad file and returns its players sorted by best
// base rating, strongest first.
func ListRoster(ctx context.Context, squadPath string, logger *zap.Logger) ([]model.Player, error) {
	logger.Debug("Starting listRoster", zap.String("squad_file", squadPath))

	squad, err := squadfile.Load(squadPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load squad file: %w", err)
	}

	players := squad.Players
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].BestRating() > players[j].BestRating()
	})

	logger.Info("Roster loaded", zap.Int("players", len(players)))
	return players, nil
}
