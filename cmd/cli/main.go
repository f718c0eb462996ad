package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/services"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	params *config.Params
	logger *zap.Logger
	ctx    context.Context
}

var (
	squadPath  string
	paramsPath string
	verbose    bool
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "squadplan",
		Short: "Squad rotation planner - pick lineups across a fixture horizon",
		Long: `A planner that selects a lineup for every fixture in a horizon, balancing
current strength against condition, sharpness, fatigue and future fixtures.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&squadPath, "squad", "s", "squad.yaml", "Path to the squad snapshot file")
	rootCmd.PersistentFlags().StringVarP(&paramsPath, "params", "p", "", "Path to a parameters file (defaults used when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on the console")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(lineupCmd())
	rootCmd.AddCommand(rosterCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger and parameters
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if paramsPath != "" {
		app.params, err = config.LoadFromPath(paramsPath)
		if err != nil {
			return fmt.Errorf("failed to load params: %w", err)
		}
		app.logger.Debug("Parameters loaded", zap.String("path", paramsPath))
	} else {
		app.params = config.Default()
		app.logger.Debug("Using default parameters")
	}

	return nil
}

// Command definitions

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Plan lineups for every fixture in the horizon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.PlanHorizon(app.ctx, squadPath, app.params, app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nPlan %s - %d fixtures, total GSS %.1f\n", result.RunID, len(result.Assignments), result.TotalGSS)

			for i := range result.Assignments {
				printFixture(&result.Fixtures[i], &result.Assignments[i])
			}

			printRotationSummary(result.Starts, len(result.Assignments))
			return nil
		},
	}
}

func lineupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lineup <fixture_index>",
		Short: "Show the planned lineup for a single fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("fixture_index must be a number: %w", err)
			}

			result, err := services.SolveFixture(app.ctx, squadPath, index, app.params, app.logger)
			if err != nil {
				return err
			}

			printFixture(&result.Fixture, &result.Assignment)
			return nil
		},
	}
}

func rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List the squad with current state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := services.ListRoster(app.ctx, squadPath, app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nSquad of %d:\n\n", len(players))
			for i := range players {
				p := &players[i]
				status := ""
				if p.Injured {
					status = " [INJURED]"
				}
				if p.Suspended {
					status += " [SUSPENDED]"
				}
				fmt.Printf("- %-22s age %2d  cond %.2f  sharp %.2f  %-5s  best %.0f%s\n",
					p.Name, p.Age, p.Condition, p.Sharpness, p.Load, p.BestRating(), status)
			}

			return nil
		},
	}
}

func printFixture(fx *model.Fixture, asg *model.Assignment) {
	fmt.Printf("\n%s  %s  (%s, %s)\n",
		fx.Date.Format("2006-01-02"), fx.Formation.Name, fx.Importance, ordinalName(fx.Index))

	for _, slot := range fx.Formation.Slots {
		id := asg.Starters[slot.Index]
		b := asg.Breakdown[slot.Index]
		fmt.Printf("  %-4s %-14s gss %6.1f  shadow %5.1f  stability %+5.1f\n",
			slot.Name, id, b.GSS, b.ShadowPrice, b.StabilityAdj)
	}

	if len(asg.Rested) > 0 {
		fmt.Printf("  rested: ")
		for i, id := range asg.Rested {
			if i > 0 {
				fmt.Printf(", ")
			}
			fmt.Printf("%s", id)
		}
		fmt.Println()
	}
}

func printRotationSummary(starts map[model.PlayerID]int, fixtures int) {
	ids := make([]model.PlayerID, 0, len(starts))
	for id := range starts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if starts[ids[i]] != starts[ids[j]] {
			return starts[ids[i]] > starts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	fmt.Printf("\nStarts across %d fixtures:\n", fixtures)
	for _, id := range ids {
		fmt.Printf("  %-14s %d\n", id, starts[id])
	}
	fmt.Println()
}

func ordinalName(index int) string {
	return fmt.Sprintf("fixture %d", index+1)
}
