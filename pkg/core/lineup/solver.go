// Package lineup builds the per-fixture cost matrix and solves the optimal
// one-to-one assignment of players to formation slots and rest sinks.
package lineup

import (
	"fmt"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

// Solve produces the optimal assignment for one fixture. It validates the
// constraint set, builds the cost matrix, runs the matcher and verifies that
// no forbidden cell was chosen. The roster is never mutated; advancing state
// after the fixture is the propagation engine's job.
func Solve(roster []model.Player, fx model.Fixture, prices map[model.PlayerID]float64, prev *model.Assignment, params *config.Params) (*model.Assignment, error) {
	if err := CheckConstraints(roster, fx); err != nil {
		return nil, err
	}

	m, err := Build(roster, fx, prices, prev, params)
	if err != nil {
		return nil, err
	}

	if err := precheck(m); err != nil {
		return nil, err
	}

	cost := make([][]float64, len(m.Cells))
	for i, row := range m.Cells {
		cost[i] = make([]float64, len(row))
		for j, cell := range row {
			cost[i][j] = cell.Cost
		}
	}

	assignment := minCostAssign(cost)

	return assemble(m, assignment)
}

// precheck catches structurally infeasible slots and players before the
// matcher runs, so the error can name the culprit precisely.
func precheck(m *Matrix) error {
	s := m.SlotCount()

	for j := 0; j < s; j++ {
		feasible := false
		for i := range m.Cells {
			if !m.Cells[i][j].Forbidden {
				feasible = true
				break
			}
		}
		if !feasible {
			slot := m.Fixture.Formation.Slots[j]
			return &model.InfeasibleAssignmentError{
				FixtureIndex: m.Fixture.Index,
				SlotName:     slot.Name,
				Reason:       slotInfeasibilityReason(m, j),
			}
		}
	}

	for i := range m.Cells {
		feasible := false
		for j := range m.Cells[i] {
			if !m.Cells[i][j].Forbidden {
				feasible = true
				break
			}
		}
		if !feasible {
			return &model.InfeasibleAssignmentError{
				FixtureIndex: m.Fixture.Index,
				Reason:       fmt.Sprintf("player %q has no feasible destination (no rest sink available)", m.Roster[i].ID),
			}
		}
	}

	return nil
}

func slotInfeasibilityReason(m *Matrix, j int) string {
	slot := m.Fixture.Formation.Slots[j]

	available := 0
	for i := range m.Roster {
		p := &m.Roster[i]
		if !p.Available() || m.Fixture.Constraints.IsForcedRest(p.ID) {
			continue
		}
		if (slot.Role == model.RoleGK) != p.Goalkeeper {
			continue
		}
		available++
	}

	if available == 0 {
		return "no available player can fill this slot"
	}
	return fmt.Sprintf("constraints forbid all %d available candidates", available)
}

// assemble converts the matcher's row-to-column result into an Assignment,
// rejecting any solution that resorted to a forbidden cell.
func assemble(m *Matrix, assignment []int) (*model.Assignment, error) {
	s := m.SlotCount()

	out := &model.Assignment{
		FixtureIndex: m.Fixture.Index,
		Starters:     make(map[int]model.PlayerID, s),
		Breakdown:    make(map[int]model.CellBreakdown, s),
	}

	for i, j := range assignment {
		cell := m.Cells[i][j]

		if cell.Forbidden {
			if j < s {
				slot := m.Fixture.Formation.Slots[j]
				return nil, &model.InfeasibleAssignmentError{
					FixtureIndex: m.Fixture.Index,
					SlotName:     slot.Name,
					Reason:       slotInfeasibilityReason(m, j),
				}
			}
			return nil, &model.InfeasibleAssignmentError{
				FixtureIndex: m.Fixture.Index,
				Reason:       fmt.Sprintf("player %q could only be matched to a forbidden rest sink", m.Roster[i].ID),
			}
		}

		if j < s {
			out.Starters[j] = m.Roster[i].ID
			out.Breakdown[j] = model.CellBreakdown{
				GSS:          cell.GSS,
				ShadowPrice:  cell.Shadow,
				StabilityAdj: cell.Stability,
				Cost:         cell.Cost,
			}
			out.TotalGSS += cell.GSS
		} else {
			out.Rested = append(out.Rested, m.Roster[i].ID)
		}
	}

	// Every slot must be covered by the perfect matching; anything else is
	// a solver bug, not an input problem.
	if len(out.Starters) != s {
		return nil, &model.InfeasibleAssignmentError{
			FixtureIndex: m.Fixture.Index,
			Reason:       fmt.Sprintf("matching covered %d of %d slots", len(out.Starters), s),
		}
	}

	return out, nil
}
