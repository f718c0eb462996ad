package lineup

import (
	"fmt"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/scoring"
)

// Cell is one entry of the assignment cost matrix.
type Cell struct {
	Cost      float64
	Forbidden bool
	// FloorOnly marks a cell forbidden solely by the hard condition floor,
	// so the floor-override relaxation knows which cells it may re-admit.
	FloorOnly bool

	GSS       float64
	Shadow    float64
	Stability float64

	// floorCost preserves the computed cost of a FloorOnly cell so the
	// override relaxation can restore it.
	floorCost float64
}

// Matrix is the square cost matrix for one fixture: one row per player, one
// column per formation slot plus one rest sink per surplus player. Rest
// sinks are ordinary columns with their own cost formula, which reduces
// "some players are unassigned" to a perfect matching.
type Matrix struct {
	Roster    []model.Player
	Fixture   model.Fixture
	RestSinks int
	Cells     [][]Cell
}

// SlotCount returns the number of real formation slots.
func (m *Matrix) SlotCount() int {
	return len(m.Fixture.Formation.Slots)
}

// Build constructs the cost matrix for a fixture. prev is the immediately
// preceding fixture's assignment (nil for the first fixture) and feeds the
// positional-continuity term. Constraint conflicts must have been rejected
// by CheckConstraints before this is called.
func Build(roster []model.Player, fx model.Fixture, prices map[model.PlayerID]float64, prev *model.Assignment, params *config.Params) (*Matrix, error) {
	n := len(roster)
	s := len(fx.Formation.Slots)

	if n < s {
		return nil, &model.InfeasibleAssignmentError{
			FixtureIndex: fx.Index,
			Reason:       fmt.Sprintf("roster has %d players for %d slots", n, s),
		}
	}

	// Score every (player, slot) pair up front; the cost transform needs
	// the fixture-wide maximum so higher utility maps to lower cost.
	scores := make([][]scoring.Score, n)
	maxGSS := 0.0
	for i := range roster {
		scores[i] = make([]scoring.Score, s)
		for j, slot := range fx.Formation.Slots {
			score, err := scoring.GSS(&roster[i], slot, fx.Importance, params)
			if err != nil {
				return nil, err
			}
			scores[i][j] = score
			if score.Value > maxGSS {
				maxGSS = score.Value
			}
		}
	}

	// The goalkeeper restriction relaxes only when no eligible goalkeeper
	// remains, to avoid needless infeasibility.
	gkAvailable := 0
	for i := range roster {
		if roster[i].Goalkeeper && roster[i].Available() && !fx.Constraints.IsForcedRest(roster[i].ID) {
			gkAvailable++
		}
	}
	relaxGK := gkAvailable == 0

	lockedSlots := make(map[int]model.PlayerID, len(fx.Constraints.Locks))
	for id, slot := range fx.Constraints.Locks {
		lockedSlots[slot] = id
	}

	m := &Matrix{
		Roster:    roster,
		Fixture:   fx,
		RestSinks: n - s,
		Cells:     make([][]Cell, n),
	}
	ip := params.Importance[fx.Importance]

	for i := range roster {
		p := &roster[i]
		row := make([]Cell, s+m.RestSinks)

		lockSlot, locked := fx.Constraints.Locks[p.ID]
		mustRest := !p.Available() || fx.Constraints.IsForcedRest(p.ID)
		price := prices[p.ID]

		for j, slot := range fx.Formation.Slots {
			cell := Cell{GSS: scores[i][j].Value, Shadow: price}

			if locked && j == lockSlot {
				// A lock pins the cell at minimum cost; every other
				// destination for this player is forbidden below.
				row[j] = cell
				continue
			}

			hardReason := false
			switch {
			case mustRest:
				hardReason = true
			case locked:
				hardReason = true
			case fx.Constraints.IsRejected(p.ID, j):
				hardReason = true
			case slot.Role == model.RoleGK && !p.Goalkeeper && !relaxGK:
				hardReason = true
			case slot.Role != model.RoleGK && p.Goalkeeper:
				hardReason = true
			}

			if _, taken := lockedSlots[j]; taken {
				hardReason = true
			}

			if hardReason {
				cell.Forbidden = true
				cell.Cost = params.ForbiddenCost
				row[j] = cell
				continue
			}

			cell.Stability = stabilityAdjustment(p.ID, j, prev, params)
			cell.Cost = (maxGSS - scores[i][j].Value) + price + cell.Stability

			if scores[i][j].BelowFloor {
				cell.Forbidden = true
				cell.FloorOnly = true
				cell.floorCost = cell.Cost
				cell.Cost = params.ForbiddenCost
			}

			row[j] = cell
		}

		restCell := Cell{}
		switch {
		case locked:
			restCell.Forbidden = true
			restCell.Cost = params.ForbiddenCost
		case mustRest:
			restCell.Cost = 0
		default:
			restCell.Cost = restCost(p, scores[i], fx, ip, params)
		}
		for j := s; j < s+m.RestSinks; j++ {
			row[j] = restCell
		}

		m.Cells[i] = row
	}

	if params.AllowFloorOverride {
		relaxFloor(m)
	}

	return m, nil
}

// restCost prices a player's rest sink. Resting the squad's best options is
// expensive; resting loaded or rusty players is cheap, and more so in
// low-stakes fixtures.
func restCost(p *model.Player, scores []scoring.Score, fx model.Fixture, ip config.ImportanceParams, params *config.Params) float64 {
	sum, count := 0.0, 0
	for j, slot := range fx.Formation.Slots {
		if (slot.Role == model.RoleGK) != p.Goalkeeper {
			continue
		}
		sum += scores[j].Value
		count++
	}
	avg := 0.0
	if count > 0 {
		avg = sum / float64(count)
	}

	relief := loadRelief(p.Load)
	rust := 1 - p.Sharpness

	cost := avg - ip.RestWeight*(relief*params.FatigueReliefScale+rust*params.RustReliefScale)
	if cost < 0 {
		return 0
	}
	return cost
}

// loadRelief is the fatigue-relief value of resting a player in each load
// state.
func loadRelief(l model.LoadState) float64 {
	switch l {
	case model.LoadJaded:
		return 1.0
	case model.LoadTired:
		return 0.6
	case model.LoadFit:
		return 0.25
	default:
		return 0
	}
}

// stabilityAdjustment discounts cost when the slot matches the player's slot
// in the previous fixture and penalizes moving a retained starter to a
// different slot. Players who did not start the previous fixture are
// neutral.
func stabilityAdjustment(id model.PlayerID, slot int, prev *model.Assignment, params *config.Params) float64 {
	prevSlot, started := prev.SlotOf(id)
	if !started {
		return 0
	}
	if prevSlot == slot {
		return -params.StabilityBonus
	}
	return params.StabilityPenalty
}

// relaxFloor re-admits below-floor players for any slot whose candidates are
// otherwise all forbidden. Only cells forbidden purely by the hard condition
// floor are eligible.
func relaxFloor(m *Matrix) {
	for j := 0; j < m.SlotCount(); j++ {
		feasible := false
		for i := range m.Cells {
			if !m.Cells[i][j].Forbidden {
				feasible = true
				break
			}
		}
		if feasible {
			continue
		}
		for i := range m.Cells {
			if m.Cells[i][j].FloorOnly {
				cell := &m.Cells[i][j]
				cell.Forbidden = false
				cell.FloorOnly = false
				cell.Cost = cell.floorCost
			}
		}
	}
}
