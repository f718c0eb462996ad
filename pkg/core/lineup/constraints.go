package lineup

import (
	"fmt"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

// CheckConstraints rejects contradictory or malformed constraint sets before
// any cost matrix is built. Conflicts carry the specific pair so the caller
// can fix the input.
func CheckConstraints(roster []model.Player, fx model.Fixture) error {
	byID := make(map[model.PlayerID]*model.Player, len(roster))
	for i := range roster {
		byID[roster[i].ID] = &roster[i]
	}
	slotCount := len(fx.Formation.Slots)

	for _, id := range fx.Constraints.ForcedRest {
		if byID[id] == nil {
			return &model.ValidationError{
				Subject: fmt.Sprintf("fixture %d constraints", fx.Index),
				Field:   "forcedRest",
				Reason:  fmt.Sprintf("unknown player %q", id),
			}
		}
	}

	lockedSlots := make(map[int]model.PlayerID, len(fx.Constraints.Locks))
	for id, slot := range fx.Constraints.Locks {
		p := byID[id]
		if p == nil {
			return &model.ValidationError{
				Subject: fmt.Sprintf("fixture %d constraints", fx.Index),
				Field:   "locks",
				Reason:  fmt.Sprintf("unknown player %q", id),
			}
		}
		if slot < 0 || slot >= slotCount {
			return &model.ValidationError{
				Subject: fmt.Sprintf("fixture %d constraints", fx.Index),
				Field:   "locks",
				Reason:  fmt.Sprintf("slot index %d out of range for player %q", slot, id),
			}
		}
		if other, taken := lockedSlots[slot]; taken {
			return &model.ConstraintConflictError{
				Player: id,
				Slot:   slot,
				Reason: fmt.Sprintf("slot already locked to player %q", other),
			}
		}
		lockedSlots[slot] = id

		if !p.Available() {
			return &model.ConstraintConflictError{
				Player: id,
				Slot:   slot,
				Reason: "player is locked into a slot but is unavailable",
			}
		}
		if fx.Constraints.IsForcedRest(id) {
			return &model.ConstraintConflictError{
				Player: id,
				Slot:   slot,
				Reason: "player is locked into a slot but also forced to rest",
			}
		}
	}

	for _, r := range fx.Constraints.Rejections {
		if byID[r.Player] == nil {
			return &model.ValidationError{
				Subject: fmt.Sprintf("fixture %d constraints", fx.Index),
				Field:   "rejections",
				Reason:  fmt.Sprintf("unknown player %q", r.Player),
			}
		}
		if r.Slot < 0 || r.Slot >= slotCount {
			return &model.ValidationError{
				Subject: fmt.Sprintf("fixture %d constraints", fx.Index),
				Field:   "rejections",
				Reason:  fmt.Sprintf("slot index %d out of range for player %q", r.Slot, r.Player),
			}
		}
		if locked, ok := fx.Constraints.Locks[r.Player]; ok && locked == r.Slot {
			return &model.ConstraintConflictError{
				Player: r.Player,
				Slot:   r.Slot,
				Reason: "pair is both locked and rejected",
			}
		}
	}

	return nil
}
