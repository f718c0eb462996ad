package model

import "time"

// PlayerID uniquely identifies a player within a roster.
type PlayerID string

// Role is a formation position role (goalkeeper, centre back, striker, ...)
type Role string

const (
	RoleGK  Role = "GK"
	RoleDR  Role = "DR"
	RoleDC  Role = "DC"
	RoleDL  Role = "DL"
	RoleWBR Role = "WBR"
	RoleWBL Role = "WBL"
	RoleDM  Role = "DM"
	RoleMR  Role = "MR"
	RoleMC  Role = "MC"
	RoleML  Role = "ML"
	RoleAMR Role = "AMR"
	RoleAMC Role = "AMC"
	RoleAML Role = "AML"
	RoleST  Role = "ST"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleGK, RoleDR, RoleDC, RoleDL, RoleWBR, RoleWBL, RoleDM,
		RoleMR, RoleMC, RoleML, RoleAMR, RoleAMC, RoleAML, RoleST:
		return true
	}
	return false
}

// Importance is the stakes level of a fixture. It drives the shape of the
// selection curves, the shadow-pricing weight and how attractive rest is.
type Importance string

const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
	ImportanceLow    Importance = "Low"
	// ImportanceSharpnessBuilding marks fixtures deliberately used to route
	// minutes toward rusty players (friendlies, cup dead rubbers).
	ImportanceSharpnessBuilding Importance = "SharpnessBuilding"
)

func (i Importance) IsValid() bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow, ImportanceSharpnessBuilding:
		return true
	}
	return false
}

// LoadState is the accumulated-fatigue category derived from the rolling
// minutes window. Jaded is sticky: it is only cleared by an extended no-play
// period, not by a single rest day.
type LoadState string

const (
	LoadFresh LoadState = "Fresh"
	LoadFit   LoadState = "Fit"
	LoadTired LoadState = "Tired"
	LoadJaded LoadState = "Jaded"
)

func (l LoadState) IsValid() bool {
	switch l {
	case LoadFresh, LoadFit, LoadTired, LoadJaded:
		return true
	}
	return false
}

// FamiliarityTier buckets a 0-1 positional familiarity score.
type FamiliarityTier string

const (
	TierNatural      FamiliarityTier = "Natural"
	TierAccomplished FamiliarityTier = "Accomplished"
	TierCompetent    FamiliarityTier = "Competent"
	TierUnconvincing FamiliarityTier = "Unconvincing"
	TierAwkward      FamiliarityTier = "Awkward"
)

// TierForFamiliarity maps a familiarity score to its display tier.
func TierForFamiliarity(f float64) FamiliarityTier {
	switch {
	case f >= 0.9:
		return TierNatural
	case f >= 0.7:
		return TierAccomplished
	case f >= 0.5:
		return TierCompetent
	case f >= 0.3:
		return TierUnconvincing
	default:
		return TierAwkward
	}
}

// RoleRating is a player's base capability in a role, split into the
// in-possession and out-of-possession phases (0-200 scale).
type RoleRating struct {
	InPossession    float64
	OutOfPossession float64
}

// RoleFamiliarity is how settled a player is in a role, per phase (0-1).
type RoleFamiliarity struct {
	InPossession    float64
	OutOfPossession float64
}

// MinutesEntry is one appearance inside the rolling minutes window.
type MinutesEntry struct {
	// DaysAgo is measured from the current simulation date.
	DaysAgo int
	Minutes int
}

// Player carries identity, ratings and the perishable state the propagation
// engine advances between fixtures. Only the propagation engine mutates the
// perishable fields once planning has started.
type Player struct {
	ID   PlayerID
	Name string
	Age  int

	// Stamina and NaturalFitness are 1-20 attributes. Stamina moderates the
	// condition drained per 90; NaturalFitness moderates recovery per day.
	Stamina        float64
	NaturalFitness float64

	Goalkeeper bool
	Injured    bool
	Suspended  bool

	// Condition is short-term match readiness (0-1). Sharpness is
	// match-fitness from recent competitive minutes (0-1).
	Condition float64
	Sharpness float64

	Ratings     map[Role]RoleRating
	Familiarity map[Role]RoleFamiliarity

	// MinutesWindow holds recent appearances; entries older than the
	// configured window are aged out by the propagation engine.
	MinutesWindow     []MinutesEntry
	ConsecutiveStarts int

	Load LoadState

	// Jaded is the sticky overload flag; JadedRestDays counts consecutive
	// no-play days accumulated toward clearing it.
	Jaded         bool
	JadedRestDays int
}

// Available reports whether the player can be picked at all.
func (p *Player) Available() bool {
	return !p.Injured && !p.Suspended
}

// WindowMinutes sums the minutes still inside the rolling window.
func (p *Player) WindowMinutes(windowDays int) int {
	total := 0
	for _, e := range p.MinutesWindow {
		if e.DaysAgo < windowDays {
			total += e.Minutes
		}
	}
	return total
}

// Clone returns a copy safe to advance independently of the original. The
// rating and familiarity maps are shared because nothing mutates them.
func (p *Player) Clone() Player {
	out := *p
	if p.MinutesWindow != nil {
		out.MinutesWindow = make([]MinutesEntry, len(p.MinutesWindow))
		copy(out.MinutesWindow, p.MinutesWindow)
	}
	return out
}

// BestRating returns the player's strongest in-possession rating across all
// rated roles. Used as the reference point when scoring unrated roles.
func (p *Player) BestRating() float64 {
	best := 0.0
	for _, r := range p.Ratings {
		if r.InPossession > best {
			best = r.InPossession
		}
		if r.OutOfPossession > best {
			best = r.OutOfPossession
		}
	}
	return best
}

// Slot is one named position in a fixture's formation.
type Slot struct {
	Index int
	Name  string
	Role  Role
}

// Formation is the ordered list of slots a fixture must fill. Exactly eleven
// slots, exactly one of them a goalkeeper role.
type Formation struct {
	Name  string
	Slots []Slot
}

// GoalkeeperSlot returns the index of the GK slot, or -1 if absent.
func (f Formation) GoalkeeperSlot() int {
	for _, s := range f.Slots {
		if s.Role == RoleGK {
			return s.Index
		}
	}
	return -1
}

// RejectedPair is a user veto: this player must not fill this slot.
type RejectedPair struct {
	Player PlayerID
	Slot   int
}

// Constraints is the per-fixture hard-requirement set. Read-only to the core.
type Constraints struct {
	// ForcedRest players may only be matched to rest sinks.
	ForcedRest []PlayerID
	// Locks force a player into a specific slot index.
	Locks map[PlayerID]int
	// Rejections forbid individual (player, slot) pairings.
	Rejections []RejectedPair
}

// IsForcedRest reports whether the player appears in the forced-rest list.
func (c Constraints) IsForcedRest(id PlayerID) bool {
	for _, p := range c.ForcedRest {
		if p == id {
			return true
		}
	}
	return false
}

// IsRejected reports whether the (player, slot) pair is vetoed.
func (c Constraints) IsRejected(id PlayerID, slot int) bool {
	for _, r := range c.Rejections {
		if r.Player == id && r.Slot == slot {
			return true
		}
	}
	return false
}

// Fixture is one scheduled event in the planning horizon.
type Fixture struct {
	Index       int
	Date        time.Time
	Importance  Importance
	Formation   Formation
	Constraints Constraints
}

// CellBreakdown records the components behind one chosen (player, slot) cell
// so callers can render an explanation. The core itself never renders.
type CellBreakdown struct {
	GSS          float64
	ShadowPrice  float64
	StabilityAdj float64
	Cost         float64
}

// Assignment is the solved lineup for one fixture. Immutable once produced.
type Assignment struct {
	FixtureIndex int
	// Starters maps slot index to the player filling it.
	Starters map[int]PlayerID
	// Rested lists every player matched to a rest sink.
	Rested []PlayerID
	// Breakdown is keyed by slot index.
	Breakdown map[int]CellBreakdown
	TotalGSS  float64
}

// SlotOf returns the slot index the player starts in, if any.
func (a *Assignment) SlotOf(id PlayerID) (int, bool) {
	if a == nil {
		return 0, false
	}
	for slot, pid := range a.Starters {
		if pid == id {
			return slot, true
		}
	}
	return 0, false
}

// Started reports whether the player starts this fixture.
func (a *Assignment) Started(id PlayerID) bool {
	_, ok := a.SlotOf(id)
	return ok
}
