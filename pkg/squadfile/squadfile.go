// Package squadfile loads a squad snapshot file: the roster with current
// player state, the fixture horizon and per-fixture constraint sets. This is
// the concrete form of the optimizer's input interface; where the data comes
// from upstream is out of scope.
package squadfile

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

const dateLayout = "2006-01-02"

// Squad is the decoded snapshot, ready for the planner.
type Squad struct {
	Players  []model.Player
	Fixtures []model.Fixture
}

// File is the YAML document shape.
type File struct {
	Formations map[string][]SlotEntry `yaml:"formations" validate:"required"`
	Players    []PlayerEntry          `yaml:"players" validate:"required,min=1,dive"`
	Fixtures   []FixtureEntry         `yaml:"fixtures" validate:"dive"`
	Schedule   *ScheduleEntry         `yaml:"schedule"`
}

type SlotEntry struct {
	Name string `yaml:"name" validate:"required"`
	Role string `yaml:"role" validate:"required"`
}

type RatingEntry struct {
	InPossession    float64 `yaml:"inPossession" validate:"gte=0"`
	OutOfPossession float64 `yaml:"outOfPossession" validate:"gte=0"`
}

type FamiliarityEntry struct {
	InPossession    float64 `yaml:"inPossession" validate:"gte=0,lte=1"`
	OutOfPossession float64 `yaml:"outOfPossession" validate:"gte=0,lte=1"`
}

type MinutesEntry struct {
	DaysAgo int `yaml:"daysAgo" validate:"gte=0"`
	Minutes int `yaml:"minutes" validate:"gte=0"`
}

type PlayerEntry struct {
	ID             string                      `yaml:"id" validate:"required"`
	Name           string                      `yaml:"name"`
	Age            int                         `yaml:"age" validate:"gte=15,lte=45"`
	Stamina        float64                     `yaml:"stamina" validate:"gte=1,lte=20"`
	NaturalFitness float64                     `yaml:"naturalFitness" validate:"gte=1,lte=20"`
	Goalkeeper     bool                        `yaml:"goalkeeper"`
	Injured        bool                        `yaml:"injured"`
	Suspended      bool                        `yaml:"suspended"`
	Condition      float64                     `yaml:"condition" validate:"gte=0,lte=1"`
	Sharpness      float64                     `yaml:"sharpness" validate:"gte=0,lte=1"`
	Ratings        map[string]RatingEntry      `yaml:"ratings" validate:"required,min=1"`
	Familiarity    map[string]FamiliarityEntry `yaml:"familiarity"`
	RecentMinutes  []MinutesEntry              `yaml:"recentMinutes" validate:"dive"`
}

type RejectionEntry struct {
	Player string `yaml:"player" validate:"required"`
	Slot   int    `yaml:"slot" validate:"gte=0"`
}

type FixtureEntry struct {
	Date       string           `yaml:"date" validate:"required"`
	Importance string           `yaml:"importance" validate:"required"`
	Formation  string           `yaml:"formation" validate:"required"`
	ForcedRest []string         `yaml:"forcedRest"`
	Locks      map[string]int   `yaml:"locks"`
	Rejections []RejectionEntry `yaml:"rejections" validate:"dive"`
}

// ScheduleEntry generates additional fixtures from a recurrence rule, e.g.
// FREQ=WEEKLY;BYDAY=SA for a Saturday league schedule.
type ScheduleEntry struct {
	RRule      string `yaml:"rrule" validate:"required"`
	Start      string `yaml:"start" validate:"required"`
	Count      int    `yaml:"count" validate:"gt=0"`
	Importance string `yaml:"importance" validate:"required"`
	Formation  string `yaml:"formation" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load reads, validates and decodes a squad file into model types.
func Load(path string) (*Squad, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read squad file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a squad document from YAML bytes.
func Parse(data []byte) (*Squad, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse squad file: %w", err)
	}

	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("squad file validation failed: %w", err)
	}

	formations, err := buildFormations(f.Formations)
	if err != nil {
		return nil, err
	}

	players, err := buildPlayers(f.Players)
	if err != nil {
		return nil, err
	}

	fixtures, err := buildFixtures(&f, formations)
	if err != nil {
		return nil, err
	}

	return &Squad{Players: players, Fixtures: fixtures}, nil
}

func buildFormations(entries map[string][]SlotEntry) (map[string]model.Formation, error) {
	formations := make(map[string]model.Formation, len(entries))

	for name, slots := range entries {
		if len(slots) != 11 {
			return nil, &model.ValidationError{
				Subject: "formation " + name,
				Field:   "slots",
				Reason:  fmt.Sprintf("a formation needs exactly 11 slots, got %d", len(slots)),
			}
		}

		formation := model.Formation{Name: name, Slots: make([]model.Slot, len(slots))}
		gkCount := 0
		for i, s := range slots {
			role := model.Role(s.Role)
			if !role.IsValid() {
				return nil, &model.ValidationError{
					Subject: "formation " + name,
					Field:   "slots",
					Reason:  fmt.Sprintf("unknown role %q", s.Role),
				}
			}
			if role == model.RoleGK {
				gkCount++
			}
			formation.Slots[i] = model.Slot{Index: i, Name: s.Name, Role: role}
		}

		if gkCount != 1 {
			return nil, &model.ValidationError{
				Subject: "formation " + name,
				Field:   "slots",
				Reason:  fmt.Sprintf("a formation needs exactly one goalkeeper slot, got %d", gkCount),
			}
		}

		formations[name] = formation
	}

	return formations, nil
}

func buildPlayers(entries []PlayerEntry) ([]model.Player, error) {
	players := make([]model.Player, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if seen[e.ID] {
			return nil, &model.ValidationError{
				Subject: "players",
				Field:   "id",
				Reason:  fmt.Sprintf("duplicate player id %q", e.ID),
			}
		}
		seen[e.ID] = true

		p := model.Player{
			ID:             model.PlayerID(e.ID),
			Name:           e.Name,
			Age:            e.Age,
			Stamina:        e.Stamina,
			NaturalFitness: e.NaturalFitness,
			Goalkeeper:     e.Goalkeeper,
			Injured:        e.Injured,
			Suspended:      e.Suspended,
			Condition:      e.Condition,
			Sharpness:      e.Sharpness,
			Ratings:        make(map[model.Role]model.RoleRating, len(e.Ratings)),
			Familiarity:    make(map[model.Role]model.RoleFamiliarity, len(e.Familiarity)),
			Load:           model.LoadFresh,
		}

		for roleName, r := range e.Ratings {
			role := model.Role(roleName)
			if !role.IsValid() {
				return nil, &model.ValidationError{
					Subject: "player " + e.ID,
					Field:   "ratings",
					Reason:  fmt.Sprintf("unknown role %q", roleName),
				}
			}
			p.Ratings[role] = model.RoleRating{InPossession: r.InPossession, OutOfPossession: r.OutOfPossession}
		}

		for roleName, fam := range e.Familiarity {
			role := model.Role(roleName)
			if !role.IsValid() {
				return nil, &model.ValidationError{
					Subject: "player " + e.ID,
					Field:   "familiarity",
					Reason:  fmt.Sprintf("unknown role %q", roleName),
				}
			}
			p.Familiarity[role] = model.RoleFamiliarity{InPossession: fam.InPossession, OutOfPossession: fam.OutOfPossession}
		}

		for _, m := range e.RecentMinutes {
			p.MinutesWindow = append(p.MinutesWindow, model.MinutesEntry{DaysAgo: m.DaysAgo, Minutes: m.Minutes})
		}

		players = append(players, p)
	}

	return players, nil
}

func buildFixtures(f *File, formations map[string]model.Formation) ([]model.Fixture, error) {
	fixtures := make([]model.Fixture, 0, len(f.Fixtures))

	for i, e := range f.Fixtures {
		fx, err := buildFixture(e, formations)
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		fixtures = append(fixtures, fx)
	}

	if f.Schedule != nil {
		generated, err := expandSchedule(f.Schedule, formations)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, generated...)
	}

	sort.SliceStable(fixtures, func(i, j int) bool {
		return fixtures[i].Date.Before(fixtures[j].Date)
	})
	for i := range fixtures {
		fixtures[i].Index = i
	}

	return fixtures, nil
}

func buildFixture(e FixtureEntry, formations map[string]model.Formation) (model.Fixture, error) {
	date, err := time.Parse(dateLayout, e.Date)
	if err != nil {
		return model.Fixture{}, fmt.Errorf("invalid date %q: %w", e.Date, err)
	}

	importance := model.Importance(e.Importance)
	if !importance.IsValid() {
		return model.Fixture{}, &model.ValidationError{
			Subject: "fixture " + e.Date,
			Field:   "importance",
			Reason:  fmt.Sprintf("unknown importance %q", e.Importance),
		}
	}

	formation, ok := formations[e.Formation]
	if !ok {
		return model.Fixture{}, &model.ValidationError{
			Subject: "fixture " + e.Date,
			Field:   "formation",
			Reason:  fmt.Sprintf("unknown formation %q", e.Formation),
		}
	}

	constraints := model.Constraints{}
	for _, id := range e.ForcedRest {
		constraints.ForcedRest = append(constraints.ForcedRest, model.PlayerID(id))
	}
	if len(e.Locks) > 0 {
		constraints.Locks = make(map[model.PlayerID]int, len(e.Locks))
		for id, slot := range e.Locks {
			constraints.Locks[model.PlayerID(id)] = slot
		}
	}
	for _, r := range e.Rejections {
		constraints.Rejections = append(constraints.Rejections, model.RejectedPair{
			Player: model.PlayerID(r.Player),
			Slot:   r.Slot,
		})
	}

	return model.Fixture{
		Date:        date,
		Importance:  importance,
		Formation:   formation,
		Constraints: constraints,
	}, nil
}

// expandSchedule turns a recurrence rule into concrete fixtures: parse the
// rule, anchor DTSTART, enumerate occurrences.
func expandSchedule(s *ScheduleEntry, formations map[string]model.Formation) ([]model.Fixture, error) {
	start, err := time.Parse(dateLayout, s.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule start %q: %w", s.Start, err)
	}

	rule, err := rrule.StrToRRule(s.RRule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule rrule: %w", err)
	}
	rule.DTStart(start)

	importance := model.Importance(s.Importance)
	if !importance.IsValid() {
		return nil, &model.ValidationError{
			Subject: "schedule",
			Field:   "importance",
			Reason:  fmt.Sprintf("unknown importance %q", s.Importance),
		}
	}

	formation, ok := formations[s.Formation]
	if !ok {
		return nil, &model.ValidationError{
			Subject: "schedule",
			Field:   "formation",
			Reason:  fmt.Sprintf("unknown formation %q", s.Formation),
		}
	}

	// Two years is comfortably beyond any planning horizon.
	occurrences := rule.Between(start, start.AddDate(2, 0, 0), true)
	if len(occurrences) > s.Count {
		occurrences = occurrences[:s.Count]
	}
	if len(occurrences) < s.Count {
		return nil, &model.ValidationError{
			Subject: "schedule",
			Field:   "rrule",
			Reason:  fmt.Sprintf("rule yields %d occurrences, %d requested", len(occurrences), s.Count),
		}
	}

	fixtures := make([]model.Fixture, len(occurrences))
	for i, date := range occurrences {
		fixtures[i] = model.Fixture{
			Date:       date,
			Importance: importance,
			Formation:  formation,
		}
	}

	return fixtures, nil
}
