package squadfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

const formationsBlock = `
formations:
  4-4-2:
    - {name: GK, role: GK}
    - {name: DR, role: DR}
    - {name: DCR, role: DC}
    - {name: DCL, role: DC}
    - {name: DL, role: DL}
    - {name: MR, role: MR}
    - {name: MCR, role: MC}
    - {name: MCL, role: MC}
    - {name: ML, role: ML}
    - {name: STR, role: ST}
    - {name: STL, role: ST}
`

func playersBlock(n int) string {
	var b strings.Builder
	b.WriteString("players:\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `
  - id: p%d
    name: Player %d
    age: 24
    stamina: 14
    naturalFitness: 14
    condition: 0.95
    sharpness: 0.8
    ratings:
      MC: {inPossession: 140, outOfPossession: 130}
    familiarity:
      MC: {inPossession: 1, outOfPossession: 0.9}
`, i, i)
	}
	return b.String()
}

func TestParse_FullDocument(t *testing.T) {
	doc := formationsBlock + playersBlock(2) + `
fixtures:
  - date: 2026-04-18
    importance: High
    formation: 4-4-2
    forcedRest: [p0]
    locks:
      p1: 6
    rejections:
      - {player: p0, slot: 7}
  - date: 2026-04-11
    importance: Medium
    formation: 4-4-2
`

	squad, err := Parse([]byte(doc))
	require.NoError(t, err)

	require.Len(t, squad.Players, 2)
	p := squad.Players[0]
	assert.Equal(t, model.PlayerID("p0"), p.ID)
	assert.Equal(t, model.LoadFresh, p.Load)
	assert.InDelta(t, 140.0, p.Ratings[model.RoleMC].InPossession, 1e-9)
	assert.InDelta(t, 0.9, p.Familiarity[model.RoleMC].OutOfPossession, 1e-9)

	// Fixtures come back date-sorted and reindexed.
	require.Len(t, squad.Fixtures, 2)
	assert.Equal(t, 0, squad.Fixtures[0].Index)
	assert.Equal(t, model.ImportanceMedium, squad.Fixtures[0].Importance)
	assert.Equal(t, time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC), squad.Fixtures[0].Date)

	high := squad.Fixtures[1]
	assert.Equal(t, 1, high.Index)
	assert.Equal(t, []model.PlayerID{"p0"}, high.Constraints.ForcedRest)
	assert.Equal(t, map[model.PlayerID]int{"p1": 6}, high.Constraints.Locks)
	assert.Equal(t, []model.RejectedPair{{Player: "p0", Slot: 7}}, high.Constraints.Rejections)
	require.Len(t, high.Formation.Slots, 11)
	assert.Equal(t, model.RoleGK, high.Formation.Slots[0].Role)
}

func TestParse_RecentMinutes(t *testing.T) {
	doc := formationsBlock + `
players:
  - id: p0
    age: 24
    stamina: 14
    naturalFitness: 14
    condition: 0.95
    sharpness: 0.8
    ratings:
      MC: {inPossession: 140, outOfPossession: 130}
    recentMinutes:
      - {daysAgo: 3, minutes: 90}
      - {daysAgo: 10, minutes: 45}
`

	squad, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, squad.Players[0].MinutesWindow, 2)
	assert.Equal(t, 135, squad.Players[0].WindowMinutes(28))
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squad.yaml")
	doc := formationsBlock + playersBlock(1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	squad, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, squad.Players, 1)
	assert.Empty(t, squad.Fixtures)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read squad file")
}

func TestParse_ScheduleExpansion(t *testing.T) {
	doc := formationsBlock + playersBlock(1) + `
schedule:
  rrule: FREQ=WEEKLY;BYDAY=SA
  start: 2026-04-04
  count: 4
  importance: Medium
  formation: 4-4-2
`

	squad, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, squad.Fixtures, 4)

	for i, fx := range squad.Fixtures {
		assert.Equal(t, i, fx.Index)
		assert.Equal(t, model.ImportanceMedium, fx.Importance)
		assert.Equal(t, time.Saturday, fx.Date.Weekday())
	}
	assert.Equal(t, 7*24*time.Hour, squad.Fixtures[1].Date.Sub(squad.Fixtures[0].Date))
}

func TestParse_ScheduleMergesWithExplicitFixtures(t *testing.T) {
	doc := formationsBlock + playersBlock(1) + `
fixtures:
  - date: 2026-04-08
    importance: High
    formation: 4-4-2
schedule:
  rrule: FREQ=WEEKLY;BYDAY=SA
  start: 2026-04-04
  count: 2
  importance: Low
  formation: 4-4-2
`

	squad, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, squad.Fixtures, 3)

	// 2026-04-04 Sat, 2026-04-08 Wed, 2026-04-11 Sat.
	assert.Equal(t, model.ImportanceLow, squad.Fixtures[0].Importance)
	assert.Equal(t, model.ImportanceHigh, squad.Fixtures[1].Importance)
	assert.Equal(t, model.ImportanceLow, squad.Fixtures[2].Importance)
	for i, fx := range squad.Fixtures {
		assert.Equal(t, i, fx.Index)
	}
}

func TestParse_ScheduleBadRule(t *testing.T) {
	doc := formationsBlock + playersBlock(1) + `
schedule:
  rrule: FREQ=NONSENSE
  start: 2026-04-04
  count: 4
  importance: Medium
  formation: 4-4-2
`

	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rrule")
}

func TestParse_ScheduleTooFewOccurrences(t *testing.T) {
	doc := formationsBlock + playersBlock(1) + `
schedule:
  rrule: FREQ=WEEKLY;BYDAY=SA;COUNT=2
  start: 2026-04-04
  count: 10
  importance: Medium
  formation: 4-4-2
`

	_, err := Parse([]byte(doc))
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestParse_RejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "not yaml",
			doc:  "{{{{",
			want: "failed to parse",
		},
		{
			name: "no players",
			doc:  formationsBlock + "players: []\n",
			want: "validation failed",
		},
		{
			name: "wrong slot count",
			doc: `
formations:
  tiny:
    - {name: GK, role: GK}
    - {name: ST, role: ST}
` + playersBlock(1),
			want: "exactly 11 slots",
		},
		{
			name: "unknown slot role",
			doc: strings.Replace(formationsBlock, "{name: STL, role: ST}", "{name: STL, role: XX}", 1) +
				playersBlock(1),
			want: `unknown role "XX"`,
		},
		{
			name: "two goalkeepers",
			doc: strings.Replace(formationsBlock, "{name: STL, role: ST}", "{name: STL, role: GK}", 1) +
				playersBlock(1),
			want: "exactly one goalkeeper",
		},
		{
			name: "unknown rating role",
			doc: formationsBlock + strings.Replace(playersBlock(1),
				"MC: {inPossession: 140, outOfPossession: 130}",
				"XX: {inPossession: 140, outOfPossession: 130}", 1),
			want: `unknown role "XX"`,
		},
		{
			name: "condition out of range",
			doc:  formationsBlock + strings.Replace(playersBlock(1), "condition: 0.95", "condition: 1.4", 1),
			want: "validation failed",
		},
		{
			name: "duplicate player ids",
			doc: formationsBlock + strings.Replace(playersBlock(2),
				"id: p1", "id: p0", 1),
			want: "duplicate player id",
		},
		{
			name: "bad fixture date",
			doc: formationsBlock + playersBlock(1) + `
fixtures:
  - date: 18/04/2026
    importance: High
    formation: 4-4-2
`,
			want: "invalid date",
		},
		{
			name: "unknown importance",
			doc: formationsBlock + playersBlock(1) + `
fixtures:
  - date: 2026-04-18
    importance: Derby
    formation: 4-4-2
`,
			want: "unknown importance",
		},
		{
			name: "unknown formation",
			doc: formationsBlock + playersBlock(1) + `
fixtures:
  - date: 2026-04-18
    importance: High
    formation: 4-3-3
`,
			want: "unknown formation",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
