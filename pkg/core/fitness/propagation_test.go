package fitness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/internal/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub001/pkg/core/model"
)

func basePlayer() model.Player {
	return model.Player{
		ID:             "kalu",
		Name:           "Kalu Eze",
		Age:            25,
		Stamina:        10,
		NaturalFitness: 10,
		Condition:      0.97,
		Sharpness:      0.5,
		Load:           model.LoadFresh,
		MinutesWindow:  []model.MinutesEntry{},
	}
}

func TestAdvance_RestZeroDaysIsIdentity(t *testing.T) {
	params := config.Default()
	p := basePlayer()
	p.MinutesWindow = []model.MinutesEntry{{DaysAgo: 4, Minutes: 90}}
	p.ConsecutiveStarts = 2

	out := Advance(p, false, 0, model.ImportanceMedium, 0, params)
	assert.Equal(t, p, out)
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	params := config.Default()
	p := basePlayer()
	p.MinutesWindow = []model.MinutesEntry{{DaysAgo: 4, Minutes: 90}}
	before := p.Clone()

	_ = Advance(p, true, 90, model.ImportanceMedium, 3, params)
	assert.Equal(t, before, p)
}

func TestAdvance_PlayDrainsAndSharpens(t *testing.T) {
	params := config.Default()
	p := basePlayer()

	out := Advance(p, true, 90, model.ImportanceMedium, 0, params)

	// Stamina 10 drains at 1.2x: 0.4 * 1.0 * 1.2 = 0.48
	assert.InDelta(t, 0.49, out.Condition, 1e-9)
	assert.InDelta(t, 0.70, out.Sharpness, 1e-9)
	require.Len(t, out.MinutesWindow, 1)
	assert.Equal(t, model.MinutesEntry{DaysAgo: 0, Minutes: 90}, out.MinutesWindow[0])
	assert.Equal(t, 1, out.ConsecutiveStarts)
}

func TestAdvance_HighIntensityDrainsMore(t *testing.T) {
	params := config.Default()
	p := basePlayer()

	high := Advance(p, true, 90, model.ImportanceHigh, 0, params)
	low := Advance(p, true, 90, model.ImportanceLow, 0, params)

	assert.Less(t, high.Condition, low.Condition)
}

func TestAdvance_PartialMinutesScaleEffects(t *testing.T) {
	params := config.Default()
	p := basePlayer()

	full := Advance(p, true, 90, model.ImportanceMedium, 0, params)
	half := Advance(p, true, 45, model.ImportanceMedium, 0, params)

	assert.Greater(t, half.Condition, full.Condition)
	assert.Less(t, half.Sharpness, full.Sharpness)
}

func TestAdvance_RestRecoversAndDecays(t *testing.T) {
	params := config.Default()
	p := basePlayer()
	p.Condition = 0.5
	p.Sharpness = 0.8
	p.ConsecutiveStarts = 3

	// NF 10, age 25: recovery factor 1.0, so +0.1 condition per day.
	out := Advance(p, false, 0, model.ImportanceMedium, 3, params)

	assert.InDelta(t, 0.8, out.Condition, 1e-9)
	assert.InDelta(t, 0.74, out.Sharpness, 1e-9)
	assert.Equal(t, 0, out.ConsecutiveStarts)
}

func TestAdvance_RecoveryCompletesWithinBoundedDays(t *testing.T) {
	params := config.Default()
	p := basePlayer()

	played := Advance(p, true, 90, model.ImportanceMedium, 0, params)
	assert.InDelta(t, 0.49, played.Condition, 1e-9)

	rested := Advance(played, false, 0, model.ImportanceMedium, 5, params)
	assert.InDelta(t, 0.99, rested.Condition, 1e-9)
	assert.GreaterOrEqual(t, rested.Condition, p.Condition)
}

func TestAdvance_StateStaysClamped(t *testing.T) {
	params := config.Default()

	p := basePlayer()
	p.Condition = 0.9
	p.Sharpness = 0.05
	p.NaturalFitness = 20

	out := Advance(p, false, 0, model.ImportanceMedium, 7, params)
	assert.Equal(t, 1.0, out.Condition)
	assert.Equal(t, 0.0, out.Sharpness)

	drained := basePlayer()
	drained.Condition = 0.1
	out = Advance(drained, true, 90, model.ImportanceHigh, 0, params)
	assert.Equal(t, 0.0, out.Condition)
}

func TestAdvance_WindowAgesOut(t *testing.T) {
	params := config.Default()
	p := basePlayer()
	p.MinutesWindow = []model.MinutesEntry{
		{DaysAgo: 26, Minutes: 90},
		{DaysAgo: 10, Minutes: 90},
	}

	out := Advance(p, false, 0, model.ImportanceMedium, 3, params)
	require.Len(t, out.MinutesWindow, 1)
	assert.Equal(t, model.MinutesEntry{DaysAgo: 13, Minutes: 90}, out.MinutesWindow[0])
}

func TestAdvance_LoadLadder(t *testing.T) {
	params := config.Default()

	p := basePlayer()
	out := Advance(p, true, 90, model.ImportanceMedium, 0, params)
	assert.Equal(t, model.LoadFresh, out.Load, "90 window minutes stays fresh")

	p = basePlayer()
	p.MinutesWindow = []model.MinutesEntry{{DaysAgo: 5, Minutes: 90}}
	out = Advance(p, true, 90, model.ImportanceMedium, 0, params)
	assert.Equal(t, model.LoadFit, out.Load, "180 window minutes is fit")

	p = basePlayer()
	p.MinutesWindow = []model.MinutesEntry{
		{DaysAgo: 3, Minutes: 90},
		{DaysAgo: 7, Minutes: 90},
		{DaysAgo: 11, Minutes: 90},
	}
	out = Advance(p, true, 90, model.ImportanceMedium, 0, params)
	assert.Equal(t, model.LoadTired, out.Load, "360 window minutes is tired")
}

func TestAdvance_JadednessIsSticky(t *testing.T) {
	params := config.Default()

	// Age 38 lowers the jaded threshold to 540 * 0.76 = 410 window minutes.
	p := basePlayer()
	p.Age = 38
	p.ConsecutiveStarts = 3
	p.MinutesWindow = []model.MinutesEntry{
		{DaysAgo: 2, Minutes: 90},
		{DaysAgo: 5, Minutes: 90},
		{DaysAgo: 8, Minutes: 90},
		{DaysAgo: 11, Minutes: 90},
	}

	// Fourth consecutive start pushes the window to 450 minutes.
	out := Advance(p, true, 90, model.ImportanceMedium, 0, params)
	assert.True(t, out.Jaded)
	assert.Equal(t, model.LoadJaded, out.Load)

	// Twelve rest days clear the day requirement, but the window is still
	// at 450 minutes, so jadedness must hold.
	out = Advance(out, false, 0, model.ImportanceMedium, 12, params)
	assert.True(t, out.Jaded)
	assert.Equal(t, 12, out.JadedRestDays)
	assert.Equal(t, model.LoadJaded, out.Load)

	// Six more days age one entry out; the window sits exactly on the tired
	// threshold, which is still too much.
	out = Advance(out, false, 0, model.ImportanceMedium, 6, params)
	assert.True(t, out.Jaded)

	// Three further days drop the window to 270 minutes and the flag clears.
	out = Advance(out, false, 0, model.ImportanceMedium, 3, params)
	assert.False(t, out.Jaded)
	assert.Equal(t, model.LoadFit, out.Load)
	assert.Equal(t, 0, out.JadedRestDays)
}

func TestAdvance_SingleRestDayDoesNotClearJadedness(t *testing.T) {
	params := config.Default()
	p := basePlayer()
	p.Jaded = true
	p.Load = model.LoadJaded
	p.MinutesWindow = []model.MinutesEntry{{DaysAgo: 2, Minutes: 90}}

	out := Advance(p, false, 0, model.ImportanceMedium, 1, params)
	assert.True(t, out.Jaded)
	assert.Equal(t, model.LoadJaded, out.Load)
}
