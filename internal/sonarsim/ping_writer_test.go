package sonarsim

import (
	"testing"

	"github.com/PH-19/sonarscan-sim/internal/simmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePing_NonNegativeCells(t *testing.T) {
	t.Parallel()

	frame := NewFrame()
	frame.BeginNext()
	cfg := DefaultSonarConfigs()[0]
	tuning := DefaultTuning()

	writePing(frame, cfg, tuning, 1337, cfg.MountAngle, MaxRangeNaiveM, 0, nil)

	for _, v := range frame.Intensity {
		require.GreaterOrEqual(t, float64(v), 0.0)
	}
}

func TestWritePing_MarksObservedAngle(t *testing.T) {
	t.Parallel()

	frame := NewFrame()
	frame.BeginNext()
	cfg := DefaultSonarConfigs()[0]
	tuning := DefaultTuning()

	writePing(frame, cfg, tuning, 1, cfg.MountAngle, MaxRangeNaiveM, 0, nil)

	aIdx := int((cfg.MountAngle - cfg.AbsMin()) / AngleStepDeg)
	assert.True(t, frame.ObservedAngles[aIdx])
}

func TestWritePing_Deterministic(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	tuning := DefaultTuning()

	f1 := NewFrame()
	f1.BeginNext()
	writePing(f1, cfg, tuning, 42, cfg.MountAngle, MaxRangeNaiveM, 1.0, nil)

	f2 := NewFrame()
	f2.BeginNext()
	writePing(f2, cfg, tuning, 42, cfg.MountAngle, MaxRangeNaiveM, 1.0, nil)

	assert.Equal(t, f1.Intensity, f2.Intensity)
}

func TestWritePing_SwimmerProducesEchoNearTrueRange(t *testing.T) {
	t.Parallel()

	frame := NewFrame()
	frame.BeginNext()
	cfg := DefaultSonarConfigs()[0] // mounted at (0,0), facing 45 deg
	tuning := DefaultTuning()
	tuning.NoiseScale = 0
	tuning.SpeckleProb = 0

	// Place a swimmer directly on the mount bearing, at a known range.
	bearing := cfg.MountAngle
	dist := 10.0
	dx, dy := rayUnitVector(bearing)
	pos := simmath.Vector2{X: cfg.Mount.X + dx*dist, Y: cfg.Mount.Y + dy*dist}
	sw := &Swimmer{ID: "s1", Position: pos}

	writePing(frame, cfg, tuning, 1, bearing, MaxRangeNaiveM, 0, []*Swimmer{sw})

	aIdx := int((bearing - cfg.AbsMin()) / AngleStepDeg)
	col := column(frame, aIdx)
	expectedBin := int(dist / RangeStepM)

	// The echo should noticeably raise the cell at the expected range bin
	// above the noise floor, regardless of what static geometry echoes
	// elsewhere in the column look like.
	assert.Greater(t, float64(col[expectedBin]), NoiseFloor+0.3)
}
