package sonarsim

import (
	"testing"

	"github.com/PH-19/sonarscan-sim/internal/simmath"
	"github.com/stretchr/testify/assert"
)

func TestNaivePlanner_FlipsTargetAtBounds(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.AbsMax()

	NaivePlanner{}.Plan(sonar, nil, 0)
	assert.Equal(t, cfg.AbsMin(), sonar.State.TargetAngle)
	assert.Equal(t, Scanning, sonar.State.Mode)
	assert.Equal(t, MaxRangeNaiveM, sonar.State.ScanRange)
}

func TestNaivePlanner_HoldsTargetMidSweep(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle
	sonar.State.TargetAngle = cfg.AbsMax()

	NaivePlanner{}.Plan(sonar, nil, 0)
	assert.Equal(t, cfg.AbsMax(), sonar.State.TargetAngle)
}

func TestOptimizedPlanner_DegradesToNaiveWithNoTracks(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.AbsMax()

	OptimizedPlanner{}.Plan(sonar, nil, 0)
	assert.Equal(t, cfg.AbsMin(), sonar.State.TargetAngle)
	assert.False(t, sonar.State.sweepBoundsSet)
}

func TestOptimizedPlanner_NarrowsSweepAroundSingleTrack(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle

	tr := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5, Y: 5}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0)

	assert.True(t, sonar.State.sweepMax-sonar.State.sweepMin < 2*SonarSweepHalfWidthDeg)
	assert.LessOrEqual(t, sonar.State.ScanRange, MaxRangeNaiveM)
}

func TestOptimizedPlanner_HysteresisHoldsBoundsForSmallDrift(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle

	tr := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5, Y: 5}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0)
	firstMin, firstMax := sonar.State.sweepMin, sonar.State.sweepMax

	// Nudge the track by a hair; well within OPT_SWEEP_REPLAN_DEG, so the
	// held bounds must not move.
	tr2 := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5.01, Y: 5.01}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr2}, 0.1)

	assert.Equal(t, firstMin, sonar.State.sweepMin)
	assert.Equal(t, firstMax, sonar.State.sweepMax)
}

func TestOptimizedPlanner_SlewsWhenOutsideNewBounds(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.AbsMax() // far from where the track will pull bounds to

	// Bearing ~5 deg absolute (~-40 deg relative to the 45-deg mount angle):
	// the resulting hysteresis-held bounds sit entirely away from AbsMax.
	tr := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 9.962, Y: 0.872}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0)

	assert.Equal(t, Slewing, sonar.State.Mode)
}

func TestOptimizedPlanner_FiltersTracksOutsideSector(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.AbsMax()

	// Bearing from the mount is ~225 deg absolute, squarely outside
	// sonar-sw's 90-degree sector (0..90 deg absolute): the planner must
	// drop it and degrade to NAIVE rather than clamp bounds toward it.
	tr := newTrack("t1", simmath.Vector2{X: -5, Y: -5}, 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0)

	assert.False(t, sonar.State.sweepBoundsSet)
	assert.Equal(t, cfg.AbsMin(), sonar.State.TargetAngle)
}

func TestOptimizedPlanner_DriftAloneWithoutHoldElapsedDoesNotReplan(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle
	sonar.State.TargetAngle = cfg.AbsMax() + 100 // never equal CurrentAngle below

	tr := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5, Y: 5}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0)
	firstMin, firstMax := sonar.State.sweepMin, sonar.State.sweepMax

	// Move the track far enough to drift past OPT_SWEEP_REPLAN_DEG, but
	// well before OPT_SWEEP_MAX_HOLD_SEC has elapsed: spec requires both,
	// ANDed, so bounds must still hold.
	tr2 := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5, Y: 15}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr2}, OptSweepMaxHoldSec/2)

	assert.Equal(t, firstMin, sonar.State.sweepMin)
	assert.Equal(t, firstMax, sonar.State.sweepMax)
}

func TestOptimizedPlanner_DriftWithHoldElapsedReplans(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle
	sonar.State.TargetAngle = cfg.AbsMax() + 100

	tr := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5, Y: 5}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0)
	firstMin, firstMax := sonar.State.sweepMin, sonar.State.sweepMax

	tr2 := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5, Y: 15}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr2}, OptSweepMaxHoldSec+0.1)

	assert.NotEqual(t, firstMin, sonar.State.sweepMin)
	assert.NotEqual(t, firstMax, sonar.State.sweepMax)
}

func TestOptimizedPlanner_HeadReachingStoredTargetReplansEvenWithoutDrift(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle

	tr := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5, Y: 5}), 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0)
	boundsLastUpdated := sonar.State.sweepBoundsLastUpdated

	// Head arrives exactly at the stored target, with no drift and no
	// hold elapsed: condition (b) alone must still trigger a replan.
	sonar.State.CurrentAngle = sonar.State.TargetAngle
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0.01)

	assert.Equal(t, 0.01, sonar.State.sweepBoundsLastUpdated)
	assert.NotEqual(t, boundsLastUpdated, sonar.State.sweepBoundsLastUpdated)
}

func TestOptimizedPlanner_DesiredRangeClampsToAtLeastOne(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle

	// A track sitting right on the mount has zero range: scanRange must
	// clamp to 1, never down to 0.
	tr := newTrack("t1", cfg.Mount, 0)
	OptimizedPlanner{}.Plan(sonar, []*Track{tr}, 0)

	assert.GreaterOrEqual(t, sonar.State.ScanRange, 1.0)
}
