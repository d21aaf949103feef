package sonarsim

import (
	"testing"

	"github.com/PH-19/sonarscan-sim/internal/simmath"
	"github.com/stretchr/testify/assert"
)

func TestMoveToward_NeverOvershoots(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10.0, moveToward(8, 10, 5))
	assert.Equal(t, 3.0, moveToward(8, 0, 5))
	assert.Equal(t, 13.0, moveToward(8, 20, 5))
}

func TestTickSonar_SlewingMovesAtSlewSpeedWithoutEmittingPings(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.Mode = Slewing
	sonar.State.CurrentAngle = cfg.AbsMax()
	sonar.State.TargetAngle = cfg.AbsMax()

	// A track near 5 deg absolute pulls the optimized bounds to 0..15 deg,
	// so the planner keeps the head slewing down toward them.
	tr := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 9.962, Y: 0.872}), 0)

	before := sonar.Frame.FrameID
	cands, finalized := tickSonar(sonar, OptimizedPlanner{}, []*Track{tr}, DefaultTuning(), 1, nil, 0, 0.1)
	assert.Nil(t, cands)
	assert.False(t, finalized)
	assert.Equal(t, before, sonar.Frame.FrameID, "slewing must not advance frames")
	assert.Equal(t, Slewing, sonar.State.Mode)
	assert.InDelta(t, cfg.AbsMax()-SlewSpeedDegPerSec*0.1, sonar.State.CurrentAngle, 1e-9)
	for _, observed := range sonar.Frame.ObservedAngles {
		assert.False(t, observed, "slewing must not emit pings")
	}
}

func TestTickSonar_ScanningAccumulatesPingsAndAdvancesAngle(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle
	sonar.State.TargetAngle = cfg.AbsMax()

	startAngle := sonar.State.CurrentAngle
	_, _ = tickSonar(sonar, NaivePlanner{}, nil, DefaultTuning(), 1, nil, 0, 1.0)
	assert.Greater(t, sonar.State.CurrentAngle, startAngle)
}

func TestTickSonar_ReachingTargetFinalizesFrame(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.AbsMax() - 0.001
	sonar.State.TargetAngle = cfg.AbsMax()

	// This tick's movement lands the head exactly on the stored target, but
	// the planner hasn't noticed yet: finalization waits for the planner to
	// actually change mode or target, not for the head to arrive.
	_, finalized := tickSonar(sonar, NaivePlanner{}, nil, DefaultTuning(), 1, nil, 0, 10.0)
	assert.False(t, finalized)
	assert.Equal(t, cfg.AbsMax(), sonar.State.CurrentAngle)

	beforeID := sonar.Frame.FrameID
	_, finalized = tickSonar(sonar, NaivePlanner{}, nil, DefaultTuning(), 1, nil, 0.1, 10.0)
	assert.True(t, finalized)
	assert.Greater(t, sonar.Frame.FrameID, beforeID)
}

func TestTickSonar_OptimizedBoundsReplanFinalizesMidSweep(t *testing.T) {
	t.Parallel()

	cfg := DefaultSonarConfigs()[0]
	sonar := NewSonar(cfg)
	sonar.State.CurrentAngle = cfg.MountAngle
	sonar.State.TargetAngle = cfg.MountAngle + 1
	sonar.State.sweepMin, sonar.State.sweepMax = cfg.MountAngle-1, cfg.MountAngle+1
	sonar.State.sweepBoundsSet = true
	sonar.State.sweepBoundsLastUpdated = 0

	// A track far enough away that the new sweep bounds drift past
	// OPT_SWEEP_REPLAN_DEG, with the hold time already elapsed: the
	// planner replans the target mid-sweep, well before the head arrives.
	tr := newTrack("t1", cfg.Mount.Add(simmath.Vector2{X: 5, Y: 15}), 0)
	beforeID := sonar.Frame.FrameID
	_, finalized := tickSonar(sonar, OptimizedPlanner{}, []*Track{tr}, DefaultTuning(), 1, nil, OptSweepMaxHoldSec+0.1, 0.01)

	assert.True(t, finalized, "a planner-driven mid-sweep target change must finalize the in-progress frame")
	assert.Greater(t, sonar.Frame.FrameID, beforeID)
}
