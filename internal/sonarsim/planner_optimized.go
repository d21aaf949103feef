package sonarsim

import (
	"math"

	"github.com/PH-19/sonarscan-sim/internal/simmath"
)

// OptimizedPlanner implements spec §4.6: sweep bounds and range track the
// sonar's own confirmed/tentative tracks with a padding margin, held stable
// by hysteresis so the sonar doesn't chatter between near-identical bounds,
// and degrades to the NAIVE full-sector sweep whenever it has no tracks.
// Plan only ever reads tracks, never ground-truth swimmer state.
type OptimizedPlanner struct{}

func (OptimizedPlanner) Plan(sonar *Sonar, tracks []*Track, nowSec float64) {
	s := &sonar.State
	cfg := sonar.Config

	inSector := make([]*Track, 0, len(tracks))
	for _, tr := range tracks {
		if cfg.InSector(tr.Position()) {
			inSector = append(inSector, tr)
		}
	}

	if len(inSector) == 0 {
		s.sweepBoundsSet = false
		fallbackNaivePlan(s, cfg)
		return
	}

	relMin, relMax := math.Inf(1), math.Inf(-1)
	maxRange := 0.0
	for _, tr := range inSector {
		rel := cfg.RelativeBearing(tr.Position())
		if rel < relMin {
			relMin = rel
		}
		if rel > relMax {
			relMax = rel
		}
		_, dist := cfg.BearingFrom(tr.Position())
		if dist > maxRange {
			maxRange = dist
		}
	}

	relMin -= TargetPaddingAngleDeg
	relMax += TargetPaddingAngleDeg
	if relMax-relMin < OptSweepMinDeg {
		mid := (relMin + relMax) / 2
		relMin = mid - OptSweepMinDeg/2
		relMax = mid + OptSweepMinDeg/2
	}
	relMin = simmath.Clamp(relMin, -SonarSweepHalfWidthDeg, SonarSweepHalfWidthDeg)
	relMax = simmath.Clamp(relMax, -SonarSweepHalfWidthDeg, SonarSweepHalfWidthDeg)

	desiredMin := cfg.MountAngle + relMin
	desiredMax := cfg.MountAngle + relMax
	desiredRange := simmath.Clamp(maxRange+TargetPaddingRangeM, 1, MaxRangeNaiveM)

	headReachedTarget := math.Abs(s.CurrentAngle-s.TargetAngle) < 1e-6
	headOutsideBounds := s.CurrentAngle < s.sweepMin || s.CurrentAngle > s.sweepMax
	drifted := math.Abs(desiredMin-s.sweepMin) >= OptSweepReplanDeg ||
		math.Abs(desiredMax-s.sweepMax) >= OptSweepReplanDeg
	holdElapsed := nowSec-s.sweepBoundsLastUpdated >= OptSweepMaxHoldSec

	shouldReplan := !s.sweepBoundsSet || headReachedTarget || headOutsideBounds || (drifted && holdElapsed)

	if shouldReplan {
		s.sweepMin, s.sweepMax = desiredMin, desiredMax
		s.sweepBoundsSet = true
		s.sweepBoundsLastUpdated = nowSec
	}

	s.ScanRange = desiredRange

	if s.CurrentAngle < s.sweepMin || s.CurrentAngle > s.sweepMax {
		s.Mode = Slewing
		if s.CurrentAngle < s.sweepMin {
			s.TargetAngle = s.sweepMin
		} else {
			s.TargetAngle = s.sweepMax
		}
		return
	}

	s.Mode = Scanning
	if s.CurrentAngle >= s.sweepMax-1e-6 {
		s.TargetAngle = s.sweepMin
	} else if s.CurrentAngle <= s.sweepMin+1e-6 {
		s.TargetAngle = s.sweepMax
	}
}

