package sonarsim

import "github.com/PH-19/sonarscan-sim/internal/simmath"

// tickSonar advances one sonar by dt seconds, per spec §4.2: the planner is
// consulted first; if the sonar was SCANNING and the planner just changed
// its mode or target angle, the frame accumulated up to this point is
// finalized; then the sonar moves toward its (possibly just-replanned)
// target angle at the rate implied by its current Mode, and SCANNING ticks
// emit pings at the range-dependent ping interval. Returns any candidates
// produced by a frame finalized this tick (nil if none survived, or if no
// boundary was crossed) and whether a frame was finalized this tick at all
// (distinct from whether it produced any candidates).
func tickSonar(sonar *Sonar, planner Planner, tracks []*Track, tuning Tuning, seed uint32, swimmers []*Swimmer, nowSec, dt float64) ([]Candidate, bool) {
	s := &sonar.State
	oldMode := s.Mode
	oldTarget := s.TargetAngle

	planner.Plan(sonar, tracks, nowSec)

	delta := s.TargetAngle - s.CurrentAngle
	if delta != 0 {
		s.LastDirection = int8(simmath.Sign(delta))
	}

	var candidates []Candidate
	finalized := false
	if oldMode == Scanning && (s.Mode != Scanning || s.TargetAngle != oldTarget) {
		candidates = detectFrame(sonar.Frame, sonar.Config, tuning, seed, nowSec, len(swimmers) > 0)
		sonar.Frame.BeginNext()
		finalized = true
		if s.Mode != Scanning {
			s.PingAccumulator = 0
		}
	}

	switch s.Mode {
	case Slewing:
		step := SlewSpeedDegPerSec * dt
		s.CurrentAngle = moveToward(s.CurrentAngle, s.TargetAngle, step)

	default: // Scanning
		tickScanning(sonar, tuning, seed, swimmers, nowSec, dt)
	}

	return candidates, finalized
}

// moveToward advances x toward target by at most step, never overshooting.
func moveToward(x, target, step float64) float64 {
	if x < target {
		x += step
		if x > target {
			x = target
		}
		return x
	}
	x -= step
	if x < target {
		x = target
	}
	return x
}

// tickScanning advances the sweep head and emits any pings due this tick.
// Frame finalization is decided by the caller, from the planner's decision,
// not from here.
func tickScanning(sonar *Sonar, tuning Tuning, seed uint32, swimmers []*Swimmer, nowSec, dt float64) {
	s := &sonar.State
	speed := effectiveScanSpeedDegPerSec(s.ScanRange)
	step := speed * dt
	s.CurrentAngle = moveToward(s.CurrentAngle, s.TargetAngle, step)

	interval := pingIntervalS(s.ScanRange)
	s.PingAccumulator += dt
	for s.PingAccumulator >= interval {
		s.PingAccumulator -= interval
		writePing(sonar.Frame, sonar.Config, tuning, seed, s.CurrentAngle, s.ScanRange, nowSec, swimmers)
	}
}
