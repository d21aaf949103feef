package sonarsim

// Planner decides, once per tick and per sonar, where that sonar should be
// looking next: Plan may update sonar.State's TargetAngle, ScanRange and
// Mode. tracks is this sonar's own current track list; a planner must never
// read ground-truth swimmer state (spec §4.6's ground-truth-blindness
// requirement for the OPTIMIZED strategy).
type Planner interface {
	Plan(sonar *Sonar, tracks []*Track, nowSec float64)
}

// NaivePlanner implements spec §4.5: a fixed bang-bang full-sector sweep at
// MAX_RANGE_NAIVE, blind to tracks entirely.
type NaivePlanner struct{}

func (NaivePlanner) Plan(sonar *Sonar, _ []*Track, _ float64) {
	fallbackNaivePlan(&sonar.State, sonar.Config)
}

// fallbackNaivePlan pins a sonar to the bang-bang full-sector sweep; shared
// by NaivePlanner and OptimizedPlanner's no-tracks degrade path.
func fallbackNaivePlan(s *SonarState, cfg SonarConfig) {
	s.Mode = Scanning
	s.ScanRange = MaxRangeNaiveM

	if s.CurrentAngle >= cfg.AbsMax()-1e-6 {
		s.TargetAngle = cfg.AbsMin()
	} else if s.CurrentAngle <= cfg.AbsMin()+1e-6 {
		s.TargetAngle = cfg.AbsMax()
	}
}
