package sonarsim

import "github.com/PH-19/sonarscan-sim/internal/simmath"

// Mode is the sonar's motion mode, per spec §3.
type Mode int

const (
	Scanning Mode = iota
	Slewing
)

func (m Mode) String() string {
	if m == Scanning {
		return "SCANNING"
	}
	return "SLEWING"
}

// fifoCap is the capacity of the small visualization FIFO buffers on
// SonarState, per spec §3 ("each capped at 15").
const fifoCap = 15

// SonarState is the mutable, per-tick state of one sonar, per spec §3.
type SonarState struct {
	CurrentAngle float64
	TargetAngle  float64
	Mode         Mode
	ScanRange    float64

	PingAccumulator float64
	LastScanTime    float64
	CycleDuration   float64

	// LastDirection is the last nonzero sign(target-current); preserved
	// across ticks where sign would otherwise be exactly zero, per the
	// Open Question resolution in DESIGN.md.
	LastDirection int8

	DetectedPoints []simmath.Vector2
	MatchedPoints  []simmath.Vector2

	// sweepBounds are the OPTIMIZED planner's hysteresis-held (min,max)
	// bounds; unused by NAIVE. Stored here because it's per-sonar mutable
	// planner state, matching spec §9's "per-sonar maps...modeled as id ->
	// owned value" note applied to a single sonar's own bookkeeping.
	sweepMin, sweepMax     float64
	sweepBoundsSet         bool
	sweepBoundsLastUpdated float64
}

// pushFIFO appends v to buf, evicting the oldest element once buf reaches
// fifoCap.
func pushFIFO(buf []simmath.Vector2, v simmath.Vector2) []simmath.Vector2 {
	buf = append(buf, v)
	if len(buf) > fifoCap {
		buf = buf[len(buf)-fifoCap:]
	}
	return buf
}

// Sonar bundles one sonar's immutable mount geometry, mutable scheduling
// state, and polar frame buffer.
type Sonar struct {
	Config SonarConfig
	State  SonarState
	Frame  *Frame
}

// NewSonar creates a Sonar parked at the center of its sector, SCANNING,
// at MAX_RANGE_NAIVE, matching the NAIVE planner's default posture.
func NewSonar(cfg SonarConfig) *Sonar {
	return &Sonar{
		Config: cfg,
		State: SonarState{
			CurrentAngle:  cfg.MountAngle,
			TargetAngle:   cfg.AbsMax(),
			Mode:          Scanning,
			ScanRange:     MaxRangeNaiveM,
			LastDirection: 1,
		},
		Frame: NewFrame(),
	}
}

// pingIntervalS returns the per-ping emission interval at the given scan
// range, per spec §4.2 ("pingInterval = max(0.01, roundTripTime(scanRange)
// + PING360_PROCESSING_OVERHEAD_S)").
func pingIntervalS(scanRange float64) float64 {
	rtt := 2 * scanRange / SpeedOfSound
	interval := rtt + Ping360ProcessingOverheadS
	if interval < MinPingIntervalS {
		return MinPingIntervalS
	}
	return interval
}

// effectiveScanSpeedDegPerSec returns the SCANNING angular rate at the
// given scan range, per spec §4.2.
func effectiveScanSpeedDegPerSec(scanRange float64) float64 {
	return ScanStepAngleDeg / pingIntervalS(scanRange)
}
