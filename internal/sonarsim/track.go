package sonarsim

import "github.com/PH-19/sonarscan-sim/internal/simmath"

// TrackStatus is a track's lifecycle state, per spec §4.9's track
// maintenance rules.
type TrackStatus int

const (
	TrackTentative TrackStatus = iota
	TrackConfirmed
	TrackDeleted
)

func (s TrackStatus) String() string {
	switch s {
	case TrackConfirmed:
		return "CONFIRMED"
	case TrackDeleted:
		return "DELETED"
	default:
		return "TENTATIVE"
	}
}

// Track is one cross-frame Kalman-filtered target estimate, owned by an
// Engine's tracker. Engines of both strategies maintain tracks; only the
// OPTIMIZED planner plans from them.
type Track struct {
	ID     string
	Status TrackStatus

	Hits          int
	ConsecutiveMisses int
	FirstSeenSec  float64
	LastHitSec    float64
	MissedSinceSec float64

	kf *KalmanFilter
}

// newTrack starts a tentative track seeded at a candidate's position.
func newTrack(id string, pos simmath.Vector2, nowSec float64) *Track {
	return &Track{
		ID:           id,
		Status:       TrackTentative,
		Hits:         1,
		FirstSeenSec: nowSec,
		LastHitSec:   nowSec,
		kf:           NewKalmanFilter(pos.X, pos.Y),
	}
}

// Position returns the track's current filtered position.
func (t *Track) Position() simmath.Vector2 { return t.kf.Position() }

// Velocity returns the track's current filtered velocity.
func (t *Track) Velocity() simmath.Vector2 { return t.kf.Velocity() }

// predict advances the track's filter by dt without a measurement.
func (t *Track) predict(dt float64) { t.kf.Predict(dt) }

// hit folds a matched measurement into the track and resets its miss
// streak, confirming it once its total Hits (counting the seeding
// detection; misses do not reset it) reaches TRACK_HITS_TO_CONFIRM.
func (t *Track) hit(pos simmath.Vector2, measSigma, nowSec float64) {
	t.kf.Update(pos.X, pos.Y, measSigma)
	t.Hits++
	t.ConsecutiveMisses = 0
	t.MissedSinceSec = 0
	t.LastHitSec = nowSec
	if t.Status == TrackTentative && t.Hits >= TrackHitsToConfirm {
		t.Status = TrackConfirmed
	}
}

// miss records an unmatched cycle for this track and deletes it once it has
// gone unmatched for longer than TRACK_DELETED_GRACE_PERIOD_S.
func (t *Track) miss(nowSec float64) {
	t.ConsecutiveMisses++
	if t.MissedSinceSec == 0 {
		t.MissedSinceSec = nowSec
	}
	if nowSec-t.LastHitSec >= TrackDeletedGracePeriodS {
		t.Status = TrackDeleted
	}
}
