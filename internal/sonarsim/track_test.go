package sonarsim

import (
	"testing"

	"github.com/PH-19/sonarscan-sim/internal/simmath"
	"github.com/stretchr/testify/assert"
)

func TestNewTrack_StartsTentative(t *testing.T) {
	t.Parallel()

	tr := newTrack("t1", simmath.Vector2{X: 1, Y: 1}, 0)
	assert.Equal(t, TrackTentative, tr.Status)
	assert.Equal(t, 1, tr.Hits)
}

func TestTrack_ConfirmsAfterEnoughHits(t *testing.T) {
	t.Parallel()

	tr := newTrack("t1", simmath.Vector2{X: 1, Y: 1}, 0)
	for i := 1; i < TrackHitsToConfirm; i++ {
		tr.hit(simmath.Vector2{X: 1, Y: 1}, 0.1, float64(i))
	}
	assert.Equal(t, TrackConfirmed, tr.Status)
}

func TestTrack_MissResetsOnHit(t *testing.T) {
	t.Parallel()

	tr := newTrack("t1", simmath.Vector2{X: 1, Y: 1}, 0)
	tr.miss(0.5)
	assert.Equal(t, 1, tr.ConsecutiveMisses)

	tr.hit(simmath.Vector2{X: 1, Y: 1}, 0.1, 1.0)
	assert.Equal(t, 0, tr.ConsecutiveMisses)
}

func TestTrack_DeletedAfterGracePeriodExpires(t *testing.T) {
	t.Parallel()

	tr := newTrack("t1", simmath.Vector2{X: 1, Y: 1}, 0)
	tr.miss(TrackDeletedGracePeriodS + 0.1)
	assert.Equal(t, TrackDeleted, tr.Status)
}

func TestTrack_NotDeletedWithinGracePeriod(t *testing.T) {
	t.Parallel()

	tr := newTrack("t1", simmath.Vector2{X: 1, Y: 1}, 0)
	tr.miss(TrackDeletedGracePeriodS - 0.1)
	assert.NotEqual(t, TrackDeleted, tr.Status)
}
