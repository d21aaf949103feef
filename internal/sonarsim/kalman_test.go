package sonarsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKalmanFilter_PredictAdvancesPositionByVelocity(t *testing.T) {
	t.Parallel()

	kf := NewKalmanFilter(1, 1)
	kf.x.SetVec(2, 0.5)   // vx, m/s
	kf.x.SetVec(3, -0.25) // vy, m/s

	kf.Predict(1.0)
	pos := kf.Position()
	assert.InDelta(t, 1.5, pos.X, 1e-9)
	assert.InDelta(t, 0.75, pos.Y, 1e-9)
}

func TestKalmanFilter_UpdatePullsStateTowardMeasurement(t *testing.T) {
	t.Parallel()

	kf := NewKalmanFilter(0, 0)
	kf.Update(5, 5, 0.1)

	pos := kf.Position()
	assert.Greater(t, pos.X, 0.0)
	assert.Greater(t, pos.Y, 0.0)
}

func TestKalmanFilter_RepeatedUpdatesConvergeToMeasurement(t *testing.T) {
	t.Parallel()

	kf := NewKalmanFilter(0, 0)
	for i := 0; i < 30; i++ {
		kf.Predict(0.1)
		kf.Update(3, -2, 0.05)
	}
	pos := kf.Position()
	assert.InDelta(t, 3.0, pos.X, 0.2)
	assert.InDelta(t, -2.0, pos.Y, 0.2)
}

func TestKalmanFilter_PredictNonPositiveDtIsNoOp(t *testing.T) {
	t.Parallel()

	kf := NewKalmanFilter(1, 2)
	kf.Update(1.2, 2.3, 0.05)
	beforePos, beforeVel := kf.Position(), kf.Velocity()

	kf.Predict(0)
	kf.Predict(-1)

	assert.Equal(t, beforePos, kf.Position())
	assert.Equal(t, beforeVel, kf.Velocity())
}

func TestKalmanFilter_ZeroSigmaDoesNotPanic(t *testing.T) {
	t.Parallel()

	kf := NewKalmanFilter(0, 0)
	assert.NotPanics(t, func() {
		kf.Update(1, 1, 0)
	})
}
