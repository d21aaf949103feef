package simmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector2_DistAndNorm(t *testing.T) {
	t.Parallel()

	a := Vector2{X: 0, Y: 0}
	b := Vector2{X: 3, Y: 4}
	assert.InDelta(t, 5.0, a.Dist(b), 1e-9)
	assert.InDelta(t, 5.0, b.Norm(), 1e-9)
}

func TestVector2_Clamp(t *testing.T) {
	t.Parallel()

	v := Vector2{X: -5, Y: 100}
	clamped := v.Clamp(20, 50)
	assert.Equal(t, Vector2{X: 0, Y: 50}, clamped)
}

func TestNormalizeDeg(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10.0, NormalizeDeg(370), 1e-9)
	assert.InDelta(t, 350.0, NormalizeDeg(-10), 1e-9)
	assert.InDelta(t, 0.0, NormalizeDeg(360), 1e-9)
}

func TestSignedDeltaDeg(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10.0, SignedDeltaDeg(10, 0), 1e-9)
	assert.InDelta(t, -10.0, SignedDeltaDeg(350, 0), 1e-9)
	assert.InDelta(t, 180.0, SignedDeltaDeg(180, 0), 1e-9)
}

func TestSign(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Sign(5))
	assert.Equal(t, -1, Sign(-5))
	assert.Equal(t, 0, Sign(0))
}

func TestMeanQuantileStdDev(t *testing.T) {
	t.Parallel()

	xs := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 3.0, Mean(xs), 1e-9)
	assert.InDelta(t, 3.0, Quantile(xs, 0.5), 1e-9)
	assert.Greater(t, StdDev(xs), 0.0)
}

func TestMeanQuantile_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
	assert.Equal(t, 0.0, StdDev([]float64{1}))
}

func TestRMS(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 3.5355339059327378, RMS([]float64{3, 4}), 1e-9) // sqrt((9+16)/2)
}
