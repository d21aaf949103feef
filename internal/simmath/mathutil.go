// Package simmath provides small numeric helpers shared across the
// simulation core: 2-D vectors, angle normalisation, and the percentile/
// mean statistics used by weak-echo elimination and metric roll-ups.
package simmath

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Vector2 is a 2-D real coordinate or displacement in meters.
type Vector2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{v.X + other.X, v.Y + other.Y}
}

// Scale returns v scaled by k.
func (v Vector2) Scale(k float64) Vector2 {
	return Vector2{v.X * k, v.Y * k}
}

// Sub returns v - other.
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{v.X - other.X, v.Y - other.Y}
}

// Dist returns the Euclidean distance between v and other.
func (v Vector2) Dist(other Vector2) float64 {
	return v.Sub(other).Norm()
}

// Norm returns the Euclidean length of v.
func (v Vector2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle returns the bearing of v in degrees, measured counter-clockwise
// from the +X axis, normalised into [0, 360).
func (v Vector2) Angle() float64 {
	return NormalizeDeg(math.Atan2(v.Y, v.X) * 180 / math.Pi)
}

// Clamp returns v clamped component-wise into [0, maxX] x [0, maxY].
func (v Vector2) Clamp(maxX, maxY float64) Vector2 {
	return Vector2{Clamp(v.X, 0, maxX), Clamp(v.Y, 0, maxY)}
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampInt restricts x to [lo, hi].
func ClampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// NormalizeDeg folds a degree angle into [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// SignedDeltaDeg returns the signed smallest angular difference a-b in
// degrees, in (-180, 180].
func SignedDeltaDeg(a, b float64) float64 {
	d := math.Mod(a-b-180, 360)
	if d <= 0 {
		d += 360
	}
	return d - 180
}

// Sign returns -1, 0, or 1 depending on the sign of x.
func Sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Quantile returns the q-th quantile (q in [0,1]) of xs using gonum's
// empirical CDF, which returns a sample value and does not interpolate
// between samples. xs is not mutated; a sorted copy is used.
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

// StdDev returns the sample (n-1 denominator) standard deviation of xs.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(xs, nil)
	return std
}

// RMS returns the root-mean-square of xs.
func RMS(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		sumSq += x * x
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}
