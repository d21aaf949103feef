package sonarsim

import "github.com/PH-19/sonarscan-sim/internal/simmath"

// Tuning holds the runtime-settable parameters named in spec §6. Every
// field is clamped to its documented interval whenever Tuning is produced
// via DefaultTuning or Merge; there is no way to construct an out-of-range
// Tuning through the public API.
type Tuning struct {
	NoiseScale    float64 // [0, 5]
	SpeckleProb   float64 // [0, 0.5]
	Threshold     float64 // [0, 10]
	DBSCANEpsBins float64 // [0.5, 12]
	DBSCANMinPts  int     // [2, 200]
	KernelCap     int     // clamped to [3,13], rounded down to next odd
}

// DefaultTuning returns the factory default tuning, matching the values
// exercised in spec §8 scenarios 1-3 before scenarios 4/5 adjust them.
func DefaultTuning() Tuning {
	return Tuning{
		NoiseScale:    0.85,
		SpeckleProb:   0.05,
		Threshold:     1.05,
		DBSCANEpsBins: 2.0,
		DBSCANMinPts:  4,
		KernelCap:     AquascanKernelCap,
	}.clamp()
}

// TuningPartial is a sparse set of tuning overrides; nil fields are left
// unchanged by Merge. This is the shape accepted by Engine.SetTuning,
// matching spec §9's "setTuning(partial) is merge-then-validate" note.
type TuningPartial struct {
	NoiseScale    *float64
	SpeckleProb   *float64
	Threshold     *float64
	DBSCANEpsBins *float64
	DBSCANMinPts  *int
	KernelCap     *int
}

// Merge applies p on top of t, then clamps every field into its documented
// range. The receiver is left untouched; the merged, clamped result is
// returned.
func (t Tuning) Merge(p TuningPartial) Tuning {
	merged := t
	if p.NoiseScale != nil {
		merged.NoiseScale = *p.NoiseScale
	}
	if p.SpeckleProb != nil {
		merged.SpeckleProb = *p.SpeckleProb
	}
	if p.Threshold != nil {
		merged.Threshold = *p.Threshold
	}
	if p.DBSCANEpsBins != nil {
		merged.DBSCANEpsBins = *p.DBSCANEpsBins
	}
	if p.DBSCANMinPts != nil {
		merged.DBSCANMinPts = *p.DBSCANMinPts
	}
	if p.KernelCap != nil {
		merged.KernelCap = *p.KernelCap
	}
	return merged.clamp()
}

// clamp restricts every field to its documented interval.
func (t Tuning) clamp() Tuning {
	t.NoiseScale = simmath.Clamp(t.NoiseScale, 0, 5)
	t.SpeckleProb = simmath.Clamp(t.SpeckleProb, 0, 0.5)
	t.Threshold = simmath.Clamp(t.Threshold, 0, 10)
	t.DBSCANEpsBins = simmath.Clamp(t.DBSCANEpsBins, 0.5, 12)
	t.DBSCANMinPts = simmath.ClampInt(t.DBSCANMinPts, 2, 200)
	t.KernelCap = clampKernelCapOdd(t.KernelCap)
	return t
}

// clampKernelCapOdd clamps k to [3,13] then rounds down to the nearest odd
// integer, per spec §6's kernelCap rule.
func clampKernelCapOdd(k int) int {
	k = simmath.ClampInt(k, 3, 13)
	if k%2 == 0 {
		k--
	}
	return k
}
