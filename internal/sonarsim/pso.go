package sonarsim

import (
	"fmt"
	"math"
	"sort"

	"github.com/PH-19/sonarscan-sim/internal/rng"
	"github.com/PH-19/sonarscan-sim/internal/simmath"
)

// scanInterval is one track's per-target scan window, relative to a
// sonar's mount angle, before merging: spec §4.7's cycleDurationOptimized
// pads each track's relative bearing by ±TARGET_PADDING_ANGLE and carries
// its own range for the range-limited scan speed.
type scanInterval struct {
	start, end float64 // relative degrees
	maxRange   float64
}

// scanTime returns how long a merged scan interval takes at its
// range-limited effective speed, per spec §4.7 ("scans each merged
// interval at its range-limited speed").
func scanTime(iv scanInterval) float64 {
	scanRange := simmath.Clamp(iv.maxRange+TargetPaddingRangeM, 1, MaxRangeNaiveM)
	return (iv.end - iv.start) / effectiveScanSpeedDegPerSec(scanRange)
}

// estimateCycleDuration implements spec §4.7's cycleDurationOptimized: merge
// per-target scan intervals (±TARGET_PADDING_ANGLE, range per target) after
// sorting by start, slew across gaps at SLEW_SPEED, scan each merged
// interval at its range-limited speed, and return 2·oneWay (a round trip).
// An unassigned sonar is costed as a full round-trip NAIVE sweep.
func estimateCycleDuration(cfg SonarConfig, tracks []*Track) float64 {
	if len(tracks) == 0 {
		return 2 * (2 * SonarSweepHalfWidthDeg) / effectiveScanSpeedDegPerSec(MaxRangeNaiveM)
	}

	intervals := make([]scanInterval, len(tracks))
	for i, tr := range tracks {
		rel := cfg.RelativeBearing(tr.Position())
		_, dist := cfg.BearingFrom(tr.Position())
		intervals[i] = scanInterval{
			start:    rel - TargetPaddingAngleDeg,
			end:      rel + TargetPaddingAngleDeg,
			maxRange: dist,
		}
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

	oneWay := 0.0
	merged := intervals[0]
	for _, iv := range intervals[1:] {
		if iv.start <= merged.end {
			if iv.end > merged.end {
				merged.end = iv.end
			}
			if iv.maxRange > merged.maxRange {
				merged.maxRange = iv.maxRange
			}
			continue
		}
		oneWay += scanTime(merged)
		oneWay += (iv.start - merged.end) / SlewSpeedDegPerSec
		merged = iv
	}
	oneWay += scanTime(merged)

	return 2 * oneWay
}

// eligibleSonars returns the set of sonar indices eligible to take a track
// at the given predicted position, per spec §4.7: every sonar whose sector
// covers the bearing, or, if none do, the single closest sonar as a
// fallback.
func eligibleSonars(sonars []SonarConfig, pos simmath.Vector2) map[int]bool {
	eligible := make(map[int]bool)
	for i, s := range sonars {
		if s.InSector(pos) {
			eligible[i] = true
		}
	}
	if len(eligible) > 0 {
		return eligible
	}
	closest := 0
	bestDist := math.Inf(1)
	for i, s := range sonars {
		_, dist := s.BearingFrom(pos)
		if dist < bestDist {
			bestDist = dist
			closest = i
		}
	}
	eligible[closest] = true
	return eligible
}

// AssignPSO assigns every track to exactly one sonar, minimizing the
// worst-case estimated SCANNING cycle duration across sonars, per spec
// §4.7. It runs a standard continuous-position PSO swarm over one
// dimension per target (the target's sonar index, rounded at fitness-eval
// time), seeded so the same (seed, time bucket, target count) always
// reproduces the same assignment regardless of how often it's called
// within that PSO_UPDATE_INTERVAL_S bucket.
func AssignPSO(sonars []SonarConfig, tracks []*Track, seed uint32, nowSec float64) map[string]string {
	if len(tracks) == 0 || len(sonars) == 0 {
		return map[string]string{}
	}

	bucket := int64(math.Floor(nowSec / PSOUpdateIntervalS))
	stream := rng.NewKeyed(seed, "pso", fmt.Sprintf("%d", bucket), fmt.Sprintf("%d", len(tracks)))

	nTargets := len(tracks)
	nSonars := len(sonars)

	trackEligible := make([]map[int]bool, nTargets)
	for i, tr := range tracks {
		trackEligible[i] = eligibleSonars(sonars, tr.Position())
	}

	evaluate := func(pos []float64) (float64, []int) {
		assign := make([]int, nTargets)
		groups := make([][]*Track, nSonars)
		penalty := 0.0
		for i, v := range pos {
			idx := int(math.Round(v))
			if idx < 0 {
				penalty += PSOInvalidPenalty * float64(-idx)
				idx = 0
			} else if idx >= nSonars {
				penalty += PSOInvalidPenalty * float64(idx-nSonars+1)
				idx = nSonars - 1
			}
			if !trackEligible[i][idx] {
				penalty += PSOInvalidPenalty
			}
			assign[i] = idx
			groups[idx] = append(groups[idx], tracks[i])
		}
		worst := 0.0
		for s, grp := range groups {
			d := estimateCycleDuration(sonars[s], grp)
			if d > worst {
				worst = d
			}
		}
		return worst + penalty, assign
	}

	type particle struct {
		pos, vel, best []float64
		bestFitness    float64
	}

	particles := make([]particle, PSOSwarmSize)
	globalBest := make([]float64, nTargets)
	globalBestFitness := math.Inf(1)
	var globalAssign []int

	for p := range particles {
		pos := make([]float64, nTargets)
		vel := make([]float64, nTargets)
		for d := 0; d < nTargets; d++ {
			pos[d] = stream.Float64() * float64(nSonars)
			vel[d] = stream.Float64()*2 - 1
		}
		f, assign := evaluate(pos)
		particles[p] = particle{pos: pos, vel: vel, best: append([]float64(nil), pos...), bestFitness: f}
		if f < globalBestFitness {
			globalBestFitness = f
			globalBest = append([]float64(nil), pos...)
			globalAssign = assign
		}
	}

	for iter := 0; iter < PSOIterations; iter++ {
		for p := range particles {
			pt := &particles[p]
			for d := 0; d < nTargets; d++ {
				r1, r2 := stream.Float64(), stream.Float64()
				pt.vel[d] = PSOInertia*pt.vel[d] +
					PSOCognitive*r1*(pt.best[d]-pt.pos[d]) +
					PSOSocial*r2*(globalBest[d]-pt.pos[d])
				pt.pos[d] += pt.vel[d]
			}
			f, assign := evaluate(pt.pos)
			if f < pt.bestFitness {
				pt.bestFitness = f
				copy(pt.best, pt.pos)
			}
			if f < globalBestFitness {
				globalBestFitness = f
				globalBest = append([]float64(nil), pt.pos...)
				globalAssign = assign
			}
		}
	}

	result := make(map[string]string, nTargets)
	for i, tr := range tracks {
		result[tr.ID] = sonars[globalAssign[i]].ID
	}
	return result
}
