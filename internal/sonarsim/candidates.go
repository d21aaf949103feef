package sonarsim

import (
	"fmt"
	"math"
	"sort"

	"github.com/PH-19/sonarscan-sim/internal/rng"
	"github.com/PH-19/sonarscan-sim/internal/simmath"
)

// Candidate is a single detection produced by one sonar's pipeline for one
// frame, in world (Cartesian) coordinates. It also carries the originating
// sonar's mount geometry and the cluster's bin-space bounding box, so the
// evaluation harness can reconstruct a polar IoU against ground truth as
// seen from that same sonar (spec §4.8's "paper metric").
type Candidate struct {
	SonarID         string
	Position        simmath.Vector2
	MeasSigma       float64
	Amplitude       float64
	FrameID         int64
	TimeSec         float64
	SonarMount      simmath.Vector2
	SonarMountAngle float64
	AMin, AMax      int
	RMin, RMax      int
}

// clusterStats accumulates per-cluster statistics in bin space, used by both
// the plausibility filter and candidate construction.
type clusterStats struct {
	cellCount        int
	sumI             float64
	weightedA        float64 // sum(I * aIdx)
	weightedR        float64 // sum(I * rIdx)
	minA, maxA       int
	minR, maxR       int
	overlapLargeCells int
}

// collectClusterStats scans frame.Labels once and returns one clusterStats
// per cluster id (1-based; index 0 unused).
func collectClusterStats(frame *Frame, clusterCount int) []clusterStats {
	stats := make([]clusterStats, clusterCount+1)
	for id := 1; id <= clusterCount; id++ {
		stats[id].minA, stats[id].minR = ImagingFrameAngleBins, ImagingRangeBins
	}

	for i, label := range frame.Labels {
		if label <= 0 {
			continue
		}
		aIdx, rIdx := i/ImagingRangeBins, i%ImagingRangeBins
		s := &stats[label]
		amp := float64(frame.Subtracted[i])

		s.cellCount++
		s.sumI += amp
		s.weightedA += amp * float64(aIdx)
		s.weightedR += amp * float64(rIdx)
		if aIdx < s.minA {
			s.minA = aIdx
		}
		if aIdx > s.maxA {
			s.maxA = aIdx
		}
		if rIdx < s.minR {
			s.minR = rIdx
		}
		if rIdx > s.maxR {
			s.maxR = rIdx
		}
		if frame.MaskLarge[i] {
			s.overlapLargeCells++
		}
	}
	return stats
}

// physicallyPlausible implements spec §4.4 step 4c: a cluster survives only
// if its cross-range extent, range extent and aspect ratio all fall within
// the configured physical bounds for a human-scale target, and it overlaps
// sufficiently with the coarser maskLarge pass to rule out isolated
// small-kernel speckle.
func physicallyPlausible(s clusterStats, centroidR float64) bool {
	if s.cellCount == 0 {
		return false
	}
	overlapFrac := float64(s.overlapLargeCells) / float64(s.cellCount)
	if overlapFrac < DenoiseOverlapMin {
		return false
	}

	angSpanBins := float64(s.maxA - s.minA + 1)
	rangeSpanBins := float64(s.maxR - s.minR + 1)

	centroidRangeM := (centroidR + 0.5) * RangeStepM
	crossRangeM := angSpanBins * AngleStepRad * centroidRangeM
	rangeExtentM := rangeSpanBins * RangeStepM

	if crossRangeM < MinCrossRangeM || crossRangeM > MaxCrossRangeM {
		return false
	}
	if rangeExtentM < MinRangeExtentM || rangeExtentM > MaxRangeExtentM {
		return false
	}

	aspect := crossRangeM / rangeExtentM
	if aspect < MinAspect || aspect > MaxAspect {
		return false
	}
	return true
}

// buildCandidates runs the clustering-to-candidate tail of the detection
// pipeline for one frame (spec §4.4 steps 4b-4e and the candidate
// construction paragraph): DBSCAN over maskSmall, physical plausibility
// filtering, sumI-descending ranking capped at ImagingMaxClustersPerPing,
// and Cartesian candidate construction with measurement-sigma-scaled
// Gaussian jitter. threshold is the frame's weak-echo threshold (spec
// §4.4 step 3), needed by the measurement-sigma formula in step 5.
func buildCandidates(frame *Frame, cfg SonarConfig, tuning Tuning, seed uint32, nowSec, threshold float64) []Candidate {
	clusterCount := dbscanPolar(frame, frame.MaskSmall, tuning.DBSCANEpsBins, tuning.DBSCANMinPts)
	if clusterCount == 0 {
		return nil
	}

	stats := collectClusterStats(frame, clusterCount)

	type ranked struct {
		id         int
		s          clusterStats
		centroidA  float64
		centroidR  float64
	}
	survivors := make([]ranked, 0, clusterCount)
	for id := 1; id <= clusterCount; id++ {
		s := stats[id]
		if s.sumI <= 0 {
			continue
		}
		centroidA := s.weightedA / s.sumI
		centroidR := s.weightedR / s.sumI
		if !physicallyPlausible(s, centroidR) {
			continue
		}
		survivors = append(survivors, ranked{id: id, s: s, centroidA: centroidA, centroidR: centroidR})
	}

	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].s.sumI > survivors[j].s.sumI
	})
	if len(survivors) > ImagingMaxClustersPerPing {
		survivors = survivors[:ImagingMaxClustersPerPing]
	}

	absMin := cfg.AbsMin()
	timeBucketMs := int64(nowSec * 1000)
	out := make([]Candidate, 0, len(survivors))
	for i, r := range survivors {
		bearingDeg := absMin + (r.centroidA+0.5)*AngleStepDeg
		rangeM := (r.centroidR + 0.5) * RangeStepM

		rad := bearingDeg * math.Pi / 180
		pos := simmath.Vector2{
			X: cfg.Mount.X + rangeM*math.Cos(rad),
			Y: cfg.Mount.Y + rangeM*math.Sin(rad),
		}

		quantStd := math.Hypot(RangeStepM/math.Sqrt(12), rangeM*AngleStepRad/math.Sqrt(12))
		noiseSigma := NoiseToMeasSigmaM * (NoiseStd * tuning.NoiseScale / math.Max(0.05, threshold))
		measSigma := MeasSigmaBaseM + MeasSigmaPerM*rangeM + quantStd + noiseSigma

		jitterKey := rng.NewKeyed(seed, "meas", cfg.ID, fmt.Sprintf("%d", frame.FrameID), fmt.Sprintf("%d", timeBucketMs), fmt.Sprintf("%d", i))
		jx := jitterKey.Gaussian(0, measSigma*MeasJitterScale)
		jy := jitterKey.Gaussian(0, measSigma*MeasJitterScale)

		pos.X = simmath.Clamp(pos.X+jx, 0, PoolWidth)
		pos.Y = simmath.Clamp(pos.Y+jy, 0, PoolLength)

		out = append(out, Candidate{
			SonarID:         cfg.ID,
			Position:        pos,
			MeasSigma:       measSigma,
			Amplitude:       r.s.sumI,
			FrameID:         frame.FrameID,
			TimeSec:         nowSec,
			SonarMount:      cfg.Mount,
			SonarMountAngle: cfg.MountAngle,
			AMin:            r.s.minA,
			AMax:            r.s.maxA,
			RMin:            r.s.minR,
			RMax:            r.s.maxR,
		})
	}
	return out
}
