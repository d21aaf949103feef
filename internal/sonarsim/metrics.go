package sonarsim

import (
	"math"
	"sort"

	"github.com/PH-19/sonarscan-sim/internal/simmath"
)

// MetricsSample is one engine tick's ground-truth-aware evaluation snapshot,
// recorded by the engine for the sliding-window metrics computation. It is
// intentionally separate from what a planner is allowed to see: only the
// evaluation harness, never a Planner, reads ground truth.
type MetricsSample struct {
	TimeSec           float64
	GroundTruth       []simmath.Vector2
	GroundTruthIDs    []string  // aligned 1:1 with GroundTruth
	EnteredAt         []float64 // aligned 1:1 with GroundTruth
	Candidates        []Candidate
	ConfirmedTracks   []simmath.Vector2
	FinalizedSonarIDs []string // sonar ids that finalized a frame this tick
	NumSonars         int
}

// EvalMetrics is the sliding-window summary computed over a MetricsRecorder,
// per spec §6's EvalMetrics field list.
type EvalMetrics struct {
	WindowSec   float64
	SampleCount int

	ActiveSwimmers int

	AverageAgeOfInfoSec float64
	P90AgeOfInfoSec     float64
	Freshness           float64

	AvgScanRateHz         float64
	AvgRevisitIntervalSec float64

	TrackingRMSEm     float64
	P90TrackingErrorM float64

	FalseAlarmsPerSec float64
	DetectionHitRate  float64

	MeanLocalizationErrorM float64
	RMSELocalizationErrorM float64
	P90LocalizationErrorM  float64

	TimeToFirstDetectionS      float64
	P90TimeToFirstDetectionSec float64

	Precision           float64
	Recall              float64
	F1                  float64
	MissedDetectionRate float64
	MeanIoU             float64

	FramesPerSecond float64
	TrackingRate    float64
}

// MetricsRecorder accumulates MetricsSamples and prunes anything older than
// the requested window at compute time.
type MetricsRecorder struct {
	samples          []MetricsSample
	firstDetectionAt map[string]float64 // keyed by a stable ground-truth id
}

// NewMetricsRecorder creates an empty recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{firstDetectionAt: make(map[string]float64)}
}

// Record appends one tick's snapshot, tracking first-detection times for
// time-to-first-detection.
func (r *MetricsRecorder) Record(sample MetricsSample) {
	r.samples = append(r.samples, sample)
	for i, gt := range sample.GroundTruth {
		if i >= len(sample.GroundTruthIDs) {
			break
		}
		id := sample.GroundTruthIDs[i]
		if _, seen := r.firstDetectionAt[id]; seen {
			continue
		}
		if nearestWithin(gt, sample.Candidates, MatchGateRadiusM) {
			r.firstDetectionAt[id] = sample.TimeSec
		}
	}
}

func nearestWithin(p simmath.Vector2, cands []Candidate, gate float64) bool {
	for _, c := range cands {
		if p.Dist(c.Position) <= gate {
			return true
		}
	}
	return false
}

// candidateGTIoU computes the IoU, in the originating sonar's polar
// bin space, between a candidate's cluster bbox and gt's ground-truth
// bbox as seen from that same sonar, per spec §4.8's paper metric: the
// GT bbox is centered on gt's true bearing/range from the candidate's
// sonar mount, with a half-extent of
// max(IMAGING_FOV_DEG/2, atan((diam/2)/dist)) in angle bins and
// max(IMAGING_BLOB_RADIUS_BINS, (diam/2)/rangeStep) in range bins.
func candidateGTIoU(c Candidate, gt simmath.Vector2) float64 {
	cfg := SonarConfig{Mount: c.SonarMount, MountAngle: c.SonarMountAngle}
	relBearing := cfg.RelativeBearing(gt)
	_, dist := cfg.BearingFrom(gt)

	aCenterBin := (relBearing + SonarSweepHalfWidthDeg) / AngleStepDeg
	rCenterBin := dist / RangeStepM

	halfADeg := math.Max(ImagingFOVDeg/2, math.Atan((SimSwimmerDiameterM/2)/dist)*180/math.Pi)
	halfABins := halfADeg / AngleStepDeg
	halfRBins := math.Max(ImagingBlobRadiusBins, (SimSwimmerDiameterM/2)/RangeStepM)

	gtAMin, gtAMax := aCenterBin-halfABins, aCenterBin+halfABins
	gtRMin, gtRMax := rCenterBin-halfRBins, rCenterBin+halfRBins

	candAMin, candAMax := float64(c.AMin), float64(c.AMax)+1
	candRMin, candRMax := float64(c.RMin), float64(c.RMax)+1

	return polarBoxIoU(candAMin, candAMax, candRMin, candRMax, gtAMin, gtAMax, gtRMin, gtRMax)
}

// polarBoxIoU computes the intersection-over-union of two axis-aligned
// boxes given as (min,max) edge pairs on each axis.
func polarBoxIoU(aMin1, aMax1, rMin1, rMax1, aMin2, aMax2, rMin2, rMax2 float64) float64 {
	ia0, ir0 := math.Max(aMin1, aMin2), math.Max(rMin1, rMin2)
	ia1, ir1 := math.Min(aMax1, aMax2), math.Min(rMax1, rMax2)
	iw, ih := ia1-ia0, ir1-ir0
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	area1 := (aMax1 - aMin1) * (rMax1 - rMin1)
	area2 := (aMax2 - aMin2) * (rMax2 - rMin2)
	union := area1 + area2 - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// iouPair is one eligible candidate-GT pairing considered by the greedy
// descending-IoU matcher.
type iouPair struct {
	gi, ci int
	iou    float64
}

// iouMatchFrame implements spec §4.8's IoU matching (the paper metric):
// candidates and ground-truth swimmers pair greedily by descending IoU,
// gated by both the IoU threshold and the Cartesian distance gate,
// one-to-one. Returns this frame's tp/fp/fn and the summed IoU of matched
// pairs.
func iouMatchFrame(gt []simmath.Vector2, cands []Candidate) (tp, fp, fn int, iouSum float64) {
	pairs := make([]iouPair, 0, len(gt)*len(cands))
	for gi, g := range gt {
		for ci, c := range cands {
			if g.Dist(c.Position) > MatchGateRadiusM {
				continue
			}
			iou := candidateGTIoU(c, g)
			if iou < AquascanIoUMatchThreshold {
				continue
			}
			pairs = append(pairs, iouPair{gi: gi, ci: ci, iou: iou})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].iou > pairs[j].iou })

	gtTaken := make([]bool, len(gt))
	candTaken := make([]bool, len(cands))
	for _, p := range pairs {
		if gtTaken[p.gi] || candTaken[p.ci] {
			continue
		}
		gtTaken[p.gi] = true
		candTaken[p.ci] = true
		tp++
		iouSum += p.iou
	}
	for _, taken := range gtTaken {
		if !taken {
			fn++
		}
	}
	for _, taken := range candTaken {
		if !taken {
			fp++
		}
	}
	return
}

// Compute reduces the samples within the last windowSec of the most recent
// sample into an EvalMetrics snapshot. Returns an EvalMetrics with only
// WindowSec set if no samples have been recorded.
func (r *MetricsRecorder) Compute(windowSec float64) EvalMetrics {
	if len(r.samples) == 0 {
		return EvalMetrics{WindowSec: windowSec}
	}
	nowSec := r.samples[len(r.samples)-1].TimeSec
	cutoff := nowSec - windowSec

	var window []MetricsSample
	for _, s := range r.samples {
		if s.TimeSec >= cutoff {
			window = append(window, s)
		}
	}
	if len(window) == 0 {
		return EvalMetrics{WindowSec: windowSec}
	}

	var (
		distTP, distFP, distFN int
		iouTP, iouFP, iouFN    int
		iouSumTotal            float64
		locErrors              []float64
		trackingErrors         []float64
		ageSamples             []float64
		freshSum               float64
		trackedFrac            float64
		finalizedCount         int
		numSonars              int
	)
	lastSeen := make(map[int]float64) // ground-truth slot index -> last match time
	lastFinalizeTime := make(map[string]float64)
	var revisitGaps []float64

	for _, s := range window {
		if s.NumSonars > numSonars {
			numSonars = s.NumSonars
		}

		matchedGT := make([]bool, len(s.GroundTruth))
		matchedCand := make([]bool, len(s.Candidates))

		for gi, gt := range s.GroundTruth {
			best := -1
			bestDist := math.Inf(1)
			for ci, c := range s.Candidates {
				if matchedCand[ci] {
					continue
				}
				d := gt.Dist(c.Position)
				if d <= MatchGateRadiusM && d < bestDist {
					bestDist = d
					best = ci
				}
			}
			if best >= 0 {
				matchedGT[gi] = true
				matchedCand[best] = true
				distTP++
				locErrors = append(locErrors, bestDist)
				lastSeen[gi] = s.TimeSec
			}
		}
		for gi := range s.GroundTruth {
			if !matchedGT[gi] {
				distFN++
			}
			age := s.TimeSec - lastSeen[gi]
			if _, ok := lastSeen[gi]; !ok {
				age = s.TimeSec
			}
			ageSamples = append(ageSamples, age)
			if age <= windowSec/10 {
				freshSum++
			}
		}
		for ci := range s.Candidates {
			if !matchedCand[ci] {
				distFP++
			}
		}

		tp, fp, fn, iouSum := iouMatchFrame(s.GroundTruth, s.Candidates)
		iouTP += tp
		iouFP += fp
		iouFN += fn
		iouSumTotal += iouSum

		confirmedForGT := 0
		for _, gt := range s.GroundTruth {
			bestTrack := math.Inf(1)
			found := false
			for _, trPos := range s.ConfirmedTracks {
				d := gt.Dist(trPos)
				if d <= MatchGateRadiusM && d < bestTrack {
					bestTrack = d
					found = true
				}
			}
			if found {
				trackingErrors = append(trackingErrors, bestTrack)
				confirmedForGT++
			}
		}
		if len(s.GroundTruth) > 0 {
			trackedFrac += float64(confirmedForGT) / float64(len(s.GroundTruth))
		} else {
			trackedFrac += 1
		}

		for _, sonarID := range s.FinalizedSonarIDs {
			if last, ok := lastFinalizeTime[sonarID]; ok {
				revisitGaps = append(revisitGaps, s.TimeSec-last)
			}
			lastFinalizeTime[sonarID] = s.TimeSec
		}
		finalizedCount += len(s.FinalizedSonarIDs)
	}

	last := window[len(window)-1]

	metrics := EvalMetrics{
		WindowSec:      windowSec,
		SampleCount:    len(window),
		ActiveSwimmers: len(last.GroundTruth),
	}

	if len(ageSamples) > 0 {
		metrics.AverageAgeOfInfoSec = simmath.Mean(ageSamples)
		metrics.P90AgeOfInfoSec = simmath.Quantile(ageSamples, 0.9)
		metrics.Freshness = freshSum / float64(len(ageSamples))
	}

	if iouTP+iouFP > 0 {
		metrics.Precision = float64(iouTP) / float64(iouTP+iouFP)
	}
	if iouTP+iouFN > 0 {
		metrics.Recall = float64(iouTP) / float64(iouTP+iouFN)
		metrics.MissedDetectionRate = float64(iouFN) / float64(iouTP+iouFN)
	}
	if metrics.Precision+metrics.Recall > 0 {
		metrics.F1 = 2 * metrics.Precision * metrics.Recall / (metrics.Precision + metrics.Recall)
	}
	if iouTP > 0 {
		metrics.MeanIoU = iouSumTotal / float64(iouTP)
	}

	if distTP+distFN > 0 {
		metrics.DetectionHitRate = float64(distTP) / float64(distTP+distFN)
	}

	if len(locErrors) > 0 {
		metrics.MeanLocalizationErrorM = simmath.Mean(locErrors)
		metrics.P90LocalizationErrorM = simmath.Quantile(locErrors, 0.9)
		sq := make([]float64, len(locErrors))
		for i, e := range locErrors {
			sq[i] = e * e
		}
		metrics.RMSELocalizationErrorM = math.Sqrt(simmath.Mean(sq))
	}

	if len(trackingErrors) > 0 {
		metrics.P90TrackingErrorM = simmath.Quantile(trackingErrors, 0.9)
		sq := make([]float64, len(trackingErrors))
		for i, e := range trackingErrors {
			sq[i] = e * e
		}
		metrics.TrackingRMSEm = math.Sqrt(simmath.Mean(sq))
	}

	span := window[len(window)-1].TimeSec - window[0].TimeSec
	if span > 0 {
		metrics.FalseAlarmsPerSec = float64(distFP) / span
		if numSonars > 0 {
			metrics.FramesPerSecond = float64(finalizedCount) / span / float64(numSonars)
		}
	}
	metrics.AvgScanRateHz = metrics.FramesPerSecond
	if len(revisitGaps) > 0 {
		metrics.AvgRevisitIntervalSec = simmath.Mean(revisitGaps)
	}

	metrics.TrackingRate = trackedFrac / float64(len(window))

	var ttfdSamples []float64
	for i, id := range last.GroundTruthIDs {
		if i >= len(last.EnteredAt) {
			break
		}
		enteredAt := last.EnteredAt[i]
		if enteredAt < cutoff {
			continue
		}
		if fd, ok := r.firstDetectionAt[id]; ok {
			ttfdSamples = append(ttfdSamples, fd-enteredAt)
		} else {
			ttfdSamples = append(ttfdSamples, nowSec-enteredAt)
		}
	}
	if len(ttfdSamples) > 0 {
		metrics.TimeToFirstDetectionS = simmath.Mean(ttfdSamples)
		metrics.P90TimeToFirstDetectionSec = simmath.Quantile(ttfdSamples, 0.9)
	}

	return metrics
}
