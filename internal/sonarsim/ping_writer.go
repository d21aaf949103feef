package sonarsim

import (
	"fmt"
	"math"

	"github.com/PH-19/sonarscan-sim/internal/rng"
	"github.com/PH-19/sonarscan-sim/internal/simmath"
)

// wallEchoSigmaBins and laneEchoSigmaBins are the Gaussian widths used for
// static geometry echoes; spec §4.3 specifies "a Gaussian (sigma in bins)"
// without pinning the exact width, so these are chosen to be a few range
// bins wide; at RangeStepM (about 0.2 m per bin) that is a physical return
// spread of a few tens of centimeters.
const (
	wallEchoSigmaBins = 1.5
	laneEchoSigmaBins = 1.2
	weakBandSigmaBins = 3.0
	weakBandStrength  = 0.4
	laneRelStrength   = 0.5
)

// column returns the contiguous slice of frame.Intensity for angle bin
// aIdx; the flat layout (index = aIdx*R + rIdx) makes a column contiguous.
func column(frame *Frame, aIdx int) []float32 {
	start := aIdx * ImagingRangeBins
	return frame.Intensity[start : start+ImagingRangeBins]
}

// addGaussianBump adds amplitude*exp(-0.5*((r-centerBin)/sigmaBins)^2) to
// each bin of col within [0, rMax], in place.
func addGaussianBump(col []float32, centerBin, amplitude, sigmaBins float64, rMax int) {
	if amplitude == 0 {
		return
	}
	// Three sigma is enough to cover the bump's support.
	lo := int(math.Floor(centerBin - 3*sigmaBins))
	hi := int(math.Ceil(centerBin + 3*sigmaBins))
	if lo < 0 {
		lo = 0
	}
	if hi > rMax {
		hi = rMax
	}
	for r := lo; r <= hi; r++ {
		d := (float64(r) - centerBin) / sigmaBins
		col[r] += float32(amplitude * math.Exp(-0.5*d*d))
	}
}

// rayUnitVector returns the unit direction vector for an absolute bearing
// in degrees.
func rayUnitVector(bearingDeg float64) (dx, dy float64) {
	rad := bearingDeg * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

// wallIntersectDist raycasts from origin in direction (dx,dy) against the
// four edges of the axis-aligned pool rectangle [0,width]x[0,length], per
// spec §4.3's "analytically intersect the bearing ray with the four pool
// edges". Returns the nearest positive intersection distance and whether
// one was found.
func wallIntersectDist(origin simmath.Vector2, dx, dy, width, length float64) (float64, bool) {
	best := math.Inf(1)
	found := false

	consider := func(t, otherCoord, otherMin, otherMax float64) {
		if t > 1e-9 && otherCoord >= otherMin && otherCoord <= otherMax && t < best {
			best = t
			found = true
		}
	}

	if dx < 0 {
		t := (0 - origin.X) / dx
		consider(t, origin.Y+t*dy, 0, length)
	} else if dx > 0 {
		t := (width - origin.X) / dx
		consider(t, origin.Y+t*dy, 0, length)
	}
	if dy < 0 {
		t := (0 - origin.Y) / dy
		consider(t, origin.X+t*dx, 0, width)
	} else if dy > 0 {
		t := (length - origin.Y) / dy
		consider(t, origin.X+t*dx, 0, width)
	}

	return best, found
}

// laneIntersectDist raycasts against the vertical lane line at x=xLane
// spanning y in [0,length]. Returns the intersection distance and whether
// one was found ahead of the origin.
func laneIntersectDist(origin simmath.Vector2, dx, dy, xLane, length float64) (float64, bool) {
	if dx == 0 {
		return 0, false
	}
	t := (xLane - origin.X) / dx
	if t <= 1e-9 {
		return 0, false
	}
	y := origin.Y + t*dy
	if y < 0 || y > length {
		return 0, false
	}
	return t, true
}

// writePing renders one angle column of frame for a single ping emitted
// at absolute bearingDeg, per spec §4.3. seed/sonarID/frameID/nowSec key
// the deterministic RNG streams; tuning supplies noiseScale/speckleProb;
// swimmers are the world's current targets.
func writePing(frame *Frame, cfg SonarConfig, tuning Tuning, seed uint32, bearingDeg, scanRange, nowSec float64, swimmers []*Swimmer) {
	absMin := cfg.AbsMin()
	aIdx := int(math.Floor((bearingDeg - absMin) / AngleStepDeg))
	aIdx = simmath.ClampInt(aIdx, 0, ImagingFrameAngleBins-1)

	rMax := int(math.Floor(scanRange / RangeStepM))
	rMax = simmath.ClampInt(rMax, 0, ImagingRangeBins-1)

	timeBucketMs := int64(nowSec * 1000)
	staticKey := fmt.Sprintf("%s|f%d|tb%d|a%d", cfg.ID, frame.FrameID, timeBucketMs, aIdx)
	staticStream := rng.NewKeyed(seed, "ping", staticKey)
	dynStream := rng.NewKeyed(seed, "dyn", staticKey)

	col := column(frame, aIdx)

	for r := 0; r <= rMax; r++ {
		v := NoiseFloor + staticStream.Gaussian(0, NoiseStd*tuning.NoiseScale)
		if v < 0 {
			v = 0
		}
		if staticStream.Float64() < tuning.SpeckleProb {
			u := staticStream.Float64()
			v += SpeckleStrength * (1/math.Pow(1-u, 1/2.2) - 1)
		}
		// Overwrites rather than accumulates: BeginNext seeds Intensity from
		// Background so an observed cell's noise floor replaces that seed
		// instead of stacking on top of it, keeping subtractBackground's
		// intensity-minus-background difference equal to the ping's own
		// signal rather than cancelling to zero.
		col[r] = float32(v)
	}

	if dynStream.Float64() < WeakBandProb {
		bumpCenter := dynStream.Float64() * float64(rMax)
		addGaussianBump(col, bumpCenter, weakBandStrength, weakBandSigmaBins, rMax)
	}

	dx, dy := rayUnitVector(bearingDeg)
	mount := cfg.Mount

	if wallDist, ok := wallIntersectDist(mount, dx, dy, PoolWidth, PoolLength); ok && wallDist <= scanRange {
		wallBin := wallDist / RangeStepM
		addGaussianBump(col, wallBin, StaticWallEchoStrength, wallEchoSigmaBins, rMax)

		ghostRange := wallDist + GhostRangeOffsetM*(0.6+0.8*dynStream.Float64())
		if ghostRange <= scanRange {
			ghostBin := ghostRange / RangeStepM
			addGaussianBump(col, ghostBin, StaticWallEchoStrength*GhostRelStrength, wallEchoSigmaBins, rMax)
		}
	}

	for lane := 1; lane < PoolLaneCount; lane++ {
		xLane := PoolWidth * float64(lane) / float64(PoolLaneCount)
		if laneDist, ok := laneIntersectDist(mount, dx, dy, xLane, PoolLength); ok && laneDist <= scanRange {
			laneBin := laneDist / RangeStepM
			addGaussianBump(col, laneBin, StaticWallEchoStrength*laneRelStrength, laneEchoSigmaBins, rMax)
		}
	}

	for _, sw := range swimmers {
		swBearing, dist := cfg.BearingFrom(sw.Position)
		if dist > scanRange {
			continue
		}
		if math.Abs(simmath.SignedDeltaDeg(bearingDeg, swBearing)) > ImagingFOVDeg/2 {
			continue
		}
		amp := EchoStrength * math.Exp(-dist/AttenuationM)
		distBin := dist / RangeStepM
		addGaussianBump(col, distBin, amp, ImagingBlobRadiusBins, rMax)

		ghostRange := dist + GhostRangeOffsetM*(0.6+0.8*dynStream.Float64())
		if ghostRange <= scanRange {
			ghostBin := ghostRange / RangeStepM
			addGaussianBump(col, ghostBin, amp*GhostRelStrength, ImagingBlobRadiusBins, rMax)
		}
	}

	frame.ObservedAngles[aIdx] = true
}
