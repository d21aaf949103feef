package sonarsim

import "math"

// Compile-time constants from spec §6. Names are the Go CamelCase forms of
// the spec's SCREAMING_SNAKE_CASE names (POOL_WIDTH is PoolWidth,
// MATCH_GATE_RADIUS_M is MatchGateRadiusM), some with a unit suffix added.
const (
	// Pool geometry.
	PoolWidth  = 20.0 // meters
	PoolLength = 50.0 // meters

	// Acoustics / motion.
	SpeedOfSound                = 1500.0  // m/s
	SlewSpeedDegPerSec          = 45.0    // deg/s, non-emitting rotation
	ScanStepAngleDeg            = 1.0     // deg, per-ping advance
	Ping360ProcessingOverheadS  = 0.002   // s, per-ping overhead
	MaxRangeNaiveM              = 50.0    // m, commanded max range
	MinPingIntervalS            = 0.01    // s, floor on ping interval

	// Polar image geometry.
	ImagingFrameAngleBins = 90  // A
	ImagingRangeBins      = 256 // R
	ImagingFOVDeg         = 2.0 // per-ping horizontal FOV, degrees
	ImagingMaxClustersPerPing = 8
	ImagingBlobRadiusBins     = 2.0
	ImagingBackgroundWarmupFrames = 20

	// Detection pipeline.
	AquascanKernelCap      = 11
	WeakEchoPercentile     = 0.90
	WeakEchoMin            = 0.15
	WarmupAlpha            = 0.35
	BackgroundAlpha        = 0.05
	BackgroundUpdateSlack  = 0.05
	MinKernelSize          = 3
	KernelSizeStep         = 2
	DenoiseOverlapMin      = 0.5
	MinCrossRangeM         = 0.15
	MaxCrossRangeM         = 3.0
	MinRangeExtentM        = 0.1
	MaxRangeExtentM        = 4.0
	MinAspect              = 0.15
	MaxAspect              = 6.0

	// Measurement model.
	MeasSigmaBaseM        = 0.05
	MeasSigmaPerM         = 0.01
	MeasJitterScale       = 1.0
	NoiseToMeasSigmaM     = 0.3

	// Ping writer noise/clutter model.
	NoiseFloor               = 0.05
	NoiseStd                 = 0.08
	SpeckleStrength          = 0.6
	WeakBandProb             = 0.02
	StaticWallEchoStrength   = 0.9
	GhostRelStrength         = 0.35
	GhostRangeOffsetM        = 0.6
	EchoStrength             = 1.0
	AttenuationM             = 35.0
	PoolLaneCount            = 6

	// Matching / evaluation gates.
	MatchGateRadiusM           = 2.5
	AquascanIoUMatchThreshold  = 0.1
	SimSwimmerDiameterM        = 0.5

	// Sonar FOV / mounting.
	SonarSweepHalfWidthDeg = 45.0

	// Optimized planner.
	TargetPaddingAngleDeg  = 5.0
	TargetPaddingRangeM    = 2.0
	OptSweepMinDeg         = 20.0
	OptSweepReplanDeg      = 8.0
	OptSweepMaxHoldSec     = 1.5

	// PSO assignment.
	PSOUpdateIntervalS = 0.8
	PSOSwarmSize       = 16
	PSOIterations      = 20
	PSOInertia         = 0.6
	PSOCognitive       = 1.4
	PSOSocial          = 1.4
	PSOInvalidPenalty  = 5.0

	// Kalman tracker.
	KalmanAccelStdDevMPS2    = 0.5
	KalmanInitialPosVarM2    = 1.0
	KalmanInitialVelVarM2S2  = 4.0
	TrackHitsToConfirm       = 3
	TrackDeletedGracePeriodS = 2.0

	// Metrics.
	DefaultWindowSec = 10.0
)

// RangeStepM is the fixed range-bin resolution of the polar frame buffer,
// derived from MAX_RANGE_NAIVE and the range-bin count per spec §4.4 step 4d
// ("rangeStep = MAX_RANGE_NAIVE / R"). A sonar scanning at a shorter
// commanded range simply leaves the outer bins unwritten for that frame;
// the bin pitch itself never changes.
const RangeStepM = MaxRangeNaiveM / ImagingRangeBins

// AngleStepDeg is the angular resolution of a 90-degree sector frame.
const AngleStepDeg = float64(SonarSweepHalfWidthDeg*2) / ImagingFrameAngleBins

// AngleStepRad is AngleStepDeg in radians.
var AngleStepRad = AngleStepDeg * math.Pi / 180
