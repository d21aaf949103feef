package sonarsim

import (
	"fmt"

	"github.com/PH-19/sonarscan-sim/internal/simmath"
)

// Strategy selects which Planner an Engine's sonars use.
type Strategy int

const (
	StrategyNaive Strategy = iota
	StrategyOptimized
)

func (s Strategy) String() string {
	if s == StrategyOptimized {
		return "OPTIMIZED"
	}
	return "NAIVE"
}

// Engine is the top-level simulation object: one world, four sonars, a
// planner, the resulting track population, and an evaluation harness. Two
// Engines sharing a seed (one NAIVE, one OPTIMIZED) run the same swimmer
// trajectories and the same ping-level sensor noise; only their sonars'
// scheduling differs.
type Engine struct {
	strategy Strategy
	seed     uint32
	tuning   Tuning

	world  *World
	sonars []*Sonar

	planner      Planner
	tracks       map[string]*Track
	nextTrackSeq int
	assignments  map[string]string // trackID -> sonarID; OPTIMIZED only

	nowSec  float64
	metrics *MetricsRecorder

	lastCandidateCount int // candidates produced by the most recent Tick
	lastFinalizedCount int // frames finalized by the most recent Tick
}

// NewEngine creates an Engine at t=0 with four default-mounted sonars,
// default tuning, and an empty world, seeded deterministically by seed.
func NewEngine(strategy Strategy, seed uint32) *Engine {
	e := &Engine{
		strategy:    strategy,
		seed:        seed,
		tuning:      DefaultTuning(),
		world:       NewWorld(seed),
		tracks:      make(map[string]*Track),
		assignments: make(map[string]string),
		metrics:     NewMetricsRecorder(),
	}
	for _, cfg := range DefaultSonarConfigs() {
		e.sonars = append(e.sonars, NewSonar(cfg))
	}
	if strategy == StrategyOptimized {
		e.planner = OptimizedPlanner{}
	} else {
		e.planner = NaivePlanner{}
	}
	return e
}

// SetTuning merges partial over the engine's current tuning.
func (e *Engine) SetTuning(partial TuningPartial) {
	e.tuning = e.tuning.Merge(partial)
}

// AddSwimmer adds a swimmer to the world at the engine's current time.
func (e *Engine) AddSwimmer(id string, pos, vel simmath.Vector2) *Swimmer {
	return e.world.AddSwimmer(id, pos, vel, e.nowSec)
}

// RemoveSwimmerByID removes a swimmer from the world; returns false if no
// such swimmer existed.
func (e *Engine) RemoveSwimmerByID(id string) bool {
	return e.world.RemoveByID(id)
}

// Strategy reports which planner this engine runs.
func (e *Engine) Strategy() Strategy { return e.strategy }

// TimeSec reports the engine's current simulation time.
func (e *Engine) TimeSec() float64 { return e.nowSec }

// Sonars returns the engine's sonars, in fixed order.
func (e *Engine) Sonars() []*Sonar { return e.sonars }

// Swimmers returns the world's current swimmers, in stable insertion order.
func (e *Engine) Swimmers() []*Swimmer { return e.world.Swimmers() }

// OptimizedAssignments returns a copy of the current track-id -> sonar-id
// PSO assignment map (empty for a NAIVE engine).
func (e *Engine) OptimizedAssignments() map[string]string {
	out := make(map[string]string, len(e.assignments))
	for k, v := range e.assignments {
		out[k] = v
	}
	return out
}

// Tick advances the simulation by dt seconds: the world steps, every sonar
// plans and moves, finalized frames feed candidates into track maintenance,
// the OPTIMIZED engine re-runs cross-sonar PSO assignment, and the tick's
// ground-truth-aware evaluation sample is recorded. dt <= 0 is a no-op.
func (e *Engine) Tick(dt float64) {
	if dt <= 0 {
		return
	}

	e.world.Step(e.nowSec, dt)
	swimmers := e.world.Swimmers()

	tracksBySonar := e.tracksForPlanner()

	var finalizedSonarIDs []string
	var allCandidates []Candidate
	for _, sonar := range e.sonars {
		cands, finalized := tickSonar(sonar, e.planner, tracksBySonar[sonar.Config.ID], e.tuning, e.seed, swimmers, e.nowSec, dt)
		if finalized {
			finalizedSonarIDs = append(finalizedSonarIDs, sonar.Config.ID)
		}
		if cands != nil {
			allCandidates = append(allCandidates, cands...)
		}
	}

	e.updateTracks(allCandidates, dt)

	if e.strategy == StrategyOptimized {
		e.reassign()
	}

	e.recordMetrics(swimmers, allCandidates, finalizedSonarIDs)

	e.lastCandidateCount = len(allCandidates)
	e.lastFinalizedCount = len(finalizedSonarIDs)

	e.nowSec += dt
}

// LastCandidateCount reports the total candidate count produced across all
// sonars by the most recent Tick.
func (e *Engine) LastCandidateCount() int { return e.lastCandidateCount }

// LastFinalizedCount reports how many sonars finalized a frame on the most
// recent Tick.
func (e *Engine) LastFinalizedCount() int { return e.lastFinalizedCount }

// tracksForPlanner groups this engine's live tracks by the sonar PSO has
// assigned them to. A NAIVE engine's planner ignores its argument entirely,
// so an empty map is fine there. Per spec §4.6 step 1, a sonar with no
// PSO-assigned tracks falls back to seeing every live track (the planner
// itself then filters to its own 90° sector).
func (e *Engine) tracksForPlanner() map[string][]*Track {
	out := make(map[string][]*Track, len(e.sonars))
	if e.strategy != StrategyOptimized {
		return out
	}
	for trackID, sonarID := range e.assignments {
		tr, ok := e.tracks[trackID]
		if !ok || tr.Status == TrackDeleted {
			continue
		}
		out[sonarID] = append(out[sonarID], tr)
	}

	var allLive []*Track
	for _, sonar := range e.sonars {
		if len(out[sonar.Config.ID]) > 0 {
			continue
		}
		if allLive == nil {
			for _, tr := range e.tracks {
				if tr.Status != TrackDeleted {
					allLive = append(allLive, tr)
				}
			}
			if allLive == nil {
				allLive = []*Track{}
			}
		}
		out[sonar.Config.ID] = allLive
	}
	return out
}

// updateTracks matches this tick's candidates against live tracks, hits or
// misses each track accordingly, starts new tentative tracks for leftover
// candidates, and drops tracks that crossed into TrackDeleted.
func (e *Engine) updateTracks(candidates []Candidate, dt float64) {
	live := make([]*Track, 0, len(e.tracks))
	for _, tr := range e.tracks {
		if tr.Status != TrackDeleted {
			tr.predict(dt)
			live = append(live, tr)
		}
	}

	assignment := matchCandidatesToTracks(live, candidates)
	matchedCand := make([]bool, len(candidates))
	for i, tr := range live {
		ci := assignment[i]
		if ci < 0 {
			tr.miss(e.nowSec)
			continue
		}
		c := candidates[ci]
		tr.hit(c.Position, c.MeasSigma, e.nowSec)
		matchedCand[ci] = true
	}

	for ci, c := range candidates {
		if matchedCand[ci] {
			continue
		}
		e.nextTrackSeq++
		id := fmt.Sprintf("trk-%d", e.nextTrackSeq)
		e.tracks[id] = newTrack(id, c.Position, e.nowSec)
	}

	for id, tr := range e.tracks {
		if tr.Status == TrackDeleted {
			delete(e.tracks, id)
			delete(e.assignments, id)
		}
	}
}

// reassign re-runs PSO cross-sonar assignment over this engine's live
// tracks.
func (e *Engine) reassign() {
	live := make([]*Track, 0, len(e.tracks))
	for _, tr := range e.tracks {
		live = append(live, tr)
	}
	sonarConfigs := make([]SonarConfig, len(e.sonars))
	for i, s := range e.sonars {
		sonarConfigs[i] = s.Config
	}
	e.assignments = AssignPSO(sonarConfigs, live, e.seed, e.nowSec)
}

// recordMetrics appends this tick's ground-truth-aware evaluation sample.
func (e *Engine) recordMetrics(swimmers []*Swimmer, candidates []Candidate, finalizedSonarIDs []string) {
	gt := make([]simmath.Vector2, len(swimmers))
	gtIDs := make([]string, len(swimmers))
	enteredAt := make([]float64, len(swimmers))
	for i, s := range swimmers {
		gt[i] = s.Position
		gtIDs[i] = s.ID
		enteredAt[i] = s.EnteredAt
	}

	confirmed := make([]simmath.Vector2, 0, len(e.tracks))
	for _, tr := range e.tracks {
		if tr.Status == TrackConfirmed {
			confirmed = append(confirmed, tr.Position())
		}
	}

	e.metrics.Record(MetricsSample{
		TimeSec:           e.nowSec,
		GroundTruth:       gt,
		GroundTruthIDs:    gtIDs,
		EnteredAt:         enteredAt,
		Candidates:        candidates,
		ConfirmedTracks:   confirmed,
		FinalizedSonarIDs: finalizedSonarIDs,
		NumSonars:         len(e.sonars),
	})
}

// Metrics computes the sliding-window evaluation snapshot over the last
// windowSec of recorded ticks.
func (e *Engine) Metrics(windowSec float64) EvalMetrics {
	return e.metrics.Compute(windowSec)
}
