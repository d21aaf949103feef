package sonarsim

// FrameComparison is one tick's side-by-side snapshot of a NAIVE engine
// against an OPTIMIZED engine sharing the same seed and swimmer
// trajectories. Unlike MetricsRecorder's ground-truth-aware EvalMetrics,
// this is a ground-truth-blind diagnostic: it only compares what each
// engine produced against the other, never against the world.
type FrameComparison struct {
	TimeSec                  float64
	NaiveCandidateCount      int
	OptimizedCandidateCount  int
	NaiveFramesFinalized     int
	OptimizedFramesFinalized int
	Agreement                float64
}

// EvalHarness drives a NAIVE and an OPTIMIZED Engine through identical
// ticks and records how closely their per-tick output tracks each other.
// It is additive to, not a replacement for, MetricsRecorder: each Engine
// keeps recording its own ground-truth-aware samples independently.
type EvalHarness struct {
	Naive     *Engine
	Optimized *Engine
	history   []FrameComparison
}

// NewEvalHarness pairs a NAIVE and an OPTIMIZED engine for side-by-side
// comparison. Callers are responsible for seeding both engines identically
// and keeping their swimmer populations in sync before calling Tick.
func NewEvalHarness(naive, optimized *Engine) *EvalHarness {
	return &EvalHarness{Naive: naive, Optimized: optimized}
}

// Tick advances both engines by dt and records a FrameComparison for this
// step.
func (h *EvalHarness) Tick(dt float64) FrameComparison {
	h.Naive.Tick(dt)
	h.Optimized.Tick(dt)

	cmp := FrameComparison{
		TimeSec:                  h.Naive.TimeSec(),
		NaiveCandidateCount:      h.Naive.LastCandidateCount(),
		OptimizedCandidateCount:  h.Optimized.LastCandidateCount(),
		NaiveFramesFinalized:     h.Naive.LastFinalizedCount(),
		OptimizedFramesFinalized: h.Optimized.LastFinalizedCount(),
	}
	cmp.Agreement = candidateAgreement(cmp.NaiveCandidateCount, cmp.OptimizedCandidateCount)

	h.history = append(h.history, cmp)
	return cmp
}

// candidateAgreement scores how closely two candidate counts track each
// other: 1 when they match exactly (including both zero), shrinking toward
// 0 as their relative difference grows.
func candidateAgreement(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1
	}
	max := a
	if b > max {
		max = b
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(max)
}

// History returns a defensive copy of every FrameComparison recorded so
// far.
func (h *EvalHarness) History() []FrameComparison {
	out := make([]FrameComparison, len(h.history))
	copy(out, h.history)
	return out
}
