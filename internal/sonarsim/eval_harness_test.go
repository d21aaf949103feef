package sonarsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateAgreement_BothZeroIsFullAgreement(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, candidateAgreement(0, 0))
}

func TestCandidateAgreement_ExactMatchIsFullAgreement(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, candidateAgreement(3, 3))
}

func TestCandidateAgreement_ShrinksWithRelativeDifference(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, candidateAgreement(1, 2), 1e-9)
	assert.InDelta(t, 0.0, candidateAgreement(0, 4), 1e-9)
}

func TestEvalHarness_TickRecordsComparisonForBothEngines(t *testing.T) {
	t.Parallel()

	naive := NewEngine(StrategyNaive, 42)
	optimized := NewEngine(StrategyOptimized, 42)
	h := NewEvalHarness(naive, optimized)

	cmp := h.Tick(0.1)
	assert.Equal(t, naive.TimeSec(), cmp.TimeSec)
	assert.Equal(t, naive.LastCandidateCount(), cmp.NaiveCandidateCount)
	assert.Equal(t, optimized.LastCandidateCount(), cmp.OptimizedCandidateCount)
	assert.GreaterOrEqual(t, cmp.Agreement, 0.0)
	assert.LessOrEqual(t, cmp.Agreement, 1.0)

	history := h.History()
	require.Len(t, history, 1)
	assert.Equal(t, cmp, history[0])
}

func TestEvalHarness_HistoryAccumulatesAcrossTicks(t *testing.T) {
	t.Parallel()

	naive := NewEngine(StrategyNaive, 7)
	optimized := NewEngine(StrategyOptimized, 7)
	h := NewEvalHarness(naive, optimized)

	for i := 0; i < 5; i++ {
		h.Tick(0.1)
	}

	assert.Len(t, h.History(), 5)
}

func TestEvalHarness_HistoryIsADefensiveCopy(t *testing.T) {
	t.Parallel()

	naive := NewEngine(StrategyNaive, 1)
	optimized := NewEngine(StrategyOptimized, 1)
	h := NewEvalHarness(naive, optimized)
	h.Tick(0.1)

	history := h.History()
	history[0].TimeSec = -999

	assert.NotEqual(t, -999.0, h.History()[0].TimeSec)
}
