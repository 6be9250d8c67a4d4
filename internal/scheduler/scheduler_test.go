package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/saltfish/pairscan/internal/config"
	"github.com/saltfish/pairscan/internal/domain"
)

// mockPipeline records which pairs it saw and returns canned outcomes.
type mockPipeline struct {
	mu        sync.Mutex
	processed []string
	skipPairs map[string]error
	delay     time.Duration
}

func newMockPipeline() *mockPipeline {
	return &mockPipeline{skipPairs: make(map[string]error)}
}

func (m *mockPipeline) Process(ctx context.Context, pair *domain.Pair) *domain.PairOutcome {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
		}
	}

	m.mu.Lock()
	m.processed = append(m.processed, pair.Name)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return &domain.PairOutcome{Pair: pair.Name, Skip: domain.NewSkipError(pair.Name, err)}
	}
	if reason, ok := m.skipPairs[pair.Name]; ok {
		return &domain.PairOutcome{Pair: pair.Name, Skip: domain.NewSkipError(pair.Name, reason)}
	}
	return &domain.PairOutcome{
		Pair:  pair.Name,
		Coint: &domain.CointegrationResult{Pair: pair.Name, IsCointegrated: true},
	}
}

func testPairs(t *testing.T, names ...string) []*domain.Pair {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{start, start.Add(time.Hour)}
	var pairs []*domain.Pair
	for _, name := range names {
		pair, err := domain.NewPair(name, name+"X", times, []float64{1, 2}, []float64{3, 4})
		require.NoError(t, err)
		pairs = append(pairs, pair)
	}
	return pairs
}

func TestScheduler_ProcessesAllPairs(t *testing.T) {
	pipeline := newMockPipeline()
	cfg := &config.SchedulerConfig{MaxConcurrentPairs: 3}
	sched := NewScheduler(cfg, pipeline, zaptest.NewLogger(t))

	pairs := testPairs(t, "E", "D", "C", "B", "A")
	run := domain.NewScanRun(domain.RunModeScan)
	outcomes := sched.Run(context.Background(), run, pairs)

	require.Len(t, outcomes, 5)
	assert.Len(t, pipeline.processed, 5)
	assert.Equal(t, 5, run.PairsTotal)
	assert.Equal(t, 5, run.PairsOK)
	assert.Equal(t, 0, run.PairsSkip)
	require.NotNil(t, run.CompletedAt)

	// Outcomes come back sorted by pair regardless of worker interleaving.
	for i := 1; i < len(outcomes); i++ {
		assert.Less(t, outcomes[i-1].Pair, outcomes[i].Pair)
	}
}

func TestScheduler_CountsSkips(t *testing.T) {
	pipeline := newMockPipeline()
	pipeline.skipPairs["B-BX"] = domain.ErrInsufficientData
	pipeline.skipPairs["C-CX"] = domain.ErrNotCointegrated

	cfg := &config.SchedulerConfig{MaxConcurrentPairs: 2}
	sched := NewScheduler(cfg, pipeline, zaptest.NewLogger(t))

	run := domain.NewScanRun(domain.RunModeBacktest)
	outcomes := sched.Run(context.Background(), run, pairs3(t))
	require.Len(t, outcomes, 3)
	assert.Equal(t, 1, run.PairsOK)
	assert.Equal(t, 2, run.PairsSkip)

	assert.False(t, outcomes[0].Skipped())
	assert.ErrorIs(t, outcomes[1].Skip, domain.ErrInsufficientData)
	assert.ErrorIs(t, outcomes[2].Skip, domain.ErrNotCointegrated)
}

func pairs3(t *testing.T) []*domain.Pair {
	return testPairs(t, "A", "B", "C")
}

func TestScheduler_SkipNeverAbortsRun(t *testing.T) {
	pipeline := newMockPipeline()
	pipeline.skipPairs["A-AX"] = domain.ErrNoReturns

	cfg := &config.SchedulerConfig{MaxConcurrentPairs: 1}
	sched := NewScheduler(cfg, pipeline, zaptest.NewLogger(t))

	outcomes := sched.Run(context.Background(), domain.NewScanRun(domain.RunModeBacktest), pairs3(t))
	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Skipped())
	assert.False(t, outcomes[1].Skipped())
	assert.False(t, outcomes[2].Skipped())
}

func TestScheduler_CancelledContextSkipsEverything(t *testing.T) {
	pipeline := newMockPipeline()
	cfg := &config.SchedulerConfig{MaxConcurrentPairs: 2}
	sched := NewScheduler(cfg, pipeline, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := domain.NewScanRun(domain.RunModeScan)
	outcomes := sched.Run(ctx, run, testPairs(t, "A", "B", "C", "D"))
	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		assert.True(t, o.Skipped())
		assert.ErrorIs(t, o.Skip, context.Canceled)
	}
	assert.Equal(t, 4, run.PairsSkip)
}

func TestScheduler_DefaultsToOneWorker(t *testing.T) {
	pipeline := newMockPipeline()
	cfg := &config.SchedulerConfig{MaxConcurrentPairs: 0}
	sched := NewScheduler(cfg, pipeline, zaptest.NewLogger(t))

	outcomes := sched.Run(context.Background(), domain.NewScanRun(domain.RunModeScan), testPairs(t, "A", "B"))
	assert.Len(t, outcomes, 2)
}

func TestRescanLoop_ParseErrors(t *testing.T) {
	_, err := NewRescanLoop("not a cron", func(ctx context.Context) error { return nil }, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestRescanLoop_NextRun(t *testing.T) {
	loop, err := NewRescanLoop("0 * * * *", func(ctx context.Context) error { return nil }, zaptest.NewLogger(t))
	require.NoError(t, err)

	from := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	next := loop.NextRun(from)
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), next)
}

func TestRescanLoop_StopsOnCancel(t *testing.T) {
	loop, err := NewRescanLoop("* * * * *", func(ctx context.Context) error { return nil }, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("rescan loop did not stop on cancellation")
	}
}
