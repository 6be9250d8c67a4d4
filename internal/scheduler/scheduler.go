// Package scheduler provides pair job scheduling and worker pool management.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saltfish/pairscan/internal/config"
	"github.com/saltfish/pairscan/internal/domain"
)

// PairJob is one unit of work: a single pair to push through the pipeline.
type PairJob struct {
	ID   uuid.UUID
	Pair *domain.Pair
}

// JobResult carries a finished job back from a worker.
type JobResult struct {
	Job     *PairJob
	Outcome *domain.PairOutcome
}

// Scheduler fans a pair universe out over a bounded worker pool. Pairs are
// independent, so workers never coordinate beyond the job and result
// channels.
type Scheduler struct {
	config   *config.SchedulerConfig
	pipeline Pipeline
	logger   *zap.Logger

	jobChan    chan *PairJob
	resultChan chan *JobResult
	wg         sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg *config.SchedulerConfig, pipeline Pipeline, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   cfg,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Run processes the whole universe and blocks until every pair has an
// outcome or the context is cancelled. Cancellation stops dispatching new
// jobs; in-flight pairs still drain. Outcomes come back sorted by pair name
// so runs are reproducible regardless of worker interleaving. The caller owns
// the run record; Run fills in its completion counters.
func (s *Scheduler) Run(ctx context.Context, run *domain.ScanRun, pairs []*domain.Pair) []*domain.PairOutcome {
	workers := s.config.MaxConcurrentPairs
	if workers < 1 {
		workers = 1
	}

	s.jobChan = make(chan *PairJob, workers)
	s.resultChan = make(chan *JobResult, workers)

	s.logger.Info("Starting scan run",
		zap.String("run_id", run.ID.String()),
		zap.String("mode", run.Mode.String()),
		zap.Int("pairs", len(pairs)),
		zap.Int("workers", workers),
	)
	start := time.Now()

	for i := 0; i < workers; i++ {
		worker := NewWorker(i, s, s.logger)
		s.wg.Add(1)
		go worker.Run(ctx, &s.wg)
	}

	go s.dispatch(ctx, pairs)

	outcomes := make([]*domain.PairOutcome, 0, len(pairs))
	for range pairs {
		result := <-s.resultChan
		outcomes = append(outcomes, result.Outcome)
	}

	s.wg.Wait()

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Pair < outcomes[j].Pair
	})

	ok, skipped := 0, 0
	for _, o := range outcomes {
		if o.Skipped() {
			skipped++
		} else {
			ok++
		}
	}
	run.Complete(ok, skipped)

	s.logger.Info("Scan run finished",
		zap.String("run_id", run.ID.String()),
		zap.Int("pairs_ok", ok),
		zap.Int("pairs_skipped", skipped),
		zap.Duration("elapsed", time.Since(start)),
	)

	return outcomes
}

// dispatch feeds every pair to the pool and closes the channel so workers
// exit when the universe drains. A cancelled context turns the remaining
// pairs into cancellation skips rather than leaving the collector waiting.
func (s *Scheduler) dispatch(ctx context.Context, pairs []*domain.Pair) {
	defer close(s.jobChan)

	for _, pair := range pairs {
		job := &PairJob{ID: uuid.New(), Pair: pair}
		select {
		case s.jobChan <- job:
		case <-ctx.Done():
			s.resultChan <- &JobResult{
				Job: job,
				Outcome: &domain.PairOutcome{
					Pair: pair.Name,
					Skip: domain.NewSkipError(pair.Name, ctx.Err()),
				},
			}
		}
	}
}
