package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Worker processes pair jobs from the scheduler's job channel.
type Worker struct {
	id        int
	scheduler *Scheduler
	logger    *zap.Logger
}

// NewWorker creates a new Worker.
func NewWorker(id int, scheduler *Scheduler, logger *zap.Logger) *Worker {
	return &Worker{
		id:        id,
		scheduler: scheduler,
		logger:    logger.With(zap.Int("worker_id", id)),
	}
}

// Run drains the job channel until it closes. Every job produces exactly one
// result; the collector counts on that to know when the run is complete.
func (w *Worker) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	w.logger.Debug("Worker started")

	for job := range w.scheduler.jobChan {
		start := time.Now()
		outcome := w.scheduler.pipeline.Process(ctx, job.Pair)

		if outcome.Skipped() {
			w.logger.Debug("Pair skipped",
				zap.String("job_id", job.ID.String()),
				zap.String("pair", job.Pair.Name),
				zap.Error(outcome.Skip),
			)
		} else {
			w.logger.Debug("Pair processed",
				zap.String("job_id", job.ID.String()),
				zap.String("pair", job.Pair.Name),
				zap.Duration("duration", time.Since(start)),
			)
		}

		w.scheduler.resultChan <- &JobResult{Job: job, Outcome: outcome}
	}

	w.logger.Debug("Worker stopped")
}
