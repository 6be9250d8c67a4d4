package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RescanLoop re-runs the scan on a cron schedule. It is the daemon-mode
// driver: a one-shot run happens first, then the loop sleeps until the next
// cron tick.
type RescanLoop struct {
	schedule cron.Schedule
	expr     string
	execute  func(ctx context.Context) error
	logger   *zap.Logger
}

// NewRescanLoop parses a standard five-field cron expression and wraps the
// run function.
func NewRescanLoop(cronExpr string, execute func(ctx context.Context) error, logger *zap.Logger) (*RescanLoop, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron expression %q: %w", cronExpr, err)
	}
	return &RescanLoop{
		schedule: schedule,
		expr:     cronExpr,
		execute:  execute,
		logger:   logger,
	}, nil
}

// NextRun returns the next scheduled run time after from.
func (l *RescanLoop) NextRun(from time.Time) time.Time {
	return l.schedule.Next(from)
}

// Start blocks until the context is cancelled, firing the run function at
// every cron tick. A failed run is logged and the loop keeps going; only
// cancellation stops it.
func (l *RescanLoop) Start(ctx context.Context) error {
	l.logger.Info("Rescan loop started",
		zap.String("cron", l.expr),
		zap.Time("next_run", l.NextRun(time.Now())),
	)

	for {
		next := l.NextRun(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			l.logger.Info("Rescan loop stopped")
			return ctx.Err()
		case <-timer.C:
		}

		l.logger.Info("Executing scheduled rescan", zap.Time("scheduled_at", next))
		if err := l.execute(ctx); err != nil {
			if ctx.Err() != nil {
				l.logger.Info("Rescan loop stopped")
				return ctx.Err()
			}
			l.logger.Error("Scheduled rescan failed", zap.Error(err))
		}
	}
}
