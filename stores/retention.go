package stores

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultRetentionSchedule runs pruning at the top of every hour.
const DefaultRetentionSchedule = "@hourly"

// Retention periodically deletes traces older than MaxAge.
type Retention struct {
	Store    TraceStore
	MaxAge   time.Duration
	Schedule string // standard cron expression or descriptor
	Logger   logrus.FieldLogger

	mu        sync.Mutex
	scheduler *cron.Cron
}

// Prune deletes every trace recorded before now minus MaxAge.
func (r *Retention) Prune(now time.Time) (int64, error) {
	if r.Store == nil {
		return 0, fmt.Errorf("retention has no trace store")
	}
	if r.MaxAge <= 0 {
		return 0, nil
	}
	return r.Store.PruneBefore(now.Add(-r.MaxAge))
}

// Start registers the pruning job and starts the scheduler. A MaxAge of zero
// disables retention and Start does nothing.
func (r *Retention) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.MaxAge <= 0 {
		return nil
	}
	if r.scheduler != nil {
		return fmt.Errorf("retention already started")
	}

	schedule := r.Schedule
	if schedule == "" {
		schedule = DefaultRetentionSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, r.run); err != nil {
		return fmt.Errorf("failed to schedule retention: %w", err)
	}
	scheduler.Start()
	r.scheduler = scheduler
	r.logger().Infof("Trace retention scheduled (%s, max age %s)", schedule, r.MaxAge)
	return nil
}

// Stop halts the scheduler. The returned context is done once a running
// prune has finished.
func (r *Retention) Stop() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scheduler == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	ctx := r.scheduler.Stop()
	r.scheduler = nil
	return ctx
}

func (r *Retention) run() {
	deleted, err := r.Prune(time.Now())
	if err != nil {
		r.logger().WithError(err).Error("Trace retention failed")
		return
	}
	if deleted > 0 {
		r.logger().WithField("deleted", deleted).Info("Pruned old turn traces")
	}
}

func (r *Retention) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}
