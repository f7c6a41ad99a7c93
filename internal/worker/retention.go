// Package worker runs the periodic trash retention sweep.
package worker

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/metrics"
	"cloud-drive/internal/ports"
	"context"
	"errors"
	"go.uber.org/zap"
	"time"
)

// SweepResult : what one pass did
type SweepResult struct {
	Resumed        int
	Purged         int
	ObjectsDeleted int
}

type RetentionSweeper struct {
	trash     ports.TrashService
	retention time.Duration
	interval  time.Duration
	metrics   *metrics.Metrics
	clock     func() time.Time
	onTick    []func()
}

func NewRetentionSweeper(trash ports.TrashService, retention, interval time.Duration, m *metrics.Metrics) *RetentionSweeper {
	return &RetentionSweeper{
		trash:     trash,
		retention: retention,
		interval:  interval,
		metrics:   m,
		clock:     time.Now,
	}
}

// WithClock : replaces time.Now for the retention cutoff
func (s *RetentionSweeper) WithClock(clock func() time.Time) *RetentionSweeper {
	s.clock = clock
	return s
}

// OnTick : extra housekeeping run after every pass
func (s *RetentionSweeper) OnTick(fn func()) {
	s.onTick = append(s.onTick, fn)
}

// RunOnce : finishes interrupted cascades, purges expired trash, drains the object deletion queue.
// Each stage runs even when an earlier one failed.
func (s *RetentionSweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	var errs []error

	resumed, err := s.trash.ResumeInterrupted(ctx)
	result.Resumed = resumed
	if err != nil {
		errs = append(errs, err)
	}

	cutoff := s.clock().Add(-s.retention)
	purged, err := s.trash.PurgeExpired(ctx, cutoff)
	result.Purged = purged
	if err != nil {
		errs = append(errs, err)
	}

	deleted, err := s.trash.DrainObjectDeletions(ctx)
	result.ObjectsDeleted = deleted
	if err != nil {
		errs = append(errs, err)
	}

	err = errors.Join(errs...)
	s.metrics.SweepCompleted(err)
	return result, err
}

// Run : blocks until ctx is cancelled, one pass immediately and then every interval
func (s *RetentionSweeper) Run(ctx context.Context) {
	logging.Info("[RetentionSweeper] started",
		zap.Duration("retention", s.retention), zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			logging.Info("[RetentionSweeper] stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *RetentionSweeper) tick(ctx context.Context) {
	result, err := s.RunOnce(ctx)
	if err != nil && ctx.Err() == nil {
		logging.Error("[RetentionSweeper] sweep failed", zap.Error(err))
	}
	if result != (SweepResult{}) {
		logging.Info("[RetentionSweeper] sweep finished",
			zap.Int("resumed", result.Resumed),
			zap.Int("purged", result.Purged),
			zap.Int("objects_deleted", result.ObjectsDeleted))
	}
	for _, fn := range s.onTick {
		fn()
	}
}
