package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/buffer"
	"github.com/taskforge/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// FlusherConfig controls how frequently the buffer is drained.
type FlusherConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// ActivityFlusher replays buffered activity records into the primary store
// once it is reachable again. Items that keep failing past MaxRetries, and
// items older than Retention, are dropped: the audit trail is best-effort.
type ActivityFlusher struct {
	store      *buffer.Store
	monitor    ConnectionHealth
	activities repository.ActivityRepository
	tasks      repository.TaskRepository
	logger     *zap.Logger
	cron       *cron.Cron
	cfg        FlusherConfig
}

func NewActivityFlusher(
	store *buffer.Store,
	monitor ConnectionHealth,
	activities repository.ActivityRepository,
	tasks repository.TaskRepository,
	logger *zap.Logger,
	cfg FlusherConfig,
) *ActivityFlusher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &ActivityFlusher{
		store:      store,
		monitor:    monitor,
		activities: activities,
		tasks:      tasks,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = f.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := f.Drain(ctx); err != nil {
			f.logger.Error("activity buffer drain failed", zap.Error(err))
		}
	})

	return f
}

// Start launches the cron scheduler.
func (f *ActivityFlusher) Start() {
	if f == nil || f.cron == nil {
		return
	}
	f.cron.Start()
	f.logger.Info("activity flusher started")
}

// Stop gracefully stops the scheduler.
func (f *ActivityFlusher) Stop(ctx context.Context) {
	if f == nil || f.cron == nil {
		return
	}
	stopCtx := f.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	f.logger.Info("activity flusher stopped")
}

// Drain replays buffered activity records synchronously.
func (f *ActivityFlusher) Drain(ctx context.Context) error {
	if f == nil || f.store == nil {
		return nil
	}
	if f.monitor != nil && !f.monitor.IsOnline() {
		f.logger.Debug("skipping activity drain (offline)")
		return nil
	}

	if err := f.store.Cleanup(time.Now().Add(-f.cfg.Retention)); err != nil {
		f.logger.Warn("activity buffer cleanup failed", zap.Error(err))
	}

	items, err := f.store.GetBatch(f.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.replay(ctx, item); err != nil {
			if item.Retries+1 >= f.cfg.MaxRetries {
				f.logger.Warn("dropping buffered activity",
					zap.String("task_id", item.Activity.TaskID),
					zap.Int("retries", item.Retries),
					zap.Error(err),
				)
				if rmErr := f.store.Remove(item); rmErr != nil {
					f.logger.Error("buffer remove failed", zap.Error(rmErr))
				}
				continue
			}
			if rqErr := f.store.Requeue(item); rqErr != nil {
				f.logger.Error("buffer requeue failed", zap.Error(rqErr))
			}
			continue
		}
		if err := f.store.Remove(item); err != nil {
			f.logger.Error("buffer remove failed", zap.Error(err))
		}
	}
	return nil
}

func (f *ActivityFlusher) replay(ctx context.Context, item buffer.Item) error {
	// The parent task may have been hard-deleted while the record sat in
	// the buffer; replaying it would violate the cascade, so drop it.
	if f.tasks != nil {
		if _, err := f.tasks.GetByID(ctx, item.Activity.TaskID); err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil
			}
			return err
		}
	}
	activity := item.Activity
	return f.activities.Insert(ctx, &activity)
}
