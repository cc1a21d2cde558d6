package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-gpa-api/internal/models"
	"github.com/noah-isme/campus-gpa-api/pkg/jobs"
)

type batchComputer interface {
	BatchAverage(ctx context.Context, uniYear models.UniYear) (*models.BatchAverage, bool, error)
}

// BatchWarmer recomputes cohort averages in the background after writes drop them from cache.
type BatchWarmer struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewBatchWarmer builds a warmer running batches on a keyed worker queue.
func NewBatchWarmer(batches batchComputer, cfg jobs.QueueConfig) *BatchWarmer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	w := &BatchWarmer{logger: cfg.Logger}
	w.queue = jobs.NewQueue("batch-warmer", func(ctx context.Context, job jobs.Job) error {
		avg, _, err := batches.BatchAverage(ctx, models.UniYear(job.Key))
		if err != nil {
			return err
		}
		w.logger.Debug("batch average warmed",
			zap.String("uni_year", job.Key),
			zap.Float64("average_gpa", avg.AverageGPA),
		)
		return nil
	}, cfg)
	return w
}

// Start launches the workers.
func (w *BatchWarmer) Start(ctx context.Context) {
	w.queue.Start(ctx)
}

// Stop waits for in-flight recomputations.
func (w *BatchWarmer) Stop() {
	w.queue.Stop()
}

// Warm schedules a recompute of the cohort. Failures to enqueue only cost a cold read later.
func (w *BatchWarmer) Warm(uniYear models.UniYear) {
	if w == nil || !uniYear.Valid() {
		return
	}
	if err := w.queue.Enqueue(string(uniYear)); err != nil {
		w.logger.Warn("batch warm skipped", zap.String("uni_year", string(uniYear)), zap.Error(err))
	}
}
