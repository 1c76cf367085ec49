package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/domain/model"
)

const (
	defaultRetention = 30 * 24 * time.Hour
	defaultBatch     = 100
)

// RejectedStore lists rejected ad requests that still own a stored creative,
// in ascending id order starting after afterID.
type RejectedStore interface {
	ListRejectedWithImages(ctx context.Context, cutoff time.Time, afterID int64, limit int) ([]model.AdRequest, error)
	ClearImage(ctx context.Context, id int64) error
}

type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

type Recorder interface {
	CleanupDeleted(n int)
	CleanupFailed()
}

type Job struct {
	store     RejectedStore
	objects   ObjectDeleter
	metrics   Recorder
	retention time.Duration
	batch     int
	now       func() time.Time
	logger    *zap.Logger
}

func NewRejectedCreativeJob(store RejectedStore, objects ObjectDeleter, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = defaultRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		store:     store,
		objects:   objects,
		retention: retention,
		batch:     defaultBatch,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) AttachMetrics(metrics Recorder) {
	j.metrics = metrics
}

// Run purges one pass of expired creatives. It pages by id, so objects that
// fail to delete keep their key for the next pass without holding back the
// rest of this one.
func (j *Job) Run(ctx context.Context) error {
	if j.store == nil || j.objects == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	var afterID int64
	candidates, deleted := 0, 0
	for {
		items, err := j.store.ListRejectedWithImages(ctx, cutoff, afterID, j.batch)
		if err != nil {
			j.failed()
			return fmt.Errorf("list rejected ad requests: %w", err)
		}
		candidates += len(items)

		for _, item := range items {
			afterID = item.ID
			if err := j.objects.Delete(ctx, item.ImageKey); err != nil {
				j.failed()
				j.logger.Warn("failed to delete creative from storage", zap.Error(err), zap.String("object_key", item.ImageKey), zap.Int64("ad_request_id", item.ID))
				continue
			}
			if err := j.store.ClearImage(ctx, item.ID); err != nil {
				j.failed()
				j.recordDeleted(deleted)
				return fmt.Errorf("clear ad request image: %w", err)
			}
			deleted++
		}

		if len(items) < j.batch || ctx.Err() != nil {
			break
		}
	}

	if candidates == 0 {
		return nil
	}
	j.recordDeleted(deleted)
	j.logger.Info("cleanup rejected creatives completed", zap.Int("deleted", deleted), zap.Int("candidates", candidates))
	return nil
}

func (j *Job) recordDeleted(n int) {
	if j.metrics != nil {
		j.metrics.CleanupDeleted(n)
	}
}

// Loop runs the job immediately and then on every tick until ctx ends.
func (j *Job) Loop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if err := j.Run(ctx); err != nil {
		j.logger.Warn("cleanup run failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("cleanup run failed", zap.Error(err))
			}
		}
	}
}

func (j *Job) failed() {
	if j.metrics != nil {
		j.metrics.CleanupFailed()
	}
}
