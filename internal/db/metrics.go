package db

import (
	"context"
	"time"

	"github.com/vetdao/governance-locks/internal/db/model"
	"github.com/vetdao/governance-locks/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) Close(ctx context.Context) error {
	return d.db.Close(ctx)
}

func (d *DbWithMetrics) SaveLock(ctx context.Context, doc *model.LockDocument) error {
	return d.run("SaveLock", func() error {
		return d.db.SaveLock(ctx, doc)
	})
}

func (d *DbWithMetrics) GetLock(ctx context.Context, id uint64) (result *model.LockDocument, err error) {
	//nolint:errcheck
	d.run("GetLock", func() error {
		result, err = d.db.GetLock(ctx, id)
		return err
	})
	return
}

func (d *DbWithMetrics) FindAllLocks(ctx context.Context) (result []model.LockDocument, err error) {
	//nolint:errcheck
	d.run("FindAllLocks", func() error {
		result, err = d.db.FindAllLocks(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveExitQueueEntry(ctx context.Context, doc *model.ExitQueueDocument) error {
	return d.run("SaveExitQueueEntry", func() error {
		return d.db.SaveExitQueueEntry(ctx, doc)
	})
}

func (d *DbWithMetrics) DeleteExitQueueEntry(ctx context.Context, lockID uint64) error {
	return d.run("DeleteExitQueueEntry", func() error {
		return d.db.DeleteExitQueueEntry(ctx, lockID)
	})
}

func (d *DbWithMetrics) FindAllExitQueueEntries(ctx context.Context) (result []model.ExitQueueDocument, err error) {
	//nolint:errcheck
	d.run("FindAllExitQueueEntries", func() error {
		result, err = d.db.FindAllExitQueueEntries(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) FindClaimableExits(ctx context.Context, now int64, limit uint64) (result []model.ExitQueueDocument, err error) {
	//nolint:errcheck
	d.run("FindClaimableExits", func() error {
		result, err = d.db.FindClaimableExits(ctx, now, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) MarkExitAnnounced(ctx context.Context, lockID uint64) error {
	return d.run("MarkExitAnnounced", func() error {
		return d.db.MarkExitAnnounced(ctx, lockID)
	})
}

func (d *DbWithMetrics) UpsertOverallStats(ctx context.Context, stats *model.OverallStatsDocument) error {
	return d.run("UpsertOverallStats", func() error {
		return d.db.UpsertOverallStats(ctx, stats)
	})
}

func (d *DbWithMetrics) GetOverallStats(ctx context.Context) (result *model.OverallStatsDocument, err error) {
	//nolint:errcheck
	d.run("GetOverallStats", func() error {
		result, err = d.db.GetOverallStats(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
