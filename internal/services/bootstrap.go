package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"

	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/db/model"
	"github.com/vetdao/governance-locks/internal/lockengine"
)

const (
	retryInterval = 2 * time.Second
	maxRetries    = 10
)

// Bootstrap loads every persisted lock into the registry and brings the exit
// queue collection in line with the restored locks. It must run once, before
// any lock operation is served.
func (s *Service) Bootstrap(ctx context.Context) error {
	log := log.Ctx(ctx)

	err := withRetry(ctx, "restore locks", func() error {
		return s.restoreLocks(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to restore locks: %w", err)
	}

	err = withRetry(ctx, "reconcile exit queue", func() error {
		return s.reconcileExitQueue(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to reconcile exit queue: %w", err)
	}

	log.Info().
		Int("locks", len(s.registry.Locks())).
		Int("queue_depth", s.registry.QueueStats(s.Now()).QueueDepth).
		Msg("Successfully bootstrapped lock registry")
	return nil
}

func withRetry(ctx context.Context, name string, f func() error) error {
	return retry.Do(f,
		retry.Context(ctx),
		retry.Attempts(maxRetries),
		retry.Delay(retryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warn().
				Err(err).
				Msgf("Failed to %s, attempt %d/%d", name, n+1, maxRetries)
		}),
	)
}

func (s *Service) restoreLocks(ctx context.Context) error {
	docs, err := s.db.FindAllLocks(ctx)
	if err != nil {
		return err
	}

	locks, err := iter.MapErr(docs, func(doc *model.LockDocument) (lockengine.Lock, error) {
		return doc.ToLock()
	})
	if err != nil {
		// corrupted documents do not heal on retry
		return retry.Unrecoverable(err)
	}

	if err := s.registry.Restore(locks); err != nil {
		return retry.Unrecoverable(err)
	}
	return nil
}

func (s *Service) reconcileExitQueue(ctx context.Context) error {
	log := log.Ctx(ctx)

	entries, err := s.db.FindAllExitQueueEntries(ctx)
	if err != nil {
		return err
	}

	stored := make(map[uint64]model.ExitQueueDocument, len(entries))
	for _, entry := range entries {
		stored[entry.LockID] = entry
	}

	for _, lock := range s.registry.Locks() {
		if lock.ExitEntry == nil {
			continue
		}

		doc, ok := stored[lock.ID]
		delete(stored, lock.ID)
		if ok && doc.ScheduledExitAt == lock.ExitEntry.ScheduledExitAt.Unix() {
			continue
		}

		log.Warn().
			Uint64("lock_id", lock.ID).
			Bool("stale", ok).
			Msg("restoring missing exit queue entry")
		if err := s.saveExitQueueEntry(ctx, lock); err != nil {
			return err
		}
	}

	for id := range stored {
		log.Warn().Uint64("lock_id", id).Msg("deleting orphaned exit queue entry")
		if err := s.db.DeleteExitQueueEntry(ctx, id); err != nil && !db.IsNotFoundError(err) {
			return err
		}
	}

	return nil
}
