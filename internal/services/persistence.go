package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/db/model"
	"github.com/vetdao/governance-locks/internal/lockengine"
)

// commitChange is the registry commit hook. The lock document is the commit
// point, exit queue documents are an index over it: an entry is written
// before a lock is saved as queued and removed only after the lock is saved
// as no longer queued. Leftover entries are cleaned by the exit checker and on
// bootstrap.
func (s *Service) commitChange(ctx context.Context, change lockengine.Change) error {
	lock := change.Current

	if change.Op == lockengine.OpEnterQueue {
		if err := s.saveExitQueueEntry(ctx, lock); err != nil {
			return err
		}
	}

	if err := s.db.SaveLock(ctx, model.FromLock(lock, change.At)); err != nil {
		return fmt.Errorf("failed to save lock: %w", err)
	}

	if change.Op == lockengine.OpCancelExit || change.Op == lockengine.OpExit {
		s.deleteExitQueueEntry(ctx, lock.ID)
	}

	s.enqueueEvent(ctx, newLockEvent(change))
	return nil
}

// saveExitQueueEntry replaces a leftover entry of an earlier failed commit
func (s *Service) saveExitQueueEntry(ctx context.Context, lock lockengine.Lock) error {
	doc := model.NewExitQueueDocument(lock)

	err := s.db.SaveExitQueueEntry(ctx, doc)
	if db.IsDuplicateKeyError(err) {
		log.Ctx(ctx).Warn().
			Uint64("lock_id", lock.ID).
			Msg("replacing stale exit queue entry")
		if err := s.db.DeleteExitQueueEntry(ctx, lock.ID); err != nil && !db.IsNotFoundError(err) {
			return fmt.Errorf("failed to delete stale exit queue entry: %w", err)
		}
		err = s.db.SaveExitQueueEntry(ctx, doc)
	}
	if err != nil {
		return fmt.Errorf("failed to save exit queue entry: %w", err)
	}

	return nil
}

func (s *Service) deleteExitQueueEntry(ctx context.Context, lockID uint64) {
	err := s.db.DeleteExitQueueEntry(ctx, lockID)
	if err != nil && !db.IsNotFoundError(err) {
		log.Ctx(ctx).Error().
			Err(err).
			Uint64("lock_id", lockID).
			Msg("failed to delete exit queue entry, it will be cleaned up later")
	}
}
