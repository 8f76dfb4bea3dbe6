package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/observability/metrics"
	"github.com/vetdao/governance-locks/internal/utils/poller"
)

func (s *Service) StartExitChecker(ctx context.Context) {
	exitCheckerPoller := poller.NewPoller(
		"exit-checker",
		s.cfg.Poller.ExitCheckerPollingInterval,
		metrics.RecordPollerDuration("exit_checker", s.checkClaimableExits),
	)
	go exitCheckerPoller.Start(ctx)
}

// checkClaimableExits announces queue entries whose cooldown has elapsed. It
// never exits a lock, the owner still has to call exit.
func (s *Service) checkClaimableExits(ctx context.Context) error {
	now := s.Now()

	entries, err := s.db.FindClaimableExits(ctx, now.Unix(), s.cfg.Poller.ClaimableExitsLimit)
	if err != nil {
		return fmt.Errorf("failed to find claimable exits: %w", err)
	}

	announced := 0
	for _, entry := range entries {
		lock, err := s.registry.GetLock(entry.LockID)
		stale := err != nil ||
			lock.ExitEntry == nil ||
			lock.ExitEntry.ScheduledExitAt.Unix() != entry.ScheduledExitAt

		if stale {
			log.Ctx(ctx).Debug().
				Uint64("lock_id", entry.LockID).
				Msg("deleting exit queue entry that no longer matches its lock")
			if err := s.db.DeleteExitQueueEntry(ctx, entry.LockID); err != nil && !db.IsNotFoundError(err) {
				return fmt.Errorf("failed to delete stale exit queue entry: %w", err)
			}
			continue
		}

		if eligibility := s.registry.CanExit(lock.ID, now); !eligibility.CanExit {
			log.Ctx(ctx).Debug().
				Uint64("lock_id", lock.ID).
				Str("reason", eligibility.Reason).
				Msg("skipping exit queue entry, lock can not exit yet")
			continue
		}

		// not marked, so the next check announces it again
		if !s.enqueueEvent(ctx, newExitClaimableEvent(lock, now.Unix())) {
			continue
		}
		if err := s.db.MarkExitAnnounced(ctx, lock.ID); err != nil {
			return fmt.Errorf("failed to mark exit of lock %d announced: %w", lock.ID, err)
		}
		announced++
	}

	metrics.RecordClaimableExitsCount(announced)
	return nil
}
