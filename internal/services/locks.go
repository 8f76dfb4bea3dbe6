package services

import (
	"context"
	"time"

	"cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/observability/metrics"
	"github.com/vetdao/governance-locks/internal/types"
)

func (s *Service) CreateLock(
	ctx context.Context, owner string, amount math.Int, duration time.Duration, now time.Time,
) (lockengine.Lock, error) {
	lock, err := s.registry.CreateLock(ctx, owner, amount, duration, now)
	s.recordOperation(ctx, lockengine.OpCreate, lock.ID, err)
	return lock, err
}

func (s *Service) IncreaseAmount(
	ctx context.Context, id uint64, additional math.Int, now time.Time,
) (lockengine.Lock, error) {
	lock, err := s.registry.IncreaseAmount(ctx, id, additional, now)
	s.recordOperation(ctx, lockengine.OpIncreaseAmount, id, err)
	return lock, err
}

func (s *Service) IncreaseDuration(
	ctx context.Context, id uint64, newLockEnd time.Time, now time.Time,
) (lockengine.Lock, error) {
	lock, err := s.registry.IncreaseDuration(ctx, id, newLockEnd, now)
	s.recordOperation(ctx, lockengine.OpIncreaseDuration, id, err)
	return lock, err
}

func (s *Service) TransferLock(
	ctx context.Context, id uint64, newOwner string, now time.Time,
) (lockengine.Lock, error) {
	lock, err := s.registry.TransferLock(ctx, id, newOwner, now)
	s.recordOperation(ctx, lockengine.OpTransfer, id, err)
	return lock, err
}

func (s *Service) EnterQueue(ctx context.Context, id uint64, now time.Time) (lockengine.Lock, error) {
	lock, err := s.registry.EnterQueue(ctx, id, now)
	s.recordOperation(ctx, lockengine.OpEnterQueue, id, err)
	return lock, err
}

func (s *Service) ExitFromQueue(ctx context.Context, id uint64, now time.Time) (lockengine.ExitReceipt, error) {
	receipt, err := s.registry.ExitFromQueue(ctx, id, now)
	s.recordOperation(ctx, lockengine.OpExit, id, err)
	return receipt, err
}

func (s *Service) CancelExit(ctx context.Context, id uint64, now time.Time) (lockengine.Lock, error) {
	lock, err := s.registry.CancelExit(ctx, id, now)
	s.recordOperation(ctx, lockengine.OpCancelExit, id, err)
	return lock, err
}

func (s *Service) GetLock(id uint64) (lockengine.Lock, error) {
	return s.registry.GetLock(id)
}

func (s *Service) GetStatus(id uint64, now time.Time) (types.LockStatus, error) {
	return s.registry.GetStatus(id, now)
}

func (s *Service) LocksByOwner(owner string) []lockengine.Lock {
	return s.registry.LocksByOwner(owner)
}

func (s *Service) CanEnterQueue(id uint64, now time.Time) lockengine.Eligibility {
	return s.registry.CanEnterQueue(id, now)
}

func (s *Service) CanExit(id uint64, now time.Time) lockengine.ExitEligibility {
	return s.registry.CanExit(id, now)
}

func (s *Service) GetQueueInfo(ids []uint64, now time.Time) []lockengine.QueueInfo {
	return s.registry.GetQueueInfo(ids, now)
}

func (s *Service) QueueStats(now time.Time) lockengine.QueueStats {
	return s.registry.QueueStats(now)
}

func (s *Service) OwnerBreakdown(owner string, now time.Time) lockengine.VotingPowerBreakdown {
	return s.registry.OwnerBreakdown(owner, now)
}

// recordOperation counts the outcome. Rejections are expected user errors and
// logged at debug level, anything else is an internal failure.
func (s *Service) recordOperation(ctx context.Context, op lockengine.Operation, id uint64, err error) {
	metrics.RecordLockOperation(op.String(), err != nil)

	if err == nil {
		log.Ctx(ctx).Debug().
			Stringer("operation", op).
			Uint64("lock_id", id).
			Msg("lock operation committed")
		return
	}

	if types.IsErrorCode(err, types.InternalServiceError) {
		log.Ctx(ctx).Error().
			Err(err).
			Stringer("operation", op).
			Uint64("lock_id", id).
			Msg("lock operation failed")
		return
	}

	log.Ctx(ctx).Debug().
		Err(err).
		Stringer("operation", op).
		Uint64("lock_id", id).
		Msg("lock operation rejected")
}
