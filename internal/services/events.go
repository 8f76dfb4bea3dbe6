package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/observability/metrics"
	"github.com/vetdao/governance-locks/internal/types"
)

var opEventTypes = map[lockengine.Operation]types.EventType{
	lockengine.OpCreate:           types.EventLockCreated,
	lockengine.OpIncreaseAmount:   types.EventLockIncreased,
	lockengine.OpIncreaseDuration: types.EventLockExtended,
	lockengine.OpTransfer:         types.EventLockTransferred,
	lockengine.OpEnterQueue:       types.EventExitRequested,
	lockengine.OpCancelExit:       types.EventExitCancelled,
	lockengine.OpExit:             types.EventLockExited,
}

func newLockEvent(change lockengine.Change) *types.LockEvent {
	lock := change.Current
	ev := &types.LockEvent{
		SchemaVersion: types.LockEventSchemaVersion,
		EventType:     opEventTypes[change.Op],
		LockID:        lock.ID,
		Owner:         lock.Owner,
		Amount:        lock.Amount.String(),
		LockEnd:       lock.LockEnd.Unix(),
		Timestamp:     change.At.Unix(),
	}

	if change.Op == lockengine.OpTransfer && change.Previous != nil {
		ev.PreviousOwner = change.Previous.Owner
	}
	if lock.ExitEntry != nil {
		ev.ScheduledExitAt = lock.ExitEntry.ScheduledExitAt.Unix()
		ev.FeeBps = lock.ExitEntry.FeeBps
	}
	if lock.Receipt != nil {
		ev.Released = lock.Receipt.Released.String()
		ev.Fee = lock.Receipt.Fee.String()
		ev.FeeBps = lock.Receipt.FeeBps
	}

	return ev
}

func newExitClaimableEvent(lock lockengine.Lock, at int64) *types.LockEvent {
	return &types.LockEvent{
		SchemaVersion:   types.LockEventSchemaVersion,
		EventType:       types.EventExitClaimable,
		LockID:          lock.ID,
		Owner:           lock.Owner,
		Amount:          lock.Amount.String(),
		LockEnd:         lock.LockEnd.Unix(),
		ScheduledExitAt: lock.ExitEntry.ScheduledExitAt.Unix(),
		FeeBps:          lock.ExitEntry.FeeBps,
		Timestamp:       at,
	}
}

// enqueueEvent hands the event to the publisher loop without blocking. It
// runs inside the critical section of a lock, so a full buffer drops the
// event and reports false.
func (s *Service) enqueueEvent(ctx context.Context, ev *types.LockEvent) bool {
	select {
	case s.events <- ev:
		return true
	default:
		metrics.RecordQueueSendError()
		log.Ctx(ctx).Error().
			Uint64("lock_id", ev.LockID).
			Stringer("event_type", ev.EventType).
			Int("buffered_events", len(s.events)).
			Msg("event buffer is full, dropping lock event")
		return false
	}
}

// StartEventPublisher pushes queued events in commit order until ctx is done
func (s *Service) StartEventPublisher(ctx context.Context) {
	log.Ctx(ctx).Info().Msg("Starting lock event publisher")
	for {
		select {
		case ev := <-s.events:
			s.pushEvent(ctx, ev)
		case <-ctx.Done():
			log.Ctx(ctx).Info().
				Int("pending_events", len(s.events)).
				Msg("Lock event publisher stopped")
			return
		}
	}
}

func (s *Service) pushEvent(ctx context.Context, ev *types.LockEvent) {
	if err := s.publisher.PushLockEvent(ctx, ev); err != nil {
		metrics.RecordQueueSendError()
		log.Ctx(ctx).Error().
			Err(err).
			Uint64("lock_id", ev.LockID).
			Stringer("event_type", ev.EventType).
			Msg("failed to push lock event to the queue")
	}
}
