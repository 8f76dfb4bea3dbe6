package lockengine

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"cosmossdk.io/math"

	"github.com/vetdao/governance-locks/internal/types"
)

// exitQueue keeps every active entry ordered by (ScheduledExitAt, LockID)
type exitQueue struct {
	mu      sync.RWMutex
	entries []ExitQueueEntry
}

func newExitQueue() *exitQueue {
	return &exitQueue{}
}

func compareEntries(a, b ExitQueueEntry) int {
	if c := a.ScheduledExitAt.Compare(b.ScheduledExitAt); c != 0 {
		return c
	}
	return cmp.Compare(a.LockID, b.LockID)
}

func (q *exitQueue) insert(entry ExitQueueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	i, _ := slices.BinarySearchFunc(q.entries, entry, compareEntries)
	q.entries = slices.Insert(q.entries, i, entry)
}

func (q *exitQueue) remove(entry ExitQueueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	i, found := slices.BinarySearchFunc(q.entries, entry, compareEntries)
	if found {
		q.entries = slices.Delete(q.entries, i, i+1)
	}
}

func (q *exitQueue) depth() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}

func (q *exitQueue) earliest() (ExitQueueEntry, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if len(q.entries) == 0 {
		return ExitQueueEntry{}, false
	}
	return q.entries[0], true
}

// dueBefore returns up to limit entries scheduled at or before t, earliest first
func (q *exitQueue) dueBefore(t time.Time, limit int) []ExitQueueEntry {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var due []ExitQueueEntry
	for _, entry := range q.entries {
		if entry.ScheduledExitAt.After(t) || (limit > 0 && len(due) >= limit) {
			break
		}
		due = append(due, entry)
	}
	return due
}

// Eligibility is the answer to "may this lock enter the exit queue now"
type Eligibility struct {
	CanEnter bool
	Reason   string
}

// ExitEligibility is the answer to "may this queued lock exit now"
type ExitEligibility struct {
	CanExit       bool
	TimeToMinLock time.Duration
	Reason        string
}

// QueueInfo describes the queue position of one lock for monitoring
type QueueInfo struct {
	LockID        uint64
	Status        types.LockStatus
	Entry         *ExitQueueEntry
	CanExit       bool
	TimeToMinLock time.Duration
}

// notQualifiedReason explains why a lock in status can not take the next step
func notQualifiedReason(status types.LockStatus) string {
	switch status {
	case types.StatusExited:
		return ReasonAlreadyExited
	case types.StatusQueued:
		return ReasonAlreadyQueued
	case types.StatusWarmingUp:
		return ReasonWarmingUp
	default:
		return ReasonNotQueued
	}
}

func enterQueueEligibility(lock Lock, now time.Time) Eligibility {
	if status := lock.Status(now); !slices.Contains(types.QualifiedStatesForEnterQueue(), status) {
		return Eligibility{Reason: notQualifiedReason(status)}
	}
	if now.Before(lock.LockEnd) {
		return Eligibility{Reason: ReasonMinTermNotPassed}
	}
	return Eligibility{CanEnter: true}
}

func exitEligibility(lock Lock, now time.Time) ExitEligibility {
	if status := lock.Status(now); !slices.Contains(types.QualifiedStatesForExit(), status) {
		if status == types.StatusExited {
			return ExitEligibility{Reason: ReasonAlreadyExited}
		}
		return ExitEligibility{Reason: ReasonNotQueued}
	}

	remaining := lock.TimeToMinLock(now)
	if remaining > 0 {
		return ExitEligibility{TimeToMinLock: remaining, Reason: ReasonCooldownNotElapsed}
	}
	return ExitEligibility{CanExit: true}
}

// CanEnterQueue reports without side effects whether the lock may request exit at now
func (r *Registry) CanEnterQueue(id uint64, now time.Time) Eligibility {
	lock, err := r.GetLock(id)
	if err != nil {
		return Eligibility{Reason: ReasonLockNotFound}
	}
	return enterQueueEligibility(lock, now)
}

// CanExit reports without side effects whether the queued lock may exit at now
func (r *Registry) CanExit(id uint64, now time.Time) ExitEligibility {
	lock, err := r.GetLock(id)
	if err != nil {
		return ExitEligibility{Reason: ReasonLockNotFound}
	}
	return exitEligibility(lock, now)
}

// EnterQueue admits the lock to the exit queue. The cooldown and fee in
// force at now are captured on the entry.
func (r *Registry) EnterQueue(ctx context.Context, id uint64, now time.Time) (Lock, error) {
	return r.mutate(ctx, id, OpEnterQueue, now, func(next *Lock, params *Params) error {
		if next.isExited() {
			return errExitedOrQueued(id, types.StatusExited)
		}
		if eligibility := enterQueueEligibility(*next, now); !eligibility.CanEnter {
			return errNotEligible(id, eligibility.Reason)
		}

		// depth is read without the queue mutex, concurrent admissions of
		// different locks may be priced against the same depth
		next.ExitEntry = &ExitQueueEntry{
			LockID:          id,
			RequestedAt:     now,
			ScheduledExitAt: now.Add(params.CooldownPeriod),
			FeeBps:          params.Fee.FeeBps(r.queue.depth()),
		}
		return nil
	}, func(_, next Lock) {
		r.queue.insert(*next.ExitEntry)
	})
}

// ExitFromQueue releases a queued lock once its cooldown has elapsed. The
// fee captured at admission is withheld from the released amount and the
// lock becomes terminal.
func (r *Registry) ExitFromQueue(ctx context.Context, id uint64, now time.Time) (ExitReceipt, error) {
	lock, err := r.mutate(ctx, id, OpExit, now, func(next *Lock, _ *Params) error {
		if next.isExited() {
			return errExitedOrQueued(id, types.StatusExited)
		}
		entry := next.ExitEntry
		if entry == nil {
			return types.NewErrorWithMsg(http.StatusConflict, types.NotQueued, fmt.Sprintf("lock %d is not queued", id))
		}
		if now.Before(entry.ScheduledExitAt) {
			return errCooldown(entry, now)
		}

		fee, released := ApplyFee(next.Amount, entry.FeeBps)
		next.Receipt = &ExitReceipt{
			LockID:   id,
			Owner:    next.Owner,
			Released: released,
			Fee:      fee,
			FeeBps:   entry.FeeBps,
			ExitedAt: now,
		}
		next.Amount = math.ZeroInt()
		next.ExitEntry = nil
		return nil
	}, func(prev, _ Lock) {
		r.queue.remove(*prev.ExitEntry)
	})
	if err != nil {
		return ExitReceipt{}, err
	}

	return *lock.Receipt, nil
}

// CancelExit takes a queued lock out of the exit queue without charging a fee
func (r *Registry) CancelExit(ctx context.Context, id uint64, now time.Time) (Lock, error) {
	return r.mutate(ctx, id, OpCancelExit, now, func(next *Lock, params *Params) error {
		if !params.AllowCancel {
			return types.NewErrorWithMsg(http.StatusForbidden, types.CancelDisabled, "exit cancellation is disabled")
		}
		if next.isExited() {
			return errExitedOrQueued(id, types.StatusExited)
		}
		if next.ExitEntry == nil {
			return types.NewErrorWithMsg(http.StatusConflict, types.NotQueued, fmt.Sprintf("lock %d is not queued", id))
		}
		next.ExitEntry = nil
		return nil
	}, func(prev, _ Lock) {
		r.queue.remove(*prev.ExitEntry)
	})
}

// GetQueueInfo describes the queue position of each known lock, unknown
// ids are left out.
func (r *Registry) GetQueueInfo(ids []uint64, now time.Time) []QueueInfo {
	infos := make([]QueueInfo, 0, len(ids))
	for _, id := range ids {
		lock, err := r.GetLock(id)
		if err != nil {
			continue
		}

		eligibility := exitEligibility(lock, now)
		infos = append(infos, QueueInfo{
			LockID:        id,
			Status:        lock.Status(now),
			Entry:         lock.ExitEntry,
			CanExit:       eligibility.CanExit,
			TimeToMinLock: lock.TimeToMinLock(now),
		})
	}
	return infos
}

// DueExits lists up to limit queue entries whose cooldown has elapsed at now
func (r *Registry) DueExits(now time.Time, limit int) []ExitQueueEntry {
	return r.queue.dueBefore(now, limit)
}
