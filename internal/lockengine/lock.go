package lockengine

import (
	"time"

	"cosmossdk.io/math"

	"github.com/vetdao/governance-locks/internal/types"
)

// Lock is a snapshot of one locked-token position. Values handed out by the
// Registry are copies, changing them has no effect on the registry.
type Lock struct {
	ID        uint64
	Owner     string
	Amount    math.Int
	LockStart time.Time
	LockEnd   time.Time
	WarmupEnd time.Time
	// ExitEntry is set while the lock waits in the exit queue
	ExitEntry *ExitQueueEntry
	// Receipt is set once the lock has exited, it is terminal
	Receipt *ExitReceipt
}

// ExitQueueEntry is the position of a lock in the exit queue. The cooldown
// and the fee are captured at admission and never recomputed.
type ExitQueueEntry struct {
	LockID          uint64
	RequestedAt     time.Time
	ScheduledExitAt time.Time
	FeeBps          uint32
}

// ExitReceipt records the outcome of a completed exit
type ExitReceipt struct {
	LockID   uint64
	Owner    string
	Released math.Int
	Fee      math.Int
	FeeBps   uint32
	ExitedAt time.Time
}

// Status derives the lifecycle state of the lock at now
func (l Lock) Status(now time.Time) types.LockStatus {
	switch {
	case l.Receipt != nil:
		return types.StatusExited
	case l.ExitEntry != nil:
		return types.StatusQueued
	case now.Before(l.WarmupEnd):
		return types.StatusWarmingUp
	default:
		return types.StatusActive
	}
}

// TimeToMinLock is the time left until the queued lock can exit, zero when
// it already can or when it is not queued.
func (l Lock) TimeToMinLock(now time.Time) time.Duration {
	if l.ExitEntry == nil || !now.Before(l.ExitEntry.ScheduledExitAt) {
		return 0
	}
	return l.ExitEntry.ScheduledExitAt.Sub(now)
}

func (l Lock) clone() Lock {
	c := l
	if l.ExitEntry != nil {
		entry := *l.ExitEntry
		c.ExitEntry = &entry
	}
	if l.Receipt != nil {
		receipt := *l.Receipt
		c.Receipt = &receipt
	}
	return c
}

func (l Lock) isExited() bool {
	return l.Receipt != nil
}
