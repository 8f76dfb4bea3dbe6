package lockengine

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vetdao/governance-locks/internal/types"
)

// Reasons reported by CanEnterQueue and CanExit. NotEligibleError carries the former.
const (
	ReasonLockNotFound     = "lock not found"
	ReasonAlreadyExited    = "lock has already exited"
	ReasonAlreadyQueued    = "lock already queued"
	ReasonWarmingUp        = "lock is still warming up"
	ReasonMinTermNotPassed = "lock has not reached minimum term"

	ReasonNotQueued          = "lock is not queued"
	ReasonCooldownNotElapsed = "cooldown not elapsed"
)

// NotEligibleError explains why a lock cannot enter the exit queue
type NotEligibleError struct {
	LockID uint64
	Reason string
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("lock %d is not eligible for exit queue: %s", e.LockID, e.Reason)
}

// CooldownError is returned when a queued lock tries to exit before its
// scheduled exit time.
type CooldownError struct {
	LockID          uint64
	ScheduledExitAt time.Time
	TimeToMinLock   time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("lock %d cooldown not elapsed, %s remaining", e.LockID, e.TimeToMinLock)
}

func errLockNotFound(id uint64) error {
	return types.NewErrorWithMsg(http.StatusNotFound, types.LockNotFound, fmt.Sprintf("lock %d not found", id))
}

func errInvalidParams(format string, args ...any) error {
	return types.NewErrorWithMsg(http.StatusBadRequest, types.InvalidLockParameters, fmt.Sprintf(format, args...))
}

func errExitedOrQueued(id uint64, status types.LockStatus) error {
	return types.NewErrorWithMsg(
		http.StatusConflict,
		types.LockExitedOrQueued,
		fmt.Sprintf("lock %d is %s", id, status),
	)
}

func errNotEligible(id uint64, reason string) error {
	return types.NewError(http.StatusConflict, types.NotEligibleForQueue, &NotEligibleError{LockID: id, Reason: reason})
}

func errCooldown(entry *ExitQueueEntry, now time.Time) error {
	return types.NewError(http.StatusConflict, types.CooldownNotElapsed, &CooldownError{
		LockID:          entry.LockID,
		ScheduledExitAt: entry.ScheduledExitAt,
		TimeToMinLock:   entry.ScheduledExitAt.Sub(now),
	})
}
