package handlers

import (
	"time"

	"cosmossdk.io/math"

	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/types"
)

type CreateLockRequest struct {
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
	// Duration of the lock in seconds
	Duration  uint64 `json:"duration"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

type IncreaseAmountRequest struct {
	Amount    string `json:"amount"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

type IncreaseDurationRequest struct {
	// LockEnd is the new unix lock end, it must be after the current one
	LockEnd   int64  `json:"lock_end"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

type TransferLockRequest struct {
	NewOwner  string `json:"new_owner"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

// TimestampRequest is the body of queue, exit and cancel-exit, all optional
type TimestampRequest struct {
	Timestamp *int64 `json:"timestamp,omitempty"`
}

type QueueInfoRequest struct {
	LockIDs   []uint64 `json:"lock_ids"`
	Timestamp *int64   `json:"timestamp,omitempty"`
}

type ExitEntryPublic struct {
	RequestedAt     int64  `json:"requested_at"`
	ScheduledExitAt int64  `json:"scheduled_exit_at"`
	FeeBps          uint32 `json:"fee_bps"`
}

type ExitReceiptPublic struct {
	LockID   uint64 `json:"lock_id"`
	Owner    string `json:"owner"`
	Released string `json:"released"`
	Fee      string `json:"fee"`
	FeeBps   uint32 `json:"fee_bps"`
	ExitedAt int64  `json:"exited_at"`
}

type LockPublic struct {
	ID          uint64             `json:"id"`
	Owner       string             `json:"owner"`
	Amount      string             `json:"amount"`
	LockStart   int64              `json:"lock_start"`
	LockEnd     int64              `json:"lock_end"`
	WarmupEnd   int64              `json:"warmup_end"`
	Status      types.LockStatus   `json:"status"`
	VotingPower string             `json:"voting_power"`
	ExitEntry   *ExitEntryPublic   `json:"exit_entry,omitempty"`
	Receipt     *ExitReceiptPublic `json:"receipt,omitempty"`
}

type LockStatusPublic struct {
	LockID      uint64           `json:"lock_id"`
	Status      types.LockStatus `json:"status"`
	VotingPower string           `json:"voting_power"`
}

type EligibilityPublic struct {
	LockID   uint64 `json:"lock_id"`
	CanEnter bool   `json:"can_enter"`
	Reason   string `json:"reason,omitempty"`
}

type ExitEligibilityPublic struct {
	LockID  uint64 `json:"lock_id"`
	CanExit bool   `json:"can_exit"`
	// TimeToMinLock is the remaining cooldown in seconds
	TimeToMinLock int64  `json:"time_to_min_lock"`
	Reason        string `json:"reason,omitempty"`
}

type QueueInfoPublic struct {
	LockID uint64           `json:"lock_id"`
	Status types.LockStatus `json:"status"`
	Entry  *ExitEntryPublic `json:"entry"`
	// TimeToMinLock is the remaining cooldown in seconds
	TimeToMinLock int64 `json:"time_to_min_lock"`
	CanExit       bool  `json:"can_exit"`
}

type QueueStatsPublic struct {
	NextExitDate int64 `json:"next_exit_date"`
	// CooldownPeriod in seconds
	CooldownPeriod int64  `json:"cooldown_period"`
	FeeBps         uint32 `json:"fee_bps"`
	QueueDepth     int    `json:"queue_depth"`
}

type VotingPowerPublic struct {
	Owner             string `json:"owner"`
	TotalLocked       string `json:"total_locked"`
	TotalVotingPower  string `json:"total_voting_power"`
	ActiveVotingPower string `json:"active_voting_power"`
	WarmingUpLocked   string `json:"warming_up_locked"`
	WarmingUpCount    int    `json:"warming_up_count"`
	ActiveLocked      string `json:"active_locked"`
	ActiveCount       int    `json:"active_count"`
	QueuedLocked      string `json:"queued_locked"`
	QueuedCount       int    `json:"queued_count"`
	ExitedCount       int    `json:"exited_count"`
}

func newExitEntryPublic(entry *lockengine.ExitQueueEntry) *ExitEntryPublic {
	if entry == nil {
		return nil
	}
	return &ExitEntryPublic{
		RequestedAt:     entry.RequestedAt.Unix(),
		ScheduledExitAt: entry.ScheduledExitAt.Unix(),
		FeeBps:          entry.FeeBps,
	}
}

func newExitReceiptPublic(receipt lockengine.ExitReceipt) *ExitReceiptPublic {
	return &ExitReceiptPublic{
		LockID:   receipt.LockID,
		Owner:    receipt.Owner,
		Released: receipt.Released.String(),
		Fee:      receipt.Fee.String(),
		FeeBps:   receipt.FeeBps,
		ExitedAt: receipt.ExitedAt.Unix(),
	}
}

func newLockPublic(lock lockengine.Lock, status types.LockStatus, power math.LegacyDec) LockPublic {
	public := LockPublic{
		ID:          lock.ID,
		Owner:       lock.Owner,
		Amount:      lock.Amount.String(),
		LockStart:   lock.LockStart.Unix(),
		LockEnd:     lock.LockEnd.Unix(),
		WarmupEnd:   lock.WarmupEnd.Unix(),
		Status:      status,
		VotingPower: power.String(),
		ExitEntry:   newExitEntryPublic(lock.ExitEntry),
	}
	if lock.Receipt != nil {
		public.Receipt = newExitReceiptPublic(*lock.Receipt)
	}
	return public
}

func newVotingPowerPublic(owner string, b lockengine.VotingPowerBreakdown) VotingPowerPublic {
	return VotingPowerPublic{
		Owner:             owner,
		TotalLocked:       b.TotalLocked.String(),
		TotalVotingPower:  b.TotalVotingPower.String(),
		ActiveVotingPower: b.ActiveVotingPower.String(),
		WarmingUpLocked:   b.WarmingUpLocked.String(),
		WarmingUpCount:    b.WarmingUpCount,
		ActiveLocked:      b.ActiveLocked.String(),
		ActiveCount:       b.ActiveCount,
		QueuedLocked:      b.QueuedLocked.String(),
		QueuedCount:       b.QueuedCount,
		ExitedCount:       b.ExitedCount,
	}
}

// ceilSeconds rounds a duration up to whole seconds
func ceilSeconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}
