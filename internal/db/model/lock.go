package model

import (
	"fmt"
	"time"

	"cosmossdk.io/math"

	"github.com/vetdao/governance-locks/internal/lockengine"
)

const LockCollection = "lock"

// LockDocument is the persisted form of a lock. Amounts are decimal strings
// and timestamps are unix seconds.
type LockDocument struct {
	ID        uint64               `bson:"_id" json:"id"`
	Owner     string               `bson:"owner" json:"owner"`
	Amount    string               `bson:"amount" json:"amount"`
	LockStart int64                `bson:"lock_start" json:"lock_start"`
	LockEnd   int64                `bson:"lock_end" json:"lock_end"`
	WarmupEnd int64                `bson:"warmup_end" json:"warmup_end"`
	ExitEntry *ExitEntry           `bson:"exit_entry,omitempty" json:"exit_entry,omitempty"`
	Receipt   *ExitReceiptDocument `bson:"receipt,omitempty" json:"receipt,omitempty"`
	UpdatedAt int64                `bson:"updated_at" json:"updated_at"`
}

type ExitEntry struct {
	RequestedAt     int64  `bson:"requested_at" json:"requested_at"`
	ScheduledExitAt int64  `bson:"scheduled_exit_at" json:"scheduled_exit_at"`
	FeeBps          uint32 `bson:"fee_bps" json:"fee_bps"`
}

type ExitReceiptDocument struct {
	Released string `bson:"released" json:"released"`
	Fee      string `bson:"fee" json:"fee"`
	FeeBps   uint32 `bson:"fee_bps" json:"fee_bps"`
	ExitedAt int64  `bson:"exited_at" json:"exited_at"`
}

func FromLock(lock lockengine.Lock, updatedAt time.Time) *LockDocument {
	doc := &LockDocument{
		ID:        lock.ID,
		Owner:     lock.Owner,
		Amount:    lock.Amount.String(),
		LockStart: lock.LockStart.Unix(),
		LockEnd:   lock.LockEnd.Unix(),
		WarmupEnd: lock.WarmupEnd.Unix(),
		UpdatedAt: updatedAt.Unix(),
	}

	if lock.ExitEntry != nil {
		doc.ExitEntry = &ExitEntry{
			RequestedAt:     lock.ExitEntry.RequestedAt.Unix(),
			ScheduledExitAt: lock.ExitEntry.ScheduledExitAt.Unix(),
			FeeBps:          lock.ExitEntry.FeeBps,
		}
	}

	if lock.Receipt != nil {
		doc.Receipt = &ExitReceiptDocument{
			Released: lock.Receipt.Released.String(),
			Fee:      lock.Receipt.Fee.String(),
			FeeBps:   lock.Receipt.FeeBps,
			ExitedAt: lock.Receipt.ExitedAt.Unix(),
		}
	}

	return doc
}

// ToLock restores the engine representation of the document
func (d *LockDocument) ToLock() (lockengine.Lock, error) {
	amount, ok := math.NewIntFromString(d.Amount)
	if !ok {
		return lockengine.Lock{}, fmt.Errorf("lock %d has invalid amount %q", d.ID, d.Amount)
	}

	lock := lockengine.Lock{
		ID:        d.ID,
		Owner:     d.Owner,
		Amount:    amount,
		LockStart: unixTime(d.LockStart),
		LockEnd:   unixTime(d.LockEnd),
		WarmupEnd: unixTime(d.WarmupEnd),
	}

	if d.ExitEntry != nil {
		lock.ExitEntry = &lockengine.ExitQueueEntry{
			LockID:          d.ID,
			RequestedAt:     unixTime(d.ExitEntry.RequestedAt),
			ScheduledExitAt: unixTime(d.ExitEntry.ScheduledExitAt),
			FeeBps:          d.ExitEntry.FeeBps,
		}
	}

	if d.Receipt != nil {
		released, ok := math.NewIntFromString(d.Receipt.Released)
		if !ok {
			return lockengine.Lock{}, fmt.Errorf("lock %d has invalid released amount %q", d.ID, d.Receipt.Released)
		}
		fee, ok := math.NewIntFromString(d.Receipt.Fee)
		if !ok {
			return lockengine.Lock{}, fmt.Errorf("lock %d has invalid fee %q", d.ID, d.Receipt.Fee)
		}
		lock.Receipt = &lockengine.ExitReceipt{
			LockID:   d.ID,
			Owner:    d.Owner,
			Released: released,
			Fee:      fee,
			FeeBps:   d.Receipt.FeeBps,
			ExitedAt: unixTime(d.Receipt.ExitedAt),
		}
	}

	return lock, nil
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
