package model

import "github.com/vetdao/governance-locks/internal/lockengine"

const ExitQueueCollection = "exit_queue"

// ExitQueueDocument mirrors a live exit queue entry. Announced is set once the
// EXIT_CLAIMABLE event went out for it.
type ExitQueueDocument struct {
	LockID          uint64 `bson:"_id" json:"lock_id"`
	Owner           string `bson:"owner" json:"owner"`
	Amount          string `bson:"amount" json:"amount"`
	RequestedAt     int64  `bson:"requested_at" json:"requested_at"`
	ScheduledExitAt int64  `bson:"scheduled_exit_at" json:"scheduled_exit_at"`
	FeeBps          uint32 `bson:"fee_bps" json:"fee_bps"`
	Announced       bool   `bson:"announced" json:"announced"`
}

func NewExitQueueDocument(lock lockengine.Lock) *ExitQueueDocument {
	entry := lock.ExitEntry
	return &ExitQueueDocument{
		LockID:          lock.ID,
		Owner:           lock.Owner,
		Amount:          lock.Amount.String(),
		RequestedAt:     entry.RequestedAt.Unix(),
		ScheduledExitAt: entry.ScheduledExitAt.Unix(),
		FeeBps:          entry.FeeBps,
	}
}
