package model_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdao/governance-locks/internal/db/model"
	"github.com/vetdao/governance-locks/internal/lockengine"
)

func TestLockDocument(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	lock := lockengine.Lock{
		ID:        42,
		Owner:     "0xowner",
		Amount:    math.ZeroInt(),
		LockStart: start,
		LockEnd:   start.Add(60 * 24 * time.Hour),
		WarmupEnd: start.Add(7 * 24 * time.Hour),
		ExitEntry: &lockengine.ExitQueueEntry{
			LockID:          42,
			RequestedAt:     start.Add(60 * 24 * time.Hour),
			ScheduledExitAt: start.Add(74 * 24 * time.Hour),
			FeeBps:          200,
		},
		Receipt: &lockengine.ExitReceipt{
			LockID:   42,
			Owner:    "0xowner",
			Released: math.NewInt(980),
			Fee:      math.NewInt(20),
			FeeBps:   200,
			ExitedAt: start.Add(75 * 24 * time.Hour),
		},
	}

	doc := model.FromLock(lock, start)
	assert.Equal(t, "0", doc.Amount)
	assert.Equal(t, start.Unix(), doc.UpdatedAt)

	restored, err := doc.ToLock()
	require.NoError(t, err)
	assert.Equal(t, lock.ExitEntry, restored.ExitEntry)
	assert.True(t, restored.Receipt.Released.Equal(lock.Receipt.Released))
	assert.True(t, restored.Receipt.Fee.Equal(lock.Receipt.Fee))
	assert.Equal(t, lock.Receipt.ExitedAt, restored.Receipt.ExitedAt)
	assert.Equal(t, lock.WarmupEnd, restored.WarmupEnd)

	t.Run("queue document", func(t *testing.T) {
		queued := lock
		queued.Amount = math.NewInt(1000)
		entry := model.NewExitQueueDocument(queued)
		assert.Equal(t, uint64(42), entry.LockID)
		assert.Equal(t, "1000", entry.Amount)
		assert.Equal(t, lock.ExitEntry.ScheduledExitAt.Unix(), entry.ScheduledExitAt)
		assert.False(t, entry.Announced)
	})
	t.Run("invalid amounts", func(t *testing.T) {
		broken := *doc
		broken.Amount = "ten"
		_, err := broken.ToLock()
		assert.Error(t, err)

		broken = *doc
		broken.Receipt = &model.ExitReceiptDocument{Released: "1", Fee: "-"}
		_, err = broken.ToLock()
		assert.Error(t, err)
	})
}
