//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/db/model"
	"github.com/vetdao/governance-locks/testutil"
)

func TestExitQueue(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	const now = int64(1_750_000_000)

	t.Run("no documents", func(t *testing.T) {
		docs, err := testDB.FindClaimableExits(ctx, now, 10)
		require.NoError(t, err)
		assert.Nil(t, docs)
	})
	t.Run("duplicate entry", func(t *testing.T) {
		entry := testutil.FakeExitQueueDocument(testutil.FakeLockDocument(100), 1000, 200)
		require.NoError(t, testDB.SaveExitQueueEntry(ctx, entry))

		err := testDB.SaveExitQueueEntry(ctx, entry)
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKeyError(err))

		require.NoError(t, testDB.DeleteExitQueueEntry(ctx, entry.LockID))
		err = testDB.DeleteExitQueueEntry(ctx, entry.LockID)
		assert.True(t, db.IsNotFoundError(err))
	})
	t.Run("claimable exits", func(t *testing.T) {
		entries := []*model.ExitQueueDocument{
			{LockID: 3, Owner: "a", Amount: "10", ScheduledExitAt: now - 100, FeeBps: 200},
			{LockID: 1, Owner: "b", Amount: "20", ScheduledExitAt: now, FeeBps: 200},
			{LockID: 2, Owner: "c", Amount: "30", ScheduledExitAt: now - 100, FeeBps: 100},
			{LockID: 4, Owner: "d", Amount: "40", ScheduledExitAt: now + 1, FeeBps: 200},
		}
		for _, entry := range entries {
			require.NoError(t, testDB.SaveExitQueueEntry(ctx, entry))
		}

		// equal scheduled times are ordered by lock id, the boundary is inclusive
		docs, err := testDB.FindClaimableExits(ctx, now, 10)
		require.NoError(t, err)
		assert.Equal(t, []model.ExitQueueDocument{*entries[2], *entries[0], *entries[1]}, docs)

		docs, err = testDB.FindClaimableExits(ctx, now, 1)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, uint64(2), docs[0].LockID)

		require.NoError(t, testDB.MarkExitAnnounced(ctx, 2))
		docs, err = testDB.FindClaimableExits(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, uint64(3), docs[0].LockID)

		all, err := testDB.FindAllExitQueueEntries(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.True(t, all[0].Announced)
		assert.Equal(t, uint64(4), all[3].LockID)

		err = testDB.MarkExitAnnounced(ctx, 404)
		assert.True(t, db.IsNotFoundError(err))
	})
}
