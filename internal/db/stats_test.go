//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/db/model"
)

func TestOverallStats(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("not found", func(t *testing.T) {
		stats, err := testDB.GetOverallStats(ctx)
		assert.True(t, db.IsNotFoundError(err))
		assert.Nil(t, stats)
	})
	t.Run("upsert", func(t *testing.T) {
		stats := &model.OverallStatsDocument{
			TotalLocked:      "1000",
			TotalVotingPower: "2500.000000000000000000",
			ActiveLocks:      3,
			QueueDepth:       1,
			CurrentFeeBps:    200,
			LastUpdated:      1_750_000_000,
		}
		require.NoError(t, testDB.UpsertOverallStats(ctx, stats))

		stats.ActiveLocks = 4
		stats.QueueDepth = 0
		require.NoError(t, testDB.UpsertOverallStats(ctx, stats))

		fetched, err := testDB.GetOverallStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.OverallStatsID, fetched.ID)
		assert.Equal(t, stats, fetched)
	})
}
